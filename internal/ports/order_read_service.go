package ports

import (
	"context"

	"github.com/brunopultz/orderms/internal/domain"
)

// OrderReadService — сервис чтения для HTTP-слоя.
type OrderReadService interface {
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)

	// CustomerOrders — страница заказов клиента вместе с агрегатом
	// по всем его заказам. Пустой результат — успех, не ошибка.
	CustomerOrders(ctx context.Context, customerID int64, page, pageSize int) (*domain.CustomerOrderSummary, error)
}
