package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
)

// OrderRepository — долговременное хранилище заказов.
// Save — идемпотентный upsert по order_id (повторная доставка события
// перезаписывает запись, last-write-wins). Ошибки хранилища оборачиваются
// в domain.ErrStorage.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)

	// ListByCustomer — страница заказов клиента в стабильном порядке
	// по order_id; окно задаётся как (limit, offset).
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*domain.Order, error)

	// CountByCustomer — полное число заказов клиента (для пагинации).
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)

	// SumTotalsByCustomer — точная сумма total по всем заказам клиента,
	// считается на стороне БД. Нет заказов — ровно ноль.
	SumTotalsByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error)

	// LastN — последние N заказов (прогрев кэша).
	LastN(ctx context.Context, n int) ([]*domain.Order, error)
}
