package validate

import (
	"context"
	"fmt"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports"
)

// Проверка, что EventValidator удовлетворяет порту EventValidator.
var _ ports.EventValidator = (*EventValidator)(nil)

// EventValidator — валидация входящих событий order-created.
// Любая проблема возвращается как обёрнутый domain.ErrValidation,
// чтобы консьюмер мог отличить «пропустить навсегда» от «повторить».
type EventValidator struct{}

// NewEventValidator — конструктор EventValidator.
func NewEventValidator() *EventValidator { return &EventValidator{} }

// Validate — проверяет форму события: идентификаторы, позиции.
// Пустой список позиций допустим (итог будет ровно ноль).
func (v *EventValidator) Validate(_ context.Context, event *domain.OrderCreatedEvent) error {
	if event == nil {
		return fmt.Errorf("%w: событие не может быть nil", domain.ErrValidation)
	}
	if event.OrderID <= 0 {
		return fmt.Errorf("%w: orderId должен быть положительным", domain.ErrValidation)
	}
	if event.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId должен быть положительным", domain.ErrValidation)
	}
	return v.validateItems(event.Items)
}

// validateItems — проверка позиций: отрицательное количество или цена
// отклоняются, чтобы не получить молча отрицательный итог.
func (v *EventValidator) validateItems(items []domain.EventItem) error {
	for i := range items {
		item := &items[i]

		if item.Product == "" {
			return fmt.Errorf("%w: items[%d].product обязателен", domain.ErrValidation, i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: items[%d].quantity должен быть неотрицательным", domain.ErrValidation, i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: items[%d].unitPrice должен быть неотрицательным", domain.ErrValidation, i)
		}
	}
	return nil
}
