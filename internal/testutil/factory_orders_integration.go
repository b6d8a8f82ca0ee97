//go:build integration

package testutil

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
)

// Счётчик для уникальных идентификаторов внутри одного прогона.
var idSeq atomic.Int64

// NextID — уникальный положительный int64 (база — наносекунды старта).
func NextID() int64 {
	return time.Now().UnixNano()%1_000_000_000_000 + idSeq.Add(1)
}

// Мини-генератор валидного события order-created.
func MakeEvent(customerID int64, opts ...func(*domain.OrderCreatedEvent)) domain.OrderCreatedEvent {
	e := domain.OrderCreatedEvent{
		OrderID:    NextID(),
		CustomerID: customerID,
		Items: []domain.EventItem{
			{Product: "laptop", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{Product: "mouse", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
		},
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithItems — переопределяет позиции события.
func WithItems(items ...domain.EventItem) func(*domain.OrderCreatedEvent) {
	return func(e *domain.OrderCreatedEvent) { e.Items = items }
}

// WithOrderID — фиксирует orderId (для проверок идемпотентности).
func WithOrderID(id int64) func(*domain.OrderCreatedEvent) {
	return func(e *domain.OrderCreatedEvent) { e.OrderID = id }
}

// MakeOrder — доменный заказ из сгенерированного события.
func MakeOrder(customerID int64, opts ...func(*domain.OrderCreatedEvent)) *domain.Order {
	e := MakeEvent(customerID, opts...)
	return domain.OrderFromEvent(&e)
}

// EventJSON — каноничный wire-формат события для публикации в топик.
func EventJSON(e domain.OrderCreatedEvent) []byte {
	raw, _ := json.Marshal(e)
	return raw
}
