package domain

import "github.com/shopspring/decimal"

// LineItem — позиция заказа. После построения заказа не изменяется.
type LineItem struct {
	Product   string          `json:"product"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order — сохранённый заказ. Total — кэшированное производное значение:
// всегда равен сумме unitPrice*quantity по всем позициям и считается
// один раз при построении из события.
type Order struct {
	OrderID    int64           `json:"orderId"`
	CustomerID int64           `json:"customerId"`
	Items      []LineItem      `json:"items,omitempty"`
	Total      decimal.Decimal `json:"total"`
}

// OrderCreatedEvent — входящее событие из очереди (wire-контракт).
// Идентификаторы назначает продюсер, мы их не генерируем.
type OrderCreatedEvent struct {
	OrderID    int64       `json:"orderId"`
	CustomerID int64       `json:"customerId"`
	Items      []EventItem `json:"items"`
}

// EventItem — позиция внутри события.
type EventItem struct {
	Product   string          `json:"product"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderFromEvent — строит доменный заказ из события: копирует позиции
// с сохранением порядка и считает итог точной десятичной арифметикой.
func OrderFromEvent(e *OrderCreatedEvent) *Order {
	items := make([]LineItem, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, LineItem{
			Product:   it.Product,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return &Order{
		OrderID:    e.OrderID,
		CustomerID: e.CustomerID,
		Items:      items,
		Total:      OrderTotal(items),
	}
}

// OrderPage — страница заказов одного клиента плюс метаданные пагинации.
type OrderPage struct {
	Orders        []*Order
	Page          int
	PageSize      int
	TotalElements int64
	TotalPages    int64
}

// CustomerOrderSummary — ответ Query Service: агрегат по всем заказам
// клиента вместе с запрошенной страницей. Агрегат считается по всей
// истории, не только по странице.
type CustomerOrderSummary struct {
	TotalOnOrders decimal.Decimal
	Page          OrderPage
}
