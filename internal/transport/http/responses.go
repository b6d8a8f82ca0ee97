package rest

import (
	"encoding/json"

	"github.com/brunopultz/orderms/internal/domain"
)

// Параметры пагинации по умолчанию (контракт read API).
const (
	defaultPage     = 0
	defaultPageSize = 10
)

// Денежные значения отдаются как JSON-числа без потери точности:
// decimal рендерится через json.Number, минуя float64.

// OrderResponse — заказ в листинге (позиции не раскрываются).
type OrderResponse struct {
	OrderID    int64       `json:"orderId"`
	CustomerID int64       `json:"customerId"`
	Total      json.Number `json:"total"`
}

// ItemResponse — позиция заказа в ответе /orders/:orderId.
type ItemResponse struct {
	Product   string      `json:"product"`
	Quantity  int64       `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

// OrderDetailsResponse — полный заказ с позициями.
type OrderDetailsResponse struct {
	OrderID    int64          `json:"orderId"`
	CustomerID int64          `json:"customerId"`
	Items      []ItemResponse `json:"items"`
	Total      json.Number    `json:"total"`
}

// MetaResponse — агрегатная часть конверта.
type MetaResponse struct {
	TotalOnOrders json.Number `json:"totalOnOrders"`
}

// PaginationResponse — метаданные пагинации.
type PaginationResponse struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
}

// APIResponse — конверт ответа листинга: агрегат + данные + пагинация.
type APIResponse struct {
	Meta       MetaResponse       `json:"meta"`
	Data       []OrderResponse    `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

func customerOrdersResponse(summary *domain.CustomerOrderSummary) APIResponse {
	data := make([]OrderResponse, 0, len(summary.Page.Orders))
	for _, order := range summary.Page.Orders {
		data = append(data, OrderResponse{
			OrderID:    order.OrderID,
			CustomerID: order.CustomerID,
			Total:      json.Number(order.Total.String()),
		})
	}
	return APIResponse{
		Meta: MetaResponse{TotalOnOrders: json.Number(summary.TotalOnOrders.String())},
		Data: data,
		Pagination: PaginationResponse{
			Page:          summary.Page.Page,
			PageSize:      summary.Page.PageSize,
			TotalElements: summary.Page.TotalElements,
			TotalPages:    summary.Page.TotalPages,
		},
	}
}

func orderWithItemsResponse(order *domain.Order) OrderDetailsResponse {
	items := make([]ItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemResponse{
			Product:   item.Product,
			Quantity:  item.Quantity,
			UnitPrice: json.Number(item.UnitPrice.String()),
		})
	}
	return OrderDetailsResponse{
		OrderID:    order.OrderID,
		CustomerID: order.CustomerID,
		Items:      items,
		Total:      json.Number(order.Total.String()),
	}
}
