package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports/mocks"
	rest "github.com/brunopultz/orderms/internal/transport/http"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func newTestRouter(t *testing.T) (*mocks.MockOrderReadService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderReadService(ctrl)
	h := rest.NewHandler(svc, noopLogger{}, 0)
	return svc, rest.NewRouter(h, "")
}

func doGet(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetOrder_Found(t *testing.T) {
	svc, r := newTestRouter(t)

	want := &domain.Order{
		OrderID:    101,
		CustomerID: 42,
		Items: []domain.LineItem{
			{Product: "laptop", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{Product: "mouse", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
		},
		Total: decimal.RequireFromString("25.50"),
	}
	svc.EXPECT().GetOrder(gomock.Any(), int64(101)).Return(want, nil)

	w := doGet(t, r, "/orders/101")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}

	// total — JSON-число, не строка
	if !strings.Contains(w.Body.String(), `"total":25.5`) {
		t.Fatalf("total must be a json number: %s", w.Body.String())
	}

	var got struct {
		OrderID    int64 `json:"orderId"`
		CustomerID int64 `json:"customerId"`
		Items      []struct {
			Product   string      `json:"product"`
			Quantity  int64       `json:"quantity"`
			UnitPrice json.Number `json:"unitPrice"`
		} `json:"items"`
		Total json.Number `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.OrderID != 101 || got.CustomerID != 42 || len(got.Items) != 2 {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got.Items[0].UnitPrice.String() != "10" || got.Items[1].UnitPrice.String() != "5.5" {
		t.Fatalf("unexpected item prices: %+v", got.Items)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, r := newTestRouter(t)

	svc.EXPECT().GetOrder(gomock.Any(), int64(404)).Return(nil, nil)

	w := doGet(t, r, "/orders/404")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestGetOrder_BadID(t *testing.T) {
	_, r := newTestRouter(t)

	for _, path := range []string{"/orders/abc", "/orders/0", "/orders/-5"} {
		w := doGet(t, r, path)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", path, w.Code)
		}
	}
}

func TestGetOrder_StorageUnavailable(t *testing.T) {
	svc, r := newTestRouter(t)

	svc.EXPECT().GetOrder(gomock.Any(), int64(1)).Return(nil, domain.ErrStorage)

	w := doGet(t, r, "/orders/1")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestGetOrder_InternalError(t *testing.T) {
	svc, r := newTestRouter(t)

	svc.EXPECT().GetOrder(gomock.Any(), int64(1)).Return(nil, errors.New("boom"))

	w := doGet(t, r, "/orders/1")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d, body=%s", w.Code, w.Body.String())
	}
}

// Конверт листинга: meta.totalOnOrders + data + pagination;
// дефолты пагинации page=0, pageSize=10.
func TestListCustomerOrders_OK_Defaults(t *testing.T) {
	svc, r := newTestRouter(t)

	summary := &domain.CustomerOrderSummary{
		TotalOnOrders: decimal.RequireFromString("28.50"),
		Page: domain.OrderPage{
			Orders: []*domain.Order{
				{OrderID: 1, CustomerID: 42, Total: decimal.RequireFromString("25.50")},
				{OrderID: 2, CustomerID: 42, Total: decimal.RequireFromString("3.00")},
			},
			Page: 0, PageSize: 10, TotalElements: 2, TotalPages: 1,
		},
	}
	svc.EXPECT().CustomerOrders(gomock.Any(), int64(42), 0, 10).Return(summary, nil)

	w := doGet(t, r, "/customers/42/orders")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}

	// денежные поля — JSON-числа
	if !strings.Contains(w.Body.String(), `"totalOnOrders":28.5`) {
		t.Fatalf("totalOnOrders must be a json number: %s", w.Body.String())
	}

	var got struct {
		Meta struct {
			TotalOnOrders json.Number `json:"totalOnOrders"`
		} `json:"meta"`
		Data []struct {
			OrderID    int64       `json:"orderId"`
			CustomerID int64       `json:"customerId"`
			Total      json.Number `json:"total"`
		} `json:"data"`
		Pagination struct {
			Page          int   `json:"page"`
			PageSize      int   `json:"pageSize"`
			TotalElements int64 `json:"totalElements"`
			TotalPages    int64 `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Meta.TotalOnOrders.String() != "28.5" {
		t.Fatalf("want totalOnOrders 28.5, got %s", got.Meta.TotalOnOrders)
	}
	if len(got.Data) != 2 || got.Data[0].Total.String() != "25.5" || got.Data[1].Total.String() != "3" {
		t.Fatalf("unexpected data: %+v", got.Data)
	}
	if got.Pagination.Page != 0 || got.Pagination.PageSize != 10 ||
		got.Pagination.TotalElements != 2 || got.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", got.Pagination)
	}
}

func TestListCustomerOrders_OK_WithParams(t *testing.T) {
	svc, r := newTestRouter(t)

	summary := &domain.CustomerOrderSummary{
		TotalOnOrders: decimal.Zero,
		Page:          domain.OrderPage{Page: 3, PageSize: 5, TotalElements: 16, TotalPages: 4},
	}
	svc.EXPECT().CustomerOrders(gomock.Any(), int64(9), 3, 5).Return(summary, nil)

	w := doGet(t, r, "/customers/9/orders?page=3&pageSize=5")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	// пустая страница сериализуется как [], а не null
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Fatalf("empty page must serialize as []: %s", w.Body.String())
	}
}

func TestListCustomerOrders_BadParams(t *testing.T) {
	_, r := newTestRouter(t)

	paths := []string{
		"/customers/abc/orders",
		"/customers/42/orders?page=-1",
		"/customers/42/orders?page=x",
		"/customers/42/orders?pageSize=0",
		"/customers/42/orders?pageSize=-3",
		"/customers/42/orders?pageSize=ten",
	}
	for _, path := range paths {
		w := doGet(t, r, path)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d, body=%s", path, w.Code, w.Body.String())
		}
	}
}

// Неизвестный клиент — это не ошибка, а пустой успешный ответ.
func TestListCustomerOrders_UnknownCustomer(t *testing.T) {
	svc, r := newTestRouter(t)

	summary := &domain.CustomerOrderSummary{
		TotalOnOrders: decimal.Zero,
		Page:          domain.OrderPage{Page: 0, PageSize: 10},
	}
	svc.EXPECT().CustomerOrders(gomock.Any(), int64(777), 0, 10).Return(summary, nil)

	w := doGet(t, r, "/customers/777/orders")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"totalOnOrders":0`) {
		t.Fatalf("want zero aggregate: %s", w.Body.String())
	}
}

func TestListCustomerOrders_StorageUnavailable(t *testing.T) {
	svc, r := newTestRouter(t)

	svc.EXPECT().CustomerOrders(gomock.Any(), int64(42), 0, 10).Return(nil, domain.ErrStorage)

	w := doGet(t, r, "/customers/42/orders")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestListCustomerOrders_ValidationToBadRequest(t *testing.T) {
	svc, r := newTestRouter(t)

	svc.EXPECT().CustomerOrders(gomock.Any(), int64(42), 0, 10).
		Return(nil, domain.ErrValidation)

	w := doGet(t, r, "/customers/42/orders")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestPing(t *testing.T) {
	_, r := newTestRouter(t)

	w := doGet(t, r, "/ping")
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("want 200 pong, got %d %q", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, r := newTestRouter(t)

	w := doGet(t, r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/orders/1", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("want Allow: GET, got %q", allow)
	}
}

func TestNotFoundRoute(t *testing.T) {
	_, r := newTestRouter(t)

	w := doGet(t, r, "/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
}
