//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
)

// --- Бенчмарки ---

// Базовый бенч: GetOrder (валидный заказ) — сравниваем LEAN vs FULL пайплайн
func BenchmarkHTTP_GetOrder(b *testing.B) {
	log := nopLogger{}
	ord := benchOrder(1001, 42)
	h := NewHandler(svcOne{o: ord}, log, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServeGET(b, lean, "/orders/1001")
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServeGET(b, full, "/orders/1001")
	})
}

// Потолок без маршалинга: тот же заказ, но заранее закодированный JSON.
// Показывает, сколько «ест» encoding/json в хендлере.
func BenchmarkHTTP_GetOrder_PreMarshaledBytes(b *testing.B) {
	ord := benchOrder(1001, 42)
	raw, _ := json.Marshal(orderWithItemsResponse(ord))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	// отдельный эндпоинт, который просто отдаёт готовый []byte
	r.GET("/orders/:orderId", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", raw)
	})

	benchServeGET(b, r, "/orders/1001")
}

// Страница клиента: 10/50/100 — измеряем рост аллокаций и времени
// (конверт с агрегатом + список + пагинация)
func BenchmarkHTTP_ListCustomerOrders(b *testing.B) {
	log := nopLogger{}

	for _, n := range []int{10, 50, 100} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			// готовим страницу из n заказов
			list := make([]*domain.Order, 0, n)
			total := decimal.Zero
			for i := 0; i < n; i++ {
				o := benchOrder(int64(2000+i), 42)
				total = total.Add(o.Total)
				list = append(list, o)
			}
			summary := &domain.CustomerOrderSummary{
				TotalOnOrders: total,
				Page: domain.OrderPage{
					Orders:        list,
					Page:          0,
					PageSize:      n,
					TotalElements: int64(n),
					TotalPages:    1,
				},
			}
			h := NewHandler(svcList{s: summary}, log, 2*time.Second)

			lean := makeLeanRouter(h)
			benchServeGET(b, lean, "/customers/42/orders?pageSize="+strconv.Itoa(n))
		})
	}
}

// Ошибочный путь (404): «цена» роутера и 404-хендлера
func BenchmarkHTTP_404(b *testing.B) {
	log := nopLogger{}
	h := NewHandler(svcOne{o: benchOrder(1001, 42)}, log, 2*time.Second)
	r := makeLeanRouter(h)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/nope", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusNotFound {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

type svcOne struct{ o *domain.Order }

func (s svcOne) GetOrder(context.Context, int64) (*domain.Order, error) { return s.o, nil }
func (s svcOne) CustomerOrders(context.Context, int64, int, int) (*domain.CustomerOrderSummary, error) {
	return &domain.CustomerOrderSummary{
		TotalOnOrders: s.o.Total,
		Page:          domain.OrderPage{Orders: []*domain.Order{s.o}, PageSize: 1, TotalElements: 1, TotalPages: 1},
	}, nil
}

// заранее подготовленный конверт на N элементов (без аллокаций на каждом вызове)
type svcList struct{ s *domain.CustomerOrderSummary }

func (s svcList) GetOrder(context.Context, int64) (*domain.Order, error) {
	return s.s.Page.Orders[0], nil
}
func (s svcList) CustomerOrders(context.Context, int64, int, int) (*domain.CustomerOrderSummary, error) {
	return s.s, nil
}

// --- функции-помощники ---

// benchOrder — заказ 2 x 10.00 + 1 x 5.50 с заданными идентификаторами.
func benchOrder(orderID, customerID int64) *domain.Order {
	e := domain.OrderCreatedEvent{
		OrderID:    orderID,
		CustomerID: customerID,
		Items: []domain.EventItem{
			{Product: "laptop", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{Product: "mouse", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
		},
	}
	return domain.OrderFromEvent(&e)
}

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger — минимум аллокаций
	r.GET("/orders/:orderId", h.getOrderByID)
	r.GET("/customers/:customerId/orders", h.listCustomerOrders)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	// prod пайплайн из NewRouter
	return NewRouter(h, "")
}

func benchServeGET(b *testing.B, r *gin.Engine, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	// Параллельный режим ближе к реальности без TCP
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			// вычитываем тело
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusOK {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
