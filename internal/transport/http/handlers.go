package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports"
	"github.com/brunopultz/orderms/pkg/httpx"
)

// Handler — HTTP-хендлеры поверх сервиса чтения.
type Handler struct {
	service ports.OrderReadService
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — конструктор. timeout > 0 ограничивает время обработки запроса.
func NewHandler(service ports.OrderReadService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{service: service, log: log, timeout: timeout}
}

// GET /orders/:orderId — полный заказ с позициями.
func (h *Handler) getOrderByID(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		h.writeError(c, "GetOrder", err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, orderWithItemsResponse(order))
}

// GET /customers/:customerId/orders?page=&pageSize= — страница заказов
// клиента плюс сумма по всем его заказам. Пустая страница и нулевая
// сумма — успешный ответ, не 404.
func (h *Handler) listCustomerOrders(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	page, pageSize, err := httpx.ParsePageParams(c, defaultPage, defaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.CustomerOrders(ctx, customerID, page, pageSize)
	if err != nil {
		h.writeError(c, "CustomerOrders", err)
		return
	}

	c.JSON(http.StatusOK, customerOrdersResponse(summary))
}

// requestContext — контекст запроса с таймаутом хендлера (если задан).
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request.Context()
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

// writeError — маппинг вида ошибки на HTTP-статус: само ядро статусов
// не знает, только вид ошибки.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, domain.ErrValidation):
		h.log.Warnf(ctx, "%s rejected: %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorage):
		h.log.Errorf(ctx, "%s storage failure: %v", op, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		h.log.Errorf(ctx, "%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
