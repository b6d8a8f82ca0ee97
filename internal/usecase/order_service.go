package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports"
)

// OrderService — прикладная логика: приём событий из очереди и чтение
// заказов с агрегатом (без знаний о транспорте).
type OrderService struct {
	repo      ports.OrderRepository
	cache     ports.OrderCache
	log       ports.Logger
	validator ports.EventValidator
}

// NewOrderService — DI-конструктор.
func NewOrderService(
	repo ports.OrderRepository,
	cache ports.OrderCache,
	log ports.Logger,
	validator ports.EventValidator,
) *OrderService {
	return &OrderService{
		repo:      repo,
		cache:     cache,
		log:       log,
		validator: validator,
	}
}

// SaveFromMessage — конвейер приёма события order-created (raw JSON).
// Шаги:
//  1. строгий парсинг JSON (DisallowUnknownFields);
//  2. валидация формы события (вернёт обёрнутый domain.ErrValidation);
//  3. построение заказа с точным итогом;
//  4. идемпотентный upsert в хранилище — одна попытка записи на событие;
//  5. обновление кэша (best effort).
//
// Повторная доставка того же события безопасна: запись по order_id
// просто перезаписывается тем же состоянием.
func (s *OrderService) SaveFromMessage(ctx context.Context, raw []byte) error {
	// Строгое декодирование: запрещаем неизвестные поля.
	var event domain.OrderCreatedEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&event); err != nil {
		s.log.Warnf(ctx, "invalid json err=%v", err)
		return fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err)
	}

	// Убеждаемся, что после объекта нет лишних данных.
	if err := dec.Decode(new(struct{})); err != io.EOF {
		s.log.Warnf(ctx, "invalid json: trailing data")
		return fmt.Errorf("%w: invalid json: trailing data", domain.ErrValidation)
	}

	// Валидация формы события (идентификаторы, количества, цены).
	if err := s.validator.Validate(ctx, &event); err != nil {
		s.log.Warnf(ctx, "validation failed order_id=%d err=%v", event.OrderID, err)
		return err
	}

	// Построение заказа: итог считается здесь один раз.
	order := domain.OrderFromEvent(&event)

	// Сохранение в БД (транзакция, либо весь заказ, либо ничего).
	if err := s.repo.Save(ctx, order); err != nil {
		s.log.Errorf(ctx, "repo.Save failed order_id=%d err=%v", order.OrderID, err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	// Обновление кэша.
	if err := s.cache.Set(ctx, order); err != nil {
		s.log.Warnf(ctx, "cache.Set failed order_id=%d err=%v", order.OrderID, err)
	}

	s.log.Infof(ctx, "order saved id=%d customer=%d total=%s items=%d",
		order.OrderID, order.CustomerID, order.Total, len(order.Items))
	return nil
}

// GetOrder — получить заказ по id: сначала из кэша, при промахе — из БД
// с записью в кэш. Возвращает (*Order, nil) или (nil, nil), если записи нет.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive", domain.ErrValidation)
	}

	if order, found := s.cache.Get(ctx, orderID); found {
		s.log.Infof(ctx, "cache hit for order=%d", orderID)
		return order, nil
	}
	s.log.Infof(ctx, "cache miss for order=%d", orderID)

	start := time.Now()
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed order_id=%d err=%v", orderID, err)
		return nil, err
	}

	if order != nil {
		if setErr := s.cache.Set(ctx, order); setErr != nil {
			s.log.Warnf(ctx, "cache.Set failed order_id=%d err=%v", orderID, setErr)
		}
	}

	s.log.Infof(ctx, "db fetch order_id=%d took=%s", orderID, time.Since(start))
	return order, nil
}

// CustomerOrders — страница заказов клиента вместе с суммой по всем его
// заказам. Страница и агрегат — два независимых чтения одного набора
// данных; приём, попавший между ними, может дать слегка расходящиеся
// значения — это осознанный компромисс, а не дефект.
// Страница за пределами данных — пустой список с корректными счётчиками.
func (s *OrderService) CustomerOrders(ctx context.Context, customerID int64, page, pageSize int) (*domain.CustomerOrderSummary, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive", domain.ErrValidation)
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: page must be non-negative", domain.ErrValidation)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", domain.ErrValidation)
	}

	orders, err := s.repo.ListByCustomer(ctx, customerID, pageSize, page*pageSize)
	if err != nil {
		s.log.Errorf(ctx, "repo.ListByCustomer failed customer_id=%d err=%v", customerID, err)
		return nil, err
	}

	count, err := s.repo.CountByCustomer(ctx, customerID)
	if err != nil {
		s.log.Errorf(ctx, "repo.CountByCustomer failed customer_id=%d err=%v", customerID, err)
		return nil, err
	}

	total, err := s.repo.SumTotalsByCustomer(ctx, customerID)
	if err != nil {
		s.log.Errorf(ctx, "repo.SumTotalsByCustomer failed customer_id=%d err=%v", customerID, err)
		return nil, err
	}

	return &domain.CustomerOrderSummary{
		TotalOnOrders: total,
		Page: domain.OrderPage{
			Orders:        orders,
			Page:          page,
			PageSize:      pageSize,
			TotalElements: count,
			TotalPages:    totalPages(count, pageSize),
		},
	}, nil
}

// WarmUpCache — прогрев кэша последними N заказами из БД.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (s *OrderService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.repo.LastN(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "repo.LastN failed n=%d err=%v", n, err)
		return err
	}
	if warmUpErr := s.cache.WarmUp(ctx, list); warmUpErr != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmUpErr)
	}
	s.log.Infof(ctx, "cache warmed with %d orders in %s", len(list), time.Since(start))
	return nil
}

// totalPages — число страниц при размере pageSize (округление вверх).
func totalPages(totalElements int64, pageSize int) int64 {
	if totalElements <= 0 {
		return 0
	}
	size := int64(pageSize)
	return (totalElements + size - 1) / size
}
