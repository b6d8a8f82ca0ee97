package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
	"github.com/brunopultz/orderms/internal/ports"
)

// Проверка, что OrderRepository удовлетворяет порту OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация хранилища заказов на Postgres (pgxpool).
// Денежные значения хранятся в NUMERIC и пересекают границу SQL строго
// текстом (см. encodeDecimal/decodeDecimal) — без двоичных float.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository — конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

// Save — транзакционно сохраняет заказ: upsert по order_id плюс полная
// замена позиций. Повторная доставка того же события даёт то же состояние
// (идемпотентность при at-least-once без отдельной таблицы дедупликации).
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if order == nil || order.OrderID <= 0 {
		return fmt.Errorf("%w: order is empty or order_id is required", domain.ErrValidation)
	}
	if order.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id is required", domain.ErrValidation)
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) orders — upsert по order_id (PRIMARY KEY), last-write-wins.
	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (order_id, customer_id, total)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			total = EXCLUDED.total
	`, order.OrderID, order.CustomerID, encodeDecimal(order.Total)); err != nil {
		return storageErr("upsert order", err)
	}

	// 2) order_items — replace: удаляем и вставляем список заново.
	if _, err = transaction.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.OrderID); err != nil {
		return storageErr("delete items", err)
	}
	if len(order.Items) > 0 {
		if err = copyItems(ctx, transaction, order.OrderID, order.Items); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

// GetByID — получить заказ с позициями по order_id. Если записи нет,
// возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	var (
		order    domain.Order
		totalRaw string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT order_id, customer_id, total::text
		FROM orders WHERE order_id = $1
	`, orderID).Scan(&order.OrderID, &order.CustomerID, &totalRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("select order", err)
	}
	if order.Total, err = decodeDecimal(totalRaw); err != nil {
		return nil, storageErr("decode total", err)
	}

	items, err := r.itemsByOrder(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	order.Items = items[orderID]

	return &order, nil
}

// ListByCustomer — страница заказов клиента. Порядок стабильный и
// детерминированный: по возрастанию order_id (идентификаторы назначает
// продюсер, это и есть «порядок вставки» для клиента).
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrValidation)
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, customer_id, total::text
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_id ASC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, storageErr("select customer orders", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, limit)
	ids := make([]int64, 0, limit)
	byID := make(map[int64]*domain.Order, limit)

	for rows.Next() {
		order := &domain.Order{}
		var totalRaw string
		if err := rows.Scan(&order.OrderID, &order.CustomerID, &totalRaw); err != nil {
			return nil, storageErr("scan order", err)
		}
		if order.Total, err = decodeDecimal(totalRaw); err != nil {
			return nil, storageErr("decode total", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.OrderID)
		byID[order.OrderID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("orders rows", err)
	}
	if len(orders) == 0 {
		return orders, nil // пустая страница — валидный результат
	}

	// Позиции для всех заказов страницы одним запросом.
	items, err := r.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, list := range items {
		if order := byID[id]; order != nil {
			order.Items = list
		}
	}
	return orders, nil
}

// CountByCustomer — полное число заказов клиента, отдельный запрос
// для метаданных пагинации.
func (r *OrderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM orders WHERE customer_id = $1
	`, customerID).Scan(&count); err != nil {
		return 0, storageErr("count customer orders", err)
	}
	return count, nil
}

// SumTotalsByCustomer — агрегат на стороне БД: точная сумма NUMERIC
// по всем заказам клиента, независимо от окна пагинации.
// COALESCE отдаёт ноль, если заказов нет, — «нет заказов» сознательно
// не отличается от «заказы с нулевым итогом».
func (r *OrderRepository) SumTotalsByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var sumRaw string
	if err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)::text FROM orders WHERE customer_id = $1
	`, customerID).Scan(&sumRaw); err != nil {
		return decimal.Zero, storageErr("sum customer totals", err)
	}
	sum, err := decodeDecimal(sumRaw)
	if err != nil {
		return decimal.Zero, storageErr("decode sum", err)
	}
	return sum, nil
}

// LastN — последние N заказов по order_id (для прогрева кэша).
func (r *OrderRepository) LastN(ctx context.Context, n int) ([]*domain.Order, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id
		FROM orders
		ORDER BY order_id DESC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, storageErr("select last ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("last rows", err)
	}

	result := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if order != nil {
			result = append(result, order)
		}
	}
	return result, nil
}
