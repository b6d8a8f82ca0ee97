package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/brunopultz/orderms/internal/domain"
)

// Явный контракт сериализации денег: NUMERIC <-> decimal.Decimal через
// текстовое представление. Никакой рефлексии и никаких float64 по пути.

func encodeDecimal(d decimal.Decimal) string { return d.String() }

func decodeDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// storageErr — помечает ошибку хранилища sentinel-ошибкой domain.ErrStorage,
// сохраняя текст причины для логов.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, op, err)
}

// itemsByOrder — позиции для набора заказов одним запросом.
// position сохраняет порядок позиций из исходного события.
func (r *OrderRepository) itemsByOrder(ctx context.Context, orderIDs []int64) (map[int64][]domain.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id, product, quantity, unit_price::text
		FROM order_items
		WHERE order_id = ANY($1::bigint[])
		ORDER BY order_id, position
	`, orderIDs)
	if err != nil {
		return nil, storageErr("select items", err)
	}
	defer rows.Close()

	itemsByID := make(map[int64][]domain.LineItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID  int64
			item     domain.LineItem
			priceRaw string
		)
		if err := rows.Scan(&orderID, &item.Product, &item.Quantity, &priceRaw); err != nil {
			return nil, storageErr("scan item", err)
		}
		if item.UnitPrice, err = decodeDecimal(priceRaw); err != nil {
			return nil, storageErr("decode unit_price", err)
		}
		itemsByID[orderID] = append(itemsByID[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("items rows", err)
	}
	return itemsByID, nil
}

// copyItems — вставка позиций через COPY (CopyFromRows); быстрее, чем
// INSERT в цикле.
func copyItems(ctx context.Context, tx pgx.Tx, orderID int64, items []domain.LineItem) error {
	rows := make([][]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, []any{orderID, i, item.Product, item.Quantity, encodeDecimal(item.UnitPrice)})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "position", "product", "quantity", "unit_price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return storageErr("copy items", err)
	}
	return nil
}
