package domain

import "github.com/shopspring/decimal"

// Денежная арифметика — только точные decimal-операции.
// float64 на денежном пути запрещён: ошибка округления на одном заказе
// незаметна, но накапливается в агрегате по многим заказам.

// LineTotal — стоимость позиции: unitPrice * quantity.
func LineTotal(item LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
}

// OrderTotal — сумма стоимостей всех позиций от точного нуля.
// Пустой список даёт ровно ноль.
func OrderTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total
}
