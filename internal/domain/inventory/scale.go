package inventory

import "github.com/shopspring/decimal"

// QuantityScale decimales con que se guardan cantidades y mínimos (NUMERIC(18,4)).
const QuantityScale int32 = 4

// maxIntegerDigits dígitos enteros que admite NUMERIC(18,4).
const maxIntegerDigits = 14

var quantityLimit = decimal.New(1, maxIntegerDigits)

// FitsScale indica si d se puede guardar sin redondeo con scale decimales.
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// FitsQuantity indica si d cabe en una columna de cantidad sin redondeo ni desborde.
func FitsQuantity(d decimal.Decimal) bool {
	return FitsScale(d, QuantityScale) && d.Abs().LessThan(quantityLimit)
}
