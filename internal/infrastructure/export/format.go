package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const timeLayout = "2006-01-02 15:04"

// printer formato es-419: miles con punto o coma según la región, hasta 4 decimales.
var printer = message.NewPrinter(language.LatinAmericanSpanish)

// cellText representación legible de una celda para el PDF.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return printer.Sprint(x)
	case decimal.Decimal:
		return formatDecimal(x)
	case *decimal.Decimal:
		if x == nil {
			return ""
		}
		return formatDecimal(*x)
	case time.Time:
		return x.UTC().Format(timeLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format(timeLayout)
	default:
		return fmt.Sprint(x)
	}
}

func formatDecimal(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(4)))
}

// cellValue valor nativo para la hoja de cálculo: números como float64, fechas como texto UTC.
func cellValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case time.Time:
		return x.UTC().Format(timeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC().Format(timeLayout)
	default:
		return v
	}
}
