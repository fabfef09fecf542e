// Package report renders dashboards as markdown tables, the analysis
// prompt and PNG charts.
package report

import (
	"math"
	"strconv"

	"github.com/Rhymond/go-money"

	"PortfolioSentinel/internal/model"
)

// Number formats v with the given decimals; undefined values render empty.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// QuantityDecimals is 2 for stocks and 4 for cryptos.
func QuantityDecimals(kind model.SectionKind) int {
	if kind == model.SectionCryptos {
		return 4
	}
	return 2
}

// Money formats v in code with the currency's symbol and separators.
// Undefined values and unknown currencies fall back to Number.
func Money(v float64, code string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if money.GetCurrency(code) == nil {
		return Number(v, 2)
	}
	return money.NewFromFloat(v, code).Display()
}

// Quantity renders a holding quantity without trailing zeros.
func Quantity(q float64) string {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return ""
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}
