package report

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"
)

// SectionTitle is the heading of a section table.
func SectionTitle(kind model.SectionKind) string {
	if kind == model.SectionCryptos {
		return "🪙 Cryptocurrencies"
	}
	return "📈 Stocks"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// SectionTable renders a section as a markdown table. Column headers carry
// the active indicator parameters.
func SectionTable(s model.Section, p model.Params) string {
	var b strings.Builder
	qtyDecimals := QuantityDecimals(s.Kind)

	fmt.Fprintf(&b, "| Name | Ticker | Qty | Price | Currency | Value (€) | %s | RSI signal | %s | MACD signal | Strategy |\n",
		p.RSIHeader(), p.MACDHeader())
	b.WriteString("|---|---|---:|---:|---|---:|---:|---|---:|---|---|\n")
	for _, r := range s.Rows {
		if r.Total {
			fmt.Fprintf(&b, "| **%s** | | | | | **%s** | | | | | |\n", r.Name, Number(r.Value, 2))
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(r.Name), cell(r.Ticker),
			Number(r.Quantity, qtyDecimals),
			Number(r.Price, 2),
			r.Currency,
			Number(r.Value, 2),
			Number(r.RSI, 1),
			r.RSISignal.Label(),
			Number(r.MACD, 2),
			r.MACDSignal.Label(),
			r.Strategy.Label(),
		)
	}
	return b.String()
}

// DashboardMarkdown renders both sections, the warnings and the combined
// portfolio value.
func DashboardMarkdown(d *model.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 📊 Portfolio | %s\n\n", d.GeneratedAt.Format("2006-01-02 15:04"))

	for _, s := range []model.Section{d.Stocks, d.Cryptos} {
		fmt.Fprintf(&b, "## %s\n\n", SectionTitle(s.Kind))
		b.WriteString(SectionTable(s, d.Params))
		b.WriteString("\n")
	}

	if n := len(d.Combined); n > 0 {
		last := d.Combined[n-1]
		fmt.Fprintf(&b, "## 💰 Portfolio value\n\n%s on %s (%d points)\n\n",
			Money(last.Value, d.Currency), last.Time.Format("2006-01-02"), n)
	}

	if len(d.Warnings) > 0 {
		b.WriteString("## ⚠️ Warnings\n\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	return b.String()
}
