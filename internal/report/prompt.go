package report

import (
	"fmt"
	"strings"

	"PortfolioSentinel/internal/model"
)

const promptTemplate = `You are an expert in stock and cryptocurrency portfolio analysis, specialised in technical indicators.

Below is my current portfolio with the RSI and MACD signals of each asset.

### Your task:
1. For each asset, say whether to **buy**, **hold** or **sell**, and justify the answer using the RSI and MACD indicators.
2. Where possible, add a remark on the current trend or outlook.
3. If there is currently a **strong buying opportunity** on another asset (stocks or cryptos), **point it out at the end** and explain why.

---

My current positions:

### Stocks
%s

### Cryptocurrencies
%s

Please give me clear recommendations.`

// ComposeSummary renders the analysis prompt for the given section rows.
// Total rows are skipped.
func ComposeSummary(stocks, cryptos []model.Row) string {
	return fmt.Sprintf(promptTemplate, promptLines(stocks), promptLines(cryptos))
}

func promptLines(rows []model.Row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Total {
			continue
		}
		lines = append(lines, PromptLine(r))
	}
	return strings.Join(lines, "\n")
}

// PromptLine is the one-line description of a holding used in the prompt.
func PromptLine(r model.Row) string {
	return fmt.Sprintf("- %s (%s): %s units (~%s), RSI = %s, MACD = %s",
		r.Name, r.Ticker, Quantity(r.Quantity), Money(r.Value, "EUR"),
		r.RSISignal.Label(), r.MACDSignal.Label())
}
