package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

// maxMessageLen stays under the 4096 character Telegram limit.
const maxMessageLen = 4000

// FormatSummary formats a dashboard into a Telegram HTML message.
func FormatSummary(d *model.Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>Portfolio</b> | %s\n", d.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "<i>%s · %s</i>\n", d.Params.RSIHeader(), d.Params.MACDHeader())

	for _, s := range []model.Section{d.Stocks, d.Cryptos} {
		holdings := s.Holdings()
		if len(holdings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n<b>%s</b>\n", report.SectionTitle(s.Kind))
		for _, r := range holdings {
			value := report.Money(r.Value, d.Currency)
			if value == "" {
				value = model.Placeholder
			}
			rsi := report.Number(r.RSI, 1)
			if rsi == "" {
				rsi = model.Placeholder
			}
			fmt.Fprintf(&b, "• %s: %s | RSI %s | %s\n",
				html.EscapeString(r.Name), html.EscapeString(value), rsi, r.Strategy.Label())
		}
		fmt.Fprintf(&b, "  ─────────────────\n  Total: <b>%s</b>\n", html.EscapeString(report.Money(s.Total().Value, d.Currency)))
	}

	if n := len(d.Combined); n > 0 {
		fmt.Fprintf(&b, "\n💰 Portfolio value: <b>%s</b>\n", html.EscapeString(report.Money(d.Combined[n-1].Value, d.Currency)))
	}

	if len(d.Warnings) > 0 {
		b.WriteString("\n⚠️ <b>Warnings</b>\n")
		for _, w := range d.Warnings {
			fmt.Fprintf(&b, "• %s\n", html.EscapeString(w))
		}
	}
	return b.String()
}

// FormatPrompt wraps the analysis prompt in a preformatted block so it can
// be copied as is.
func FormatPrompt(prompt string) string {
	return "🧠 <b>Analysis prompt</b>\n<pre>" + html.EscapeString(prompt) + "</pre>"
}

// splitMessage cuts text into chunks of at most limit bytes at line
// boundaries. A <pre> block that spans chunks is closed and reopened.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	const openTag, closeTag = "<pre>", "</pre>"

	var chunks []string
	var cur strings.Builder
	inPre := false
	flush := func() {
		s := cur.String()
		if inPre {
			s += closeTag
		}
		chunks = append(chunks, s)
		cur.Reset()
		if inPre {
			cur.WriteString(openTag)
		}
	}

	for _, line := range splitLines(text, limit-len(openTag)-len(closeTag)) {
		if cur.Len()+len(line)+len(closeTag) > limit && cur.Len() > len(openTag) {
			flush()
		}
		cur.WriteString(line)
		inPre = preState(inPre, line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// splitLines splits after every newline and hard-cuts lines longer than
// size on rune boundaries.
func splitLines(text string, size int) []string {
	var out []string
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > size {
			cut := size
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			out = append(out, line[:cut])
			line = line[cut:]
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func preState(inPre bool, s string) bool {
	open := strings.LastIndex(s, "<pre>")
	closed := strings.LastIndex(s, "</pre>")
	switch {
	case open > closed:
		return true
	case closed > open:
		return false
	}
	return inPre
}
