// Package currency resolves the quote currency of a ticker and converts
// native prices into the reporting currency.
package currency

import "strings"

// Rule assigns Currency to tickers matching any of its suffixes, prefixes
// or crypto prefixes. Crypto prefixes match the part before the first dash
// ("BTC" matches "BTC-EUR").
type Rule struct {
	Currency       string   `yaml:"currency" json:"currency"`
	Suffixes       []string `yaml:"suffixes" json:"suffixes"`
	Prefixes       []string `yaml:"prefixes" json:"prefixes"`
	CryptoPrefixes []string `yaml:"crypto_prefixes" json:"crypto_prefixes"`
}

// Match reports whether ticker falls under the rule. Matching ignores case.
func (r Rule) Match(ticker string) bool {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return false
	}
	for _, s := range r.Suffixes {
		if s != "" && strings.HasSuffix(t, strings.ToUpper(s)) {
			return true
		}
	}
	for _, p := range r.Prefixes {
		if p != "" && strings.HasPrefix(t, strings.ToUpper(p)) {
			return true
		}
	}
	if len(r.CryptoPrefixes) > 0 {
		base, _, _ := strings.Cut(t, "-")
		for _, p := range r.CryptoPrefixes {
			if strings.EqualFold(base, p) {
				return true
			}
		}
	}
	return false
}

// DefaultRules returns the built-in heuristic in priority order.
func DefaultRules(cryptoPrefixes []string) []Rule {
	return []Rule{
		{Currency: "USD", Suffixes: []string{"-USD"}, CryptoPrefixes: cryptoPrefixes},
		{Currency: "EUR", Suffixes: []string{".PA", ".MI", ".AS", ".DE", ".BR", ".MC"}, Prefixes: []string{"FR", "NL"}},
		{Currency: "CHF", Suffixes: []string{".SW"}, Prefixes: []string{"CH"}},
	}
}

// MatchRules returns the currency of the first matching rule.
func MatchRules(rules []Rule, ticker string) (string, bool) {
	for _, r := range rules {
		if r.Match(ticker) {
			return strings.ToUpper(r.Currency), true
		}
	}
	return "", false
}
