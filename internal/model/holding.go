package model

// Holding is one configured position. Name defaults to Ticker.
type Holding struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Quantity float64 `json:"qty"`
}

// Holdings groups positions the way the holdings document does.
type Holdings struct {
	Stocks  []Holding `json:"stocks"`
	Cryptos []Holding `json:"cryptos"`
}

// All returns stocks followed by cryptos.
func (h Holdings) All() []Holding {
	all := make([]Holding, 0, len(h.Stocks)+len(h.Cryptos))
	all = append(all, h.Stocks...)
	return append(all, h.Cryptos...)
}

// Empty reports whether no holding is configured.
func (h Holdings) Empty() bool {
	return len(h.Stocks) == 0 && len(h.Cryptos) == 0
}
