package model

// Placeholder is rendered wherever a value or label is undefined.
const Placeholder = "—"

// Signal is the categorical reading of one indicator.
type Signal int

const (
	SignalUnknown Signal = iota
	SignalBuy
	SignalSell
	SignalNeutral
)

var signalNames = map[Signal]string{
	SignalUnknown: "unknown",
	SignalBuy:     "buy",
	SignalSell:    "sell",
	SignalNeutral: "neutral",
}

var signalLabels = map[Signal]string{
	SignalUnknown: Placeholder,
	SignalBuy:     "📈 Buy",
	SignalSell:    "📉 Sell",
	SignalNeutral: "⚠️ Neutral",
}

func (s Signal) String() string {
	if n, ok := signalNames[s]; ok {
		return n
	}
	return signalNames[SignalUnknown]
}

// Label is the display form used in tables and reports.
func (s Signal) Label() string {
	if l, ok := signalLabels[s]; ok {
		return l
	}
	return Placeholder
}

func (s Signal) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Strategy combines the RSI and MACD signals.
type Strategy int

const (
	StrategyUnknown Strategy = iota
	StrategyConfirmedBuy
	StrategyConfirmedSell
	StrategyEarlyBuyWarning
	StrategyEarlySellWarning
	StrategyDowntrend
	StrategyUptrend
)

var strategyNames = map[Strategy]string{
	StrategyUnknown:          "unknown",
	StrategyConfirmedBuy:     "confirmed_buy",
	StrategyConfirmedSell:    "confirmed_sell",
	StrategyEarlyBuyWarning:  "early_buy_warning",
	StrategyEarlySellWarning: "early_sell_warning",
	StrategyDowntrend:        "downtrend",
	StrategyUptrend:          "uptrend",
}

var strategyLabels = map[Strategy]string{
	StrategyUnknown:          Placeholder,
	StrategyConfirmedBuy:     "📈 Confirmed buy",
	StrategyConfirmedSell:    "📉 Confirmed sell",
	StrategyEarlyBuyWarning:  "⚠️ Early buy warning",
	StrategyEarlySellWarning: "⚠️ Early sell warning",
	StrategyDowntrend:        "↘️ Downtrend",
	StrategyUptrend:          "↗️ Uptrend",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return strategyNames[StrategyUnknown]
}

// Label is the display form used in tables and reports.
func (s Strategy) Label() string {
	if l, ok := strategyLabels[s]; ok {
		return l
	}
	return Placeholder
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
