package strategy

import "PortfolioSentinel/internal/model"

// signalPair keys the strategy table: RSI signal first, MACD signal second.
type signalPair struct {
	RSI  model.Signal
	MACD model.Signal
}

// Table maps every recognised (RSI, MACD) signal pair to a strategy.
// Pairs missing from the table resolve to StrategyUnknown.
var Table = map[signalPair]model.Strategy{
	{model.SignalBuy, model.SignalBuy}:      model.StrategyConfirmedBuy,
	{model.SignalSell, model.SignalSell}:    model.StrategyConfirmedSell,
	{model.SignalBuy, model.SignalSell}:     model.StrategyEarlyBuyWarning,
	{model.SignalSell, model.SignalBuy}:     model.StrategyEarlySellWarning,
	{model.SignalNeutral, model.SignalSell}: model.StrategyDowntrend,
	{model.SignalNeutral, model.SignalBuy}:  model.StrategyUptrend,
}

// Combine looks up the strategy for an RSI/MACD signal pair.
func Combine(rsi, macd model.Signal) model.Strategy {
	if s, ok := Table[signalPair{RSI: rsi, MACD: macd}]; ok {
		return s
	}
	return model.StrategyUnknown
}

// Result is the classification of one indicator snapshot.
type Result struct {
	RSISignal  model.Signal
	MACDSignal model.Signal
	Strategy   model.Strategy
}

// Evaluate classifies the latest indicator values of an asset.
func Evaluate(snap model.Snapshot, th Thresholds) Result {
	rsi := ClassifyRSI(snap.RSI, th.Oversold, th.Overbought)
	macd := ClassifyMACD(snap.MACD, snap.MACDSignal)
	return Result{
		RSISignal:  rsi,
		MACDSignal: macd,
		Strategy:   Combine(rsi, macd),
	}
}
