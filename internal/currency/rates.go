package currency

import (
	"context"
	"math"

	"PortfolioSentinel/internal/common"
)

// FX pairs fetched once per session.
const (
	PairEURUSD = "EURUSD=X"
	PairCHFEUR = "CHFEUR=X"
)

// RateSource provides spot FX rates.
type RateSource interface {
	FetchSpotRate(ctx context.Context, pair string) (float64, bool)
}

// Rates are the spot rates used for conversion into EUR.
// When Available is false every factor is 1.0.
type Rates struct {
	EURUSD    float64 `json:"eur_usd"`
	CHFEUR    float64 `json:"chf_eur"`
	Available bool    `json:"available"`
}

// LoadRates fetches both pairs. If either is missing, conversion is disabled.
func LoadRates(ctx context.Context, src RateSource, logger *common.Logger) Rates {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	eurusd, okUSD := src.FetchSpotRate(ctx, PairEURUSD)
	chfeur, okCHF := src.FetchSpotRate(ctx, PairCHFEUR)
	if !okUSD || !okCHF {
		logger.Warn().Bool("eurusd", okUSD).Bool("chfeur", okCHF).Msg("FX rates unavailable, values left unconverted")
		return Rates{}
	}
	logger.Debug().Float64("eurusd", eurusd).Float64("chfeur", chfeur).Msg("FX rates loaded")
	return Rates{EURUSD: eurusd, CHFEUR: chfeur, Available: true}
}

// Factor returns the multiplier turning a price in code into EUR.
func (r Rates) Factor(code string) float64 {
	if !r.Available {
		return 1.0
	}
	var f float64
	switch code {
	case "USD":
		f = 1 / r.EURUSD
	case "CHF":
		f = r.CHFEUR
	default:
		return 1.0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 1.0
	}
	return f
}
