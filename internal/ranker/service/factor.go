package service

import (
	"math"

	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/pkg/logger"
)

// FactorComputer derives raw factor values from per-security price history
// and fundamentals. Every security yields exactly one row; any factor that
// cannot be computed is set to the NaN fallback instead of dropping the row.
type FactorComputer struct {
	log              *logger.Logger
	momentumWindow   int
	volatilityWindow int
}

// NewFactorComputer creates a factor computer with the given lookback
// windows in trading sessions.
func NewFactorComputer(log *logger.Logger, momentumWindow, volatilityWindow int) *FactorComputer {
	return &FactorComputer{
		log:              log,
		momentumWindow:   momentumWindow,
		volatilityWindow: volatilityWindow,
	}
}

// ComputeAll computes one factor row per security, each independently of the
// others. Input order is preserved.
func (c *FactorComputer) ComputeAll(securities []dto.Security) []dto.FactorRow {
	rows := make([]dto.FactorRow, 0, len(securities))
	for _, sec := range securities {
		rows = append(rows, c.Compute(sec))
	}
	return rows
}

// Compute computes the raw factor row for a single security.
func (c *FactorComputer) Compute(sec dto.Security) dto.FactorRow {
	row := dto.FactorRow{
		StockCode:  sec.StockCode,
		Momentum6M: math.NaN(),
		Vol3M:      math.NaN(),
		ValuePE:    math.NaN(),
		ValuePB:    math.NaN(),
		Size:       math.NaN(),
	}

	closes := make([]float64, 0, len(sec.Prices))
	for _, p := range sec.Prices {
		closes = append(closes, p.Close)
	}

	row.Momentum6M = c.momentum(closes)
	row.Vol3M = c.realizedVolatility(closes)

	if f := sec.Fundamentals; f != nil && len(closes) > 0 {
		last := closes[len(closes)-1]
		// Negative earnings pass through as negative ratios on purpose; the
		// cross-section decides what to do with them.
		if f.TrailingEPS != 0 {
			row.ValuePE = last / f.TrailingEPS
		}
		if f.BookValuePerShare != 0 {
			row.ValuePB = last / f.BookValuePerShare
		}
		if f.MarketCap > 0 {
			row.Size = math.Log(f.MarketCap)
		}
	}

	return row
}

// momentum is the percentage price change from momentumWindow sessions
// before the latest observation to the latest observation.
func (c *FactorComputer) momentum(closes []float64) float64 {
	if len(closes) < c.momentumWindow+1 {
		return math.NaN()
	}
	last := closes[len(closes)-1]
	base := closes[len(closes)-1-c.momentumWindow]
	if base == 0 {
		return math.NaN()
	}
	return last/base - 1.0
}

// realizedVolatility is the sample standard deviation of daily returns over
// the trailing volatilityWindow sessions.
func (c *FactorComputer) realizedVolatility(closes []float64) float64 {
	returns := dailyReturns(closes)
	if len(returns) < c.volatilityWindow {
		return math.NaN()
	}
	window := returns[len(returns)-c.volatilityWindow:]
	return sampleStdDev(window, mean(window))
}

// dailyReturns computes day-over-day percentage returns.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1.0)
	}
	return returns
}
