package service

import (
	"fmt"
	"math"

	"golang-stock-ranker/internal/ranker/dto"
)

// Weight keys recognized in configuration and stored profiles.
const (
	WeightKeyMomentum   = "momentum"
	WeightKeyVolatility = "volatility"
	WeightKeyValue      = "value"
	WeightKeySize       = "size"
)

// Weights holds the signed factor weights for composite scoring. A negative
// weight inverts a factor's contribution; weights need not sum to one.
type Weights struct {
	Momentum   float64
	Volatility float64
	Value      float64
	Size       float64
}

// DefaultWeights equal-weights every factor, with volatility negated so that
// low realized volatility scores higher.
func DefaultWeights() Weights {
	return Weights{Momentum: 1.0, Volatility: -1.0, Value: 1.0, Size: 1.0}
}

// ParseWeights validates a raw weight map. Unknown keys are a configuration
// error and rejected before any computation runs. An empty map yields the
// defaults.
func ParseWeights(raw map[string]float64) (Weights, error) {
	if len(raw) == 0 {
		return DefaultWeights(), nil
	}
	var w Weights
	for key, value := range raw {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Weights{}, fmt.Errorf("weight %q must be a finite number", key)
		}
		switch key {
		case WeightKeyMomentum:
			w.Momentum = value
		case WeightKeyVolatility:
			w.Volatility = value
		case WeightKeyValue:
			w.Value = value
		case WeightKeySize:
			w.Size = value
		default:
			return Weights{}, fmt.Errorf("unrecognized weight key %q (expected momentum, volatility, value or size)", key)
		}
	}
	return w, nil
}

// Map returns the weights as the raw key form used in configs and profiles.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		WeightKeyMomentum:   w.Momentum,
		WeightKeyVolatility: w.Volatility,
		WeightKeyValue:      w.Value,
		WeightKeySize:       w.Size,
	}
}

// CompositeScorer combines standardized factors into one score per security.
type CompositeScorer struct {
	weights Weights
}

// NewCompositeScorer creates a scorer with the given weights.
func NewCompositeScorer(weights Weights) *CompositeScorer {
	return &CompositeScorer{weights: weights}
}

// Score computes composite_score = sum(weight_f * z_f) per security. A NaN
// standardized input contributes zero rather than poisoning the sum, so a
// security with a data gap is still ranked on its remaining factors. The two
// value sub-metrics are averaged (equal sub-weight) before the value weight
// applies.
func (s *CompositeScorer) Score(rows []dto.StandardizedRow) []dto.CompositeRow {
	out := make([]dto.CompositeRow, 0, len(rows))
	for _, row := range rows {
		score := contribution(s.weights.Momentum, row.Momentum6MZ) +
			contribution(s.weights.Volatility, row.Vol3MZ) +
			contribution(s.weights.Value, valueComposite(row)) +
			contribution(s.weights.Size, row.SizeZ)
		out = append(out, dto.CompositeRow{StockCode: row.StockCode, CompositeScore: score})
	}
	return out
}

// valueComposite averages the valid value sub-metrics. NaN when both are
// missing, which contribution() then drops.
func valueComposite(row dto.StandardizedRow) float64 {
	sum, n := 0.0, 0
	for _, z := range []float64{row.ValuePEZ, row.ValuePBZ} {
		if !math.IsNaN(z) {
			sum += z
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func contribution(weight, z float64) float64 {
	if math.IsNaN(z) {
		return 0
	}
	return weight * z
}
