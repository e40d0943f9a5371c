package service

import (
	"math"

	"golang-stock-ranker/internal/ranker/dto"
)

// Standardizer converts each raw factor column into cross-sectional
// z-scores. Sample standard deviation (n-1) is used throughout.
type Standardizer struct{}

// NewStandardizer creates a standardizer.
func NewStandardizer() *Standardizer {
	return &Standardizer{}
}

// Standardize maps every raw value to (value - mean) / stddev, computed per
// column over the securities with a valid value in that column. NaN raw
// values are excluded from the statistics and stay NaN in the output, so the
// universe size is identical on both sides.
//
// When a column has zero variance, or fewer than two valid values, every
// valid z-score in that column is defined as zero.
func (s *Standardizer) Standardize(rows []dto.FactorRow) []dto.StandardizedRow {
	out := make([]dto.StandardizedRow, len(rows))
	for i, row := range rows {
		out[i] = dto.StandardizedRow{
			StockCode:   row.StockCode,
			Momentum6MZ: math.NaN(),
			Vol3MZ:      math.NaN(),
			ValuePEZ:    math.NaN(),
			ValuePBZ:    math.NaN(),
			SizeZ:       math.NaN(),
		}
	}

	for _, factor := range dto.Factors {
		valid := make([]float64, 0, len(rows))
		for _, row := range rows {
			if v := row.Value(factor); !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}
		if len(valid) == 0 {
			continue
		}

		m := mean(valid)
		sd := 0.0
		if len(valid) > 1 {
			sd = sampleStdDev(valid, m)
		}

		for i, row := range rows {
			v := row.Value(factor)
			if math.IsNaN(v) {
				continue
			}
			if sd == 0 {
				out[i].SetValue(factor, 0)
				continue
			}
			out[i].SetValue(factor, (v-m)/sd)
		}
	}

	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
