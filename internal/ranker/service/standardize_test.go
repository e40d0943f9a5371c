package service

import (
	"math"
	"testing"

	"golang-stock-ranker/internal/ranker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorRow(code string, momentum float64) dto.FactorRow {
	return dto.FactorRow{
		StockCode:  code,
		Momentum6M: momentum,
		Vol3M:      math.NaN(),
		ValuePE:    math.NaN(),
		ValuePB:    math.NaN(),
		Size:       math.NaN(),
	}
}

func TestStandardizeZScores(t *testing.T) {
	s := NewStandardizer()

	// Mean 0.20, sample stddev 0.10.
	rows := s.Standardize([]dto.FactorRow{
		factorRow("A", 0.10),
		factorRow("B", 0.20),
		factorRow("C", 0.30),
	})

	require.Len(t, rows, 3)
	assert.InDelta(t, -1.0, rows[0].Momentum6MZ, 1e-9)
	assert.InDelta(t, 0.0, rows[1].Momentum6MZ, 1e-9)
	assert.InDelta(t, 1.0, rows[2].Momentum6MZ, 1e-9)
}

func TestStandardizeMeanZeroStdOne(t *testing.T) {
	s := NewStandardizer()

	raw := []float64{0.05, -0.12, 0.31, 0.08, -0.02, 0.44}
	input := make([]dto.FactorRow, 0, len(raw))
	for i, v := range raw {
		input = append(input, factorRow(string(rune('A'+i)), v))
	}

	rows := s.Standardize(input)

	zs := make([]float64, 0, len(rows))
	for _, r := range rows {
		zs = append(zs, r.Momentum6MZ)
	}
	assert.InDelta(t, 0.0, mean(zs), 1e-9)
	assert.InDelta(t, 1.0, sampleStdDev(zs, mean(zs)), 1e-9)
}

func TestStandardizeSingleSecurityUniverse(t *testing.T) {
	s := NewStandardizer()

	rows := s.Standardize([]dto.FactorRow{factorRow("ONLY", 0.42)})

	// No meaningful cross-section: z is defined as zero, not an error.
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Momentum6MZ)
}

func TestStandardizeZeroVarianceColumn(t *testing.T) {
	s := NewStandardizer()

	rows := s.Standardize([]dto.FactorRow{
		factorRow("A", 0.15),
		factorRow("B", 0.15),
		factorRow("C", 0.15),
	})

	for _, r := range rows {
		assert.Equal(t, 0.0, r.Momentum6MZ)
	}
}

func TestStandardizeExcludesFallbackValues(t *testing.T) {
	s := NewStandardizer()

	rows := s.Standardize([]dto.FactorRow{
		factorRow("A", 0.10),
		factorRow("B", math.NaN()),
		factorRow("C", 0.30),
	})

	// Statistics come from {0.10, 0.30} only: mean 0.20, sample stddev ≈ 0.1414.
	require.Len(t, rows, 3, "universe size must not shrink")
	sd := math.Sqrt(0.02 / 1.0)
	assert.InDelta(t, (0.10-0.20)/sd, rows[0].Momentum6MZ, 1e-9)
	assert.True(t, math.IsNaN(rows[1].Momentum6MZ), "fallback stays fallback")
	assert.InDelta(t, (0.30-0.20)/sd, rows[2].Momentum6MZ, 1e-9)
}

func TestStandardizeAllColumnsIndependent(t *testing.T) {
	s := NewStandardizer()

	rows := s.Standardize([]dto.FactorRow{
		{StockCode: "A", Momentum6M: 0.10, Vol3M: 0.01, ValuePE: 10, ValuePB: 1, Size: 20},
		{StockCode: "B", Momentum6M: 0.30, Vol3M: 0.03, ValuePE: 30, ValuePB: 3, Size: 26},
	})

	for _, factor := range dto.Factors {
		assert.InDelta(t, -math.Sqrt2/2, rows[0].Value(factor), 1e-9, "factor %s", factor)
		assert.InDelta(t, math.Sqrt2/2, rows[1].Value(factor), 1e-9, "factor %s", factor)
	}
}
