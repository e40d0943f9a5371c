package dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankedRowMarshalNaNAsNull(t *testing.T) {
	row := RankedRow{
		Rank:      1,
		StockCode: "GAP",
		Factors: FactorRow{
			StockCode:  "GAP",
			Momentum6M: math.NaN(),
			Vol3M:      0.02,
			ValuePE:    math.NaN(),
			ValuePB:    1.5,
			Size:       20.5,
		},
		ZScores: StandardizedRow{
			StockCode:   "GAP",
			Momentum6MZ: math.NaN(),
			Vol3MZ:      0.5,
			ValuePEZ:    math.NaN(),
			ValuePBZ:    -0.5,
			SizeZ:       1.0,
		},
		CompositeScore: 0.25,
	}

	payload, err := json.Marshal(row)
	require.NoError(t, err, "NaN fallback must not break JSON encoding")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Nil(t, decoded["momentum_6m"])
	assert.Nil(t, decoded["value_pe_z"])
	assert.Equal(t, 0.02, decoded["vol_3m"])
	assert.Equal(t, 0.25, decoded["composite_score"])

	var restored RankedRow
	require.NoError(t, json.Unmarshal(payload, &restored))
	assert.True(t, math.IsNaN(restored.Factors.Momentum6M))
	assert.True(t, math.IsNaN(restored.ZScores.ValuePEZ))
	assert.Equal(t, row.CompositeScore, restored.CompositeScore)
	assert.Equal(t, row.Factors.Size, restored.Factors.Size)
}

func TestFactorRowValueRoundTrip(t *testing.T) {
	var row FactorRow
	for i, factor := range Factors {
		row.SetValue(factor, float64(i)+0.5)
	}
	for i, factor := range Factors {
		assert.Equal(t, float64(i)+0.5, row.Value(factor))
	}
	assert.True(t, math.IsNaN(row.Value(Factor("unknown"))))
}

func TestRankedTableTopK(t *testing.T) {
	table := &RankedTable{Rows: []RankedRow{{Rank: 1}, {Rank: 2}, {Rank: 3}}}

	assert.Len(t, table.TopK(2), 2)
	assert.Len(t, table.TopK(0), 3)
	assert.Len(t, table.TopK(10), 3)
}
