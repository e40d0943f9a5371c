package service

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"golang-stock-ranker/internal/ranker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *dto.RankedTable {
	return &dto.RankedTable{
		GeneratedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		Universe:    []string{"AAA", "BBB"},
		Rows: []dto.RankedRow{
			{
				Rank:           1,
				StockCode:      "BBB",
				Factors:        dto.FactorRow{StockCode: "BBB", Momentum6M: 0.2, Vol3M: 0.01, ValuePE: 15, ValuePB: 2, Size: 21},
				ZScores:        dto.StandardizedRow{StockCode: "BBB", Momentum6MZ: 0.7, Vol3MZ: -0.7, ValuePEZ: 0.7, ValuePBZ: 0.7, SizeZ: 0.7},
				CompositeScore: 1.4,
			},
			{
				Rank:           2,
				StockCode:      "AAA",
				Factors:        dto.FactorRow{StockCode: "AAA", Momentum6M: math.NaN(), Vol3M: 0.02, ValuePE: 30, ValuePB: 4, Size: 20},
				ZScores:        dto.StandardizedRow{StockCode: "AAA", Momentum6MZ: math.NaN(), Vol3MZ: 0.7, ValuePEZ: -0.7, ValuePBZ: -0.7, SizeZ: -0.7},
				CompositeScore: -0.9,
			},
		},
	}
}

func TestWriteCSVColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"rank", "stock_code",
		"momentum_6m", "vol_3m", "value_pe", "value_pb", "size",
		"momentum_6m_z", "vol_3m_z", "value_pe_z", "value_pb_z", "size_z",
		"composite_score",
	}, records[0])

	// NaN fallback renders as "-", never as a missing cell.
	assert.Equal(t, "-", records[2][2])
	assert.Equal(t, "-", records[2][7])
}

func TestWriteTableTopK(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleTable(), 1))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2, "header plus one row")
	assert.Contains(t, lines[1], "BBB")
}

func TestWriteLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLeaderboard(&buf, sampleTable(), 0))

	out := buf.String()
	assert.Contains(t, out, "1. BBB")
	assert.Contains(t, out, "2. AAA")
}
