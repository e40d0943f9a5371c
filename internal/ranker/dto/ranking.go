package dto

import (
	"encoding/json"
	"math"
	"time"
)

// Factor identifies one raw factor column.
type Factor string

const (
	FactorMomentum6M Factor = "momentum_6m"
	FactorVol3M      Factor = "vol_3m"
	FactorValuePE    Factor = "value_pe"
	FactorValuePB    Factor = "value_pb"
	FactorSize       Factor = "size"
)

// Factors lists every factor column in output order.
var Factors = []Factor{FactorMomentum6M, FactorVol3M, FactorValuePE, FactorValuePB, FactorSize}

// PricePoint is one (date, closing price) observation.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Fundamentals is the snapshot of per-share fundamentals used by the value
// and size factors.
type Fundamentals struct {
	TrailingEPS       float64 `json:"trailing_eps"`
	BookValuePerShare float64 `json:"book_value_per_share"`
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding float64 `json:"shares_outstanding"`
}

// Security bundles everything the factor computer needs for one stock.
// Prices are ordered oldest first.
type Security struct {
	StockCode    string
	Prices       []PricePoint
	Fundamentals *Fundamentals
}

// FactorRow holds the raw factor values for one security. A NaN value is the
// fallback for missing underlying data; the row itself always exists so the
// universe size is constant across pipeline stages.
type FactorRow struct {
	StockCode  string
	Momentum6M float64
	Vol3M      float64
	ValuePE    float64
	ValuePB    float64
	Size       float64
}

// Value returns the raw value for the given factor column.
func (r FactorRow) Value(f Factor) float64 {
	switch f {
	case FactorMomentum6M:
		return r.Momentum6M
	case FactorVol3M:
		return r.Vol3M
	case FactorValuePE:
		return r.ValuePE
	case FactorValuePB:
		return r.ValuePB
	case FactorSize:
		return r.Size
	}
	return math.NaN()
}

// SetValue sets the raw value for the given factor column.
func (r *FactorRow) SetValue(f Factor, v float64) {
	switch f {
	case FactorMomentum6M:
		r.Momentum6M = v
	case FactorVol3M:
		r.Vol3M = v
	case FactorValuePE:
		r.ValuePE = v
	case FactorValuePB:
		r.ValuePB = v
	case FactorSize:
		r.Size = v
	}
}

// StandardizedRow holds the cross-sectional z-scores for one security, same
// schema as FactorRow. NaN marks a value excluded from standardization.
type StandardizedRow struct {
	StockCode   string
	Momentum6MZ float64
	Vol3MZ      float64
	ValuePEZ    float64
	ValuePBZ    float64
	SizeZ       float64
}

// Value returns the z-score for the given factor column.
func (r StandardizedRow) Value(f Factor) float64 {
	switch f {
	case FactorMomentum6M:
		return r.Momentum6MZ
	case FactorVol3M:
		return r.Vol3MZ
	case FactorValuePE:
		return r.ValuePEZ
	case FactorValuePB:
		return r.ValuePBZ
	case FactorSize:
		return r.SizeZ
	}
	return math.NaN()
}

// SetValue sets the z-score for the given factor column.
func (r *StandardizedRow) SetValue(f Factor, v float64) {
	switch f {
	case FactorMomentum6M:
		r.Momentum6MZ = v
	case FactorVol3M:
		r.Vol3MZ = v
	case FactorValuePE:
		r.ValuePEZ = v
	case FactorValuePB:
		r.ValuePBZ = v
	case FactorSize:
		r.SizeZ = v
	}
}

// CompositeRow pairs a security with its weighted composite score.
type CompositeRow struct {
	StockCode      string  `json:"stock_code"`
	CompositeScore float64 `json:"composite_score"`
}

// RankedRow joins the raw, standardized and composite columns for one
// security in the final table.
type RankedRow struct {
	Rank           int
	StockCode      string
	Factors        FactorRow
	ZScores        StandardizedRow
	CompositeScore float64
}

// rankedRowJSON is the wire form of RankedRow. Pointers carry the NaN
// fallback as JSON null, which encoding/json cannot do for plain float64.
type rankedRowJSON struct {
	Rank           int      `json:"rank"`
	StockCode      string   `json:"stock_code"`
	Momentum6M     *float64 `json:"momentum_6m"`
	Vol3M          *float64 `json:"vol_3m"`
	ValuePE        *float64 `json:"value_pe"`
	ValuePB        *float64 `json:"value_pb"`
	Size           *float64 `json:"size"`
	Momentum6MZ    *float64 `json:"momentum_6m_z"`
	Vol3MZ         *float64 `json:"vol_3m_z"`
	ValuePEZ       *float64 `json:"value_pe_z"`
	ValuePBZ       *float64 `json:"value_pb_z"`
	SizeZ          *float64 `json:"size_z"`
	CompositeScore float64  `json:"composite_score"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fromNullable(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// MarshalJSON renders the row with the exact report column set.
func (r RankedRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(rankedRowJSON{
		Rank:           r.Rank,
		StockCode:      r.StockCode,
		Momentum6M:     nullable(r.Factors.Momentum6M),
		Vol3M:          nullable(r.Factors.Vol3M),
		ValuePE:        nullable(r.Factors.ValuePE),
		ValuePB:        nullable(r.Factors.ValuePB),
		Size:           nullable(r.Factors.Size),
		Momentum6MZ:    nullable(r.ZScores.Momentum6MZ),
		Vol3MZ:         nullable(r.ZScores.Vol3MZ),
		ValuePEZ:       nullable(r.ZScores.ValuePEZ),
		ValuePBZ:       nullable(r.ZScores.ValuePBZ),
		SizeZ:          nullable(r.ZScores.SizeZ),
		CompositeScore: r.CompositeScore,
	})
}

// UnmarshalJSON restores JSON null back to the NaN fallback.
func (r *RankedRow) UnmarshalJSON(data []byte) error {
	var w rankedRowJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Rank = w.Rank
	r.StockCode = w.StockCode
	r.Factors = FactorRow{
		StockCode:  w.StockCode,
		Momentum6M: fromNullable(w.Momentum6M),
		Vol3M:      fromNullable(w.Vol3M),
		ValuePE:    fromNullable(w.ValuePE),
		ValuePB:    fromNullable(w.ValuePB),
		Size:       fromNullable(w.Size),
	}
	r.ZScores = StandardizedRow{
		StockCode:   w.StockCode,
		Momentum6MZ: fromNullable(w.Momentum6MZ),
		Vol3MZ:      fromNullable(w.Vol3MZ),
		ValuePEZ:    fromNullable(w.ValuePEZ),
		ValuePBZ:    fromNullable(w.ValuePBZ),
		SizeZ:       fromNullable(w.SizeZ),
	}
	r.CompositeScore = w.CompositeScore
	return nil
}

// RankedTable is the final output of a ranking run, sorted by composite
// score descending with ties broken by stock code ascending.
type RankedTable struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Universe    []string    `json:"universe"`
	Rows        []RankedRow `json:"rows"`
}

// TopK returns the first k rows, or all rows when k <= 0 or exceeds the
// table size.
func (t *RankedTable) TopK(k int) []RankedRow {
	if k <= 0 || k >= len(t.Rows) {
		return t.Rows
	}
	return t.Rows[:k]
}

// Leaderboard returns the condensed (stock code, composite score) view.
func (t *RankedTable) Leaderboard() []CompositeRow {
	rows := make([]CompositeRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, CompositeRow{StockCode: r.StockCode, CompositeScore: r.CompositeScore})
	}
	return rows
}
