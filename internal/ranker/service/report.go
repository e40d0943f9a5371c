package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/pkg/utils"
)

// reportColumns is the exact column set of the tabular report.
var reportColumns = []string{
	"rank", "stock_code",
	"momentum_6m", "vol_3m", "value_pe", "value_pb", "size",
	"momentum_6m_z", "vol_3m_z", "value_pe_z", "value_pb_z", "size_z",
	"composite_score",
}

// WriteTable renders the ranked table as an aligned text table, truncated to
// topK rows when topK > 0.
func WriteTable(w io.Writer, table *dto.RankedTable, topK int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, col := range reportColumns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range table.TopK(topK) {
		fields := rowFields(row)
		for i, f := range fields {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, f)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// WriteCSV renders the full ranked table as CSV.
func WriteCSV(w io.Writer, table *dto.RankedTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportColumns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(rowFields(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLeaderboard renders the condensed (stock code, composite score) list.
func WriteLeaderboard(w io.Writer, table *dto.RankedTable, topK int) error {
	for _, row := range table.TopK(topK) {
		if _, err := fmt.Fprintf(w, "%d. %s\t%s\n", row.Rank, row.StockCode, utils.FormatFloat(row.CompositeScore, 4)); err != nil {
			return err
		}
	}
	return nil
}

func rowFields(row dto.RankedRow) []string {
	return []string{
		strconv.Itoa(row.Rank),
		row.StockCode,
		utils.FormatFloat(row.Factors.Momentum6M, 4),
		utils.FormatFloat(row.Factors.Vol3M, 4),
		utils.FormatFloat(row.Factors.ValuePE, 4),
		utils.FormatFloat(row.Factors.ValuePB, 4),
		utils.FormatFloat(row.Factors.Size, 4),
		utils.FormatFloat(row.ZScores.Momentum6MZ, 4),
		utils.FormatFloat(row.ZScores.Vol3MZ, 4),
		utils.FormatFloat(row.ZScores.ValuePEZ, 4),
		utils.FormatFloat(row.ZScores.ValuePBZ, 4),
		utils.FormatFloat(row.ZScores.SizeZ, 4),
		utils.FormatFloat(row.CompositeScore, 4),
	}
}
