package telegram

import (
	"fmt"
	"strings"

	"golang-stock-ranker/internal/ranker/dto"
	"golang-stock-ranker/pkg/utils"
)

// FormatRankingDigest formats the top of a ranked table into a Markdown
// message for Telegram. Messages are capped well under Telegram's 4096
// character limit.
func FormatRankingDigest(table *dto.RankedTable, topK int) string {
	var b strings.Builder

	b.WriteString("📊 *Factor Ranking Update*\n")
	b.WriteString(fmt.Sprintf("_%s UTC, %d stocks ranked_\n\n", table.GeneratedAt.Format("2006-01-02 15:04"), len(table.Rows)))

	rows := table.TopK(topK)
	if len(rows) == 0 {
		b.WriteString("No stocks ranked.")
		return b.String()
	}

	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%d. *%s*  score %s", row.Rank, row.StockCode, utils.FormatFloat(row.CompositeScore, 3)))
		b.WriteString(fmt.Sprintf("  (mom %s, vol %s)\n",
			utils.FormatFloat(row.Factors.Momentum6M, 3),
			utils.FormatFloat(row.Factors.Vol3M, 3)))
		if b.Len() > 3800 {
			b.WriteString("…\n")
			break
		}
	}

	return b.String()
}
