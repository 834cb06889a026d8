package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

func TestProfitAndLossComputesGrossAndNetProfit(t *testing.T) {
	chart, j := testFixture(t)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "400", Name: "Sales", Type: chartofaccounts.Revenue, GSTTreatment: chartofaccounts.GSTOnIncome,
	}))
	entry := journal.JournalEntry{
		Date:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Description: "Invoice paid",
		Debits:      []journal.SplitLine{{AccountCode: "001", Amount: decimal.NewFromFloat(100)}},
		Credits:     []journal.SplitLine{{AccountCode: "400", Amount: decimal.NewFromFloat(100)}},
	}
	_, err := j.AddEntry(entry, false)
	require.NoError(t, err)

	out := ProfitAndLoss(chart, j, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false, SortAccountCode)
	require.Contains(t, out, "REVENUE")
	require.Contains(t, out, "400 Sales")
	require.Contains(t, out, "310 Office Supplies")
	require.Contains(t, out, "NET PROFIT\t94.50")
}

func TestProfitAndLossExcludesActivityOutsideRange(t *testing.T) {
	chart, j := testFixture(t)
	out := ProfitAndLoss(chart, j, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC), false, SortAccountCode)
	require.NotContains(t, out, "310 Office Supplies")
}
