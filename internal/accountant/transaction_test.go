package accountant

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

func newAccountantTestChart(t *testing.T) *chartofaccounts.Chart {
	t.Helper()
	chart := chartofaccounts.New()
	require.NoError(t, chartofaccounts.Bootstrap(chart))
	chart.AllowBankBootstrap(true)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "001", Name: "Everyday Account", Type: chartofaccounts.Bank, GSTTreatment: chartofaccounts.BASExcluded,
	}))
	chart.AllowBankBootstrap(false)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "310", Name: "Office Supplies", Type: chartofaccounts.Expense, GSTTreatment: chartofaccounts.GSTOnExpenses,
	}))
	return chart
}

func sampleEntry() journal.JournalEntry {
	return journal.JournalEntry{
		Date:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Description: "Coffee Shop",
		Debits:      []journal.SplitLine{{AccountCode: "310", Amount: decimal.NewFromFloat(5.5)}},
		Credits:     []journal.SplitLine{{AccountCode: "001", Amount: decimal.NewFromFloat(5.5)}},
	}
}

func TestTransactionIDFormat(t *testing.T) {
	id := TransactionID(sampleEntry())
	require.Equal(t, "2024-03-14_Coffee Shop_5.50_001", id)
}

func TestParseTransactionIDTolerizesUnderscoresInDescription(t *testing.T) {
	date, desc, amount, bankCode, err := parseTransactionID("2024-03-14_Coffee_Shop_Downtown_5.50_001")
	require.NoError(t, err)
	require.Equal(t, "2024-03-14", date.Format("2006-01-02"))
	require.Equal(t, "Coffee_Shop_Downtown", desc)
	require.Equal(t, "5.50", amount)
	require.Equal(t, "001", bankCode)
}

func TestParseTransactionIDRejectsMalformedID(t *testing.T) {
	_, _, _, _, err := parseTransactionID("not-enough-parts")
	require.Error(t, err)
}

func TestParseTransactionIDRejectsBadDate(t *testing.T) {
	_, _, _, _, err := parseTransactionID("not-a-date_desc_5.50_001")
	require.Error(t, err)
}

func TestParseTransactionIDRejectsBadAmount(t *testing.T) {
	_, _, _, _, err := parseTransactionID("2024-03-14_desc_not-a-number_001")
	require.Error(t, err)
}

func TestFindByTransactionIDMatchesComputedID(t *testing.T) {
	chart := newAccountantTestChart(t)
	j := journal.New(chart, t.TempDir()+"/journal.json", t.TempDir())
	entry := sampleEntry()
	added, err := j.AddEntry(entry, false)
	require.NoError(t, err)
	require.True(t, added)

	found, err := findByTransactionID(j, TransactionID(entry))
	require.NoError(t, err)
	require.Equal(t, entry.Description, found.Description)
}

func TestFindByTransactionIDNotFound(t *testing.T) {
	chart := newAccountantTestChart(t)
	j := journal.New(chart, t.TempDir()+"/journal.json", t.TempDir())
	_, err := findByTransactionID(j, "2024-03-14_Missing_9.99_001")
	require.Error(t, err)
}
