package accountant

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/journal"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

func newTestServer(t *testing.T) (*Server, *journal.Journal, *chartofaccounts.Chart) {
	t.Helper()
	chart := newAccountantTestChart(t)
	j := journal.New(chart, t.TempDir()+"/journal.json", t.TempDir()+"/backups")
	suppliers := supplier.New(t.TempDir() + "/suppliers.json")
	ruleStore := rules.New(t.TempDir()+"/rules.txt", chart)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	srv := New(chart, j, suppliers, ruleStore, chartofaccounts.UncategorizedCode, log, func() error { return nil })
	return srv, j, chart
}

func TestUpdateTransactionAccountRecategorizes(t *testing.T) {
	srv, j, _ := newTestServer(t)
	entry := journal.JournalEntry{
		Date:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Description: "Coffee Shop",
		Debits:      []journal.SplitLine{{AccountCode: "001", Amount: decimal.NewFromFloat(5.5)}},
		Credits:     []journal.SplitLine{{AccountCode: "310", Amount: decimal.NewFromFloat(5.5)}},
	}
	added, err := j.AddEntry(entry, false)
	require.NoError(t, err)
	require.True(t, added)

	require.NoError(t, srv.Chart.AddAccount(chartofaccounts.Account{
		Code: "320", Name: "Travel", Type: chartofaccounts.Expense, GSTTreatment: chartofaccounts.GSTOnExpenses,
	}))

	view, err := srv.UpdateTransactionAccount(TransactionID(entry), "320", "recoded")
	require.NoError(t, err)
	require.Equal(t, "320", view.Credits[0].AccountCode)
	require.Contains(t, view.Notes, "recoded")
}

func TestUpdateTransactionAccountRejectsBankTarget(t *testing.T) {
	srv, j, _ := newTestServer(t)
	entry := sampleEntry()
	_, err := j.AddEntry(entry, false)
	require.NoError(t, err)

	_, err = srv.UpdateTransactionAccount(TransactionID(entry), "001", "")
	require.Error(t, err)
}

func TestUpdateTransactionAccountRejectsNoOp(t *testing.T) {
	srv, j, _ := newTestServer(t)
	entry := sampleEntry()
	_, err := j.AddEntry(entry, false)
	require.NoError(t, err)

	_, err = srv.UpdateTransactionAccount(TransactionID(entry), "310", "")
	require.Error(t, err)
}

func TestUpdateTransactionAccountRejectsNoOpOnGSTSplitCategory(t *testing.T) {
	srv, j, _ := newTestServer(t)
	require.NoError(t, srv.Chart.AddAccount(chartofaccounts.Account{
		Code: "330", Name: "Consulting", Type: chartofaccounts.Expense, GSTApplicable: true, GSTTreatment: chartofaccounts.GSTOnExpenses,
	}))
	entry := journal.JournalEntry{
		Date:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Description: "Consultant Invoice",
		Debits: []journal.SplitLine{
			{AccountCode: "330", Amount: decimal.NewFromFloat(100)},
			{AccountCode: "999", Amount: decimal.NewFromFloat(10)},
		},
		Credits: []journal.SplitLine{{AccountCode: "001", Amount: decimal.NewFromFloat(110)}},
	}
	_, err := j.AddEntry(entry, false)
	require.NoError(t, err)

	_, err = srv.UpdateTransactionAccount(TransactionID(entry), "330", "")
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindConflict, de.Kind)
}

func TestAddAccountRequiresCodeWithoutSuggestion(t *testing.T) {
	srv, _, _ := newTestServer(t)
	_, err := srv.AddAccount("Marketing", chartofaccounts.Expense, false, chartofaccounts.GSTOnExpenses, "", false)
	require.Error(t, err)
}

func TestAddAccountSuggestsCodeInTypeBand(t *testing.T) {
	srv, _, _ := newTestServer(t)
	account, err := srv.AddAccount("Marketing", chartofaccounts.Expense, false, chartofaccounts.GSTOnExpenses, "", true)
	require.NoError(t, err)
	require.Equal(t, "301", account.Code)
}

func TestSearchByStringIsCaseInsensitiveAndNewestFirst(t *testing.T) {
	srv, j, _ := newTestServer(t)
	older := sampleEntry()
	older.Date = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleEntry()
	newer.Date = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := j.AddEntry(older, false)
	require.NoError(t, err)
	_, err = j.AddEntry(newer, false)
	require.NoError(t, err)

	results := srv.SearchByString("coffee", 0)
	require.Len(t, results, 2)
	require.Equal(t, "2024-06-01", results[0].Date)
}
