package chartofaccounts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/errs"
)

func TestIsBankCode(t *testing.T) {
	require.True(t, IsBankCode("001"))
	require.True(t, IsBankCode("099"))
	require.False(t, IsBankCode("100"))
	require.False(t, IsBankCode("12"))
	require.False(t, IsBankCode("abc"))
}

func TestBootstrapSeedsUncategorizedOnce(t *testing.T) {
	chart := New()
	require.NoError(t, Bootstrap(chart))
	account, err := chart.GetAccount(UncategorizedCode)
	require.NoError(t, err)
	require.Equal(t, "Uncategorized", account.Name)

	require.NoError(t, Bootstrap(chart))
	all := chart.GetAllAccounts()
	require.Len(t, all, 1)
}

func TestAddAccountRejectsBankRangeWithoutBootstrap(t *testing.T) {
	chart := New()
	err := chart.AddAccount(Account{Code: "010", Name: "Savings", Type: Bank, GSTTreatment: BASExcluded})
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindProtected, de.Kind)
}

func TestAddAccountAllowsBankRangeDuringBootstrap(t *testing.T) {
	chart := New()
	chart.AllowBankBootstrap(true)
	err := chart.AddAccount(Account{Code: "010", Name: "Savings", Type: Bank, GSTTreatment: BASExcluded})
	require.NoError(t, err)
}

func TestAddAccountRejectsDuplicateCode(t *testing.T) {
	chart := New()
	require.NoError(t, chart.AddAccount(Account{Code: "310", Name: "Rent", Type: Expense, GSTTreatment: GSTOnExpenses}))
	err := chart.AddAccount(Account{Code: "310", Name: "Rent Again", Type: Expense, GSTTreatment: GSTOnExpenses})
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindConflict, de.Kind)
}

func TestAddAccountRejectsMismatchedBankType(t *testing.T) {
	chart := New()
	chart.AllowBankBootstrap(true)
	err := chart.AddAccount(Account{Code: "010", Name: "Savings", Type: Expense, GSTTreatment: GSTOnExpenses})
	require.Error(t, err)
}

func TestSuggestCodeForTypeSkipsTaken(t *testing.T) {
	chart := New()
	require.NoError(t, chart.AddAccount(Account{Code: "301", Name: "First", Type: Expense, GSTTreatment: GSTOnExpenses}))
	code, err := chart.SuggestCodeForType(Expense)
	require.NoError(t, err)
	require.Equal(t, "302", code)
}

func TestSuggestCodeForTypeUnknownBand(t *testing.T) {
	chart := New()
	_, err := chart.SuggestCodeForType(Bank)
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	chart := New()
	require.NoError(t, chart.AddAccount(Account{Code: "310", Name: "Rent", Type: Expense, GSTTreatment: GSTOnExpenses}))
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, chart.Save(path))

	loaded := New()
	require.NoError(t, loaded.Load(path))
	account, err := loaded.GetAccount("310")
	require.NoError(t, err)
	require.Equal(t, "Rent", account.Name)
}

func TestLoadMissingFileYieldsEmptyChart(t *testing.T) {
	chart := New()
	require.NoError(t, chart.Load(filepath.Join(t.TempDir(), "missing.json")))
	require.Empty(t, chart.GetAllAccounts())
}

func TestGetAccountsByTypeSortedByCode(t *testing.T) {
	chart := New()
	require.NoError(t, chart.AddAccount(Account{Code: "320", Name: "Travel", Type: Expense, GSTTreatment: GSTOnExpenses}))
	require.NoError(t, chart.AddAccount(Account{Code: "310", Name: "Rent", Type: Expense, GSTTreatment: GSTOnExpenses}))
	out := chart.GetAccountsByType(Expense)
	require.Len(t, out, 2)
	require.Equal(t, "310", out[0].Code)
	require.Equal(t, "320", out[1].Code)
}
