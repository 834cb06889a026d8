package rules

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
)

func testChart(t *testing.T) *chartofaccounts.Chart {
	t.Helper()
	chart := chartofaccounts.New()
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "310", Name: "Office Supplies", Type: chartofaccounts.Expense, GSTTreatment: chartofaccounts.GSTOnExpenses,
	}))
	return chart
}

func TestAddAssignsIDAndAccountSnapshot(t *testing.T) {
	chart := testChart(t)
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	r, err := store.Add(Rule{Name: "coffee", Priority: 5, Condition: "contains coffee", AccountCode: "310"})
	require.NoError(t, err)
	require.NotEmpty(t, r.ID)
	require.Equal(t, chartofaccounts.Expense, r.AccountType)
	require.Equal(t, chartofaccounts.GSTOnExpenses, r.GSTHandling)
}

func TestAddRejectsBankAccountTarget(t *testing.T) {
	chart := testChart(t)
	chart.AllowBankBootstrap(true)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{Code: "001", Name: "Bank", Type: chartofaccounts.Bank, GSTTreatment: chartofaccounts.BASExcluded}))
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	_, err := store.Add(Rule{Name: "bank rule", Priority: 1, AccountCode: "001"})
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindProtected, de.Kind)
}

func TestAddRejectsDuplicateName(t *testing.T) {
	chart := testChart(t)
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	_, err := store.Add(Rule{Name: "coffee", Priority: 1, AccountCode: "310"})
	require.NoError(t, err)
	_, err = store.Add(Rule{Name: "coffee", Priority: 2, AccountCode: "310"})
	require.Error(t, err)
}

func TestAddRejectsInvalidPriority(t *testing.T) {
	chart := testChart(t)
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	_, err := store.Add(Rule{Name: "coffee", Priority: 11, AccountCode: "310"})
	require.Error(t, err)
}

func TestUpdatePreservesCreatedAndRederivesSnapshot(t *testing.T) {
	chart := testChart(t)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "320", Name: "Travel", Type: chartofaccounts.Expense, GSTTreatment: chartofaccounts.GSTFreeExpenses,
	}))
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	r, err := store.Add(Rule{Name: "coffee", Priority: 1, AccountCode: "310"})
	require.NoError(t, err)

	newCode := "320"
	updated, err := store.Update("coffee", nil, nil, nil, &newCode, nil)
	require.NoError(t, err)
	require.Equal(t, r.Created, updated.Created)
	require.Equal(t, chartofaccounts.GSTFreeExpenses, updated.GSTHandling)
}

func TestDeleteRequiresConfirm(t *testing.T) {
	chart := testChart(t)
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	_, err := store.Add(Rule{Name: "coffee", Priority: 1, AccountCode: "310"})
	require.NoError(t, err)

	require.Error(t, store.Delete("coffee", false))
	require.NoError(t, store.Delete("coffee", true))
	require.Empty(t, store.List(ListFilter{}, SortByName, 0))
}

func TestListFiltersByConditionAndAccount(t *testing.T) {
	chart := testChart(t)
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	_, err := store.Add(Rule{Name: "coffee", Priority: 3, Condition: "contains Coffee Shop", AccountCode: "310"})
	require.NoError(t, err)
	_, err = store.Add(Rule{Name: "rent", Priority: 1, Condition: "contains rent", AccountCode: "310"})
	require.NoError(t, err)

	byCondition := store.List(ListFilter{ConditionContains: "coffee"}, SortByPriority, 0)
	require.Len(t, byCondition, 1)
	require.Equal(t, "coffee", byCondition[0].Name)

	byPriority := store.List(ListFilter{}, SortByPriority, 0)
	require.Equal(t, "rent", byPriority[0].Name)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	chart := testChart(t)
	store := New(filepath.Join(t.TempDir(), "rules.txt"), chart)
	_, err := store.Add(Rule{Name: "coffee", Priority: 3, Condition: "contains coffee", Action: "categorize", AccountCode: "310", Notes: "seasonal"})
	require.NoError(t, err)

	encoded := Encode(store.List(ListFilter{}, SortByName, 0))
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Equal(t, "coffee", decoded[0].Name)
	require.Equal(t, "seasonal", decoded[0].Notes)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	chart := testChart(t)
	path := filepath.Join(t.TempDir(), "rules.txt")
	store := New(path, chart)
	_, err := store.Add(Rule{Name: "coffee", Priority: 3, AccountCode: "310"})
	require.NoError(t, err)
	require.NoError(t, store.Save())

	reloaded := New(path, chart)
	require.NoError(t, reloaded.Load())
	require.Len(t, reloaded.List(ListFilter{}, SortByName, 0), 1)
}
