package companyfile

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

func newStores(t *testing.T, dir string) (*chartofaccounts.Chart, *journal.Journal, *supplier.Registry, *rules.Store) {
	t.Helper()
	chart := chartofaccounts.New()
	chart.AllowBankBootstrap(true)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "001", Name: "Everyday Account", Type: chartofaccounts.Bank, GSTTreatment: chartofaccounts.BASExcluded,
	}))
	chart.AllowBankBootstrap(false)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "310", Name: "Office Supplies", Type: chartofaccounts.Expense, GSTTreatment: chartofaccounts.GSTOnExpenses,
	}))

	j := journal.New(chart, filepath.Join(dir, "data", "general_journal.json"), filepath.Join(dir, "backups"))
	entry := journal.JournalEntry{
		Debits:  []journal.SplitLine{{AccountCode: "310", Amount: decimal.NewFromFloat(5.5)}},
		Credits: []journal.SplitLine{{AccountCode: "001", Amount: decimal.NewFromFloat(5.5)}},
	}
	_, err := j.AddEntry(entry, false)
	require.NoError(t, err)

	suppliers := supplier.New(filepath.Join(dir, "inputs", "supplier_list.json"))
	_, err = suppliers.Create("Bunnings Warehouse", "hardware", "310")
	require.NoError(t, err)

	ruleStore := rules.New(filepath.Join(dir, "inputs", "accounting_rules.txt"), chart)
	_, err = ruleStore.Add(rules.Rule{Name: "coffee", Priority: 1, AccountCode: "310"})
	require.NoError(t, err)

	return chart, j, suppliers, ruleStore
}

func testPaths(dir string) Paths {
	return Paths{
		CompanyFile:  filepath.Join(dir, "data", "company_file.json"),
		AccountsFile: filepath.Join(dir, "inputs", "accounts.json"),
		SupplierFile: filepath.Join(dir, "inputs", "supplier_list.json"),
		RulesFile:    filepath.Join(dir, "inputs", "accounting_rules.txt"),
		JournalFile:  filepath.Join(dir, "data", "general_journal.json"),
	}
}

func TestSaveAndLoadUnifiedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	chart, j, suppliers, ruleStore := newStores(t, dir)
	paths := testPaths(dir)
	profile := Profile{Name: "Acme Pty Ltd", ABN: "123456789"}

	require.NoError(t, SaveUnified(paths, profile, chart, j, suppliers, ruleStore))

	loadedChart := chartofaccounts.New()
	loadedJournal := journal.New(loadedChart, paths.JournalFile, filepath.Join(dir, "backups"))
	loadedSuppliers := supplier.New(paths.SupplierFile)
	loadedRules := rules.New(paths.RulesFile, loadedChart)

	loadedProfile, warnings, err := LoadUnified(paths, loadedChart, loadedJournal, loadedSuppliers, loadedRules, false)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, profile, loadedProfile)
	require.Len(t, loadedChart.GetAllAccounts(), 2)
	require.Len(t, loadedJournal.GetAllEntries(), 1)
	require.Len(t, loadedSuppliers.List(supplier.ListFilter{}, supplier.SortByName, 0), 1)
	require.Len(t, loadedRules.List(rules.ListFilter{}, rules.SortByName, 0), 1)
}

func TestLoadUnifiedMissingFileYieldsEmptyProfile(t *testing.T) {
	dir := t.TempDir()
	chart := chartofaccounts.New()
	j := journal.New(chart, filepath.Join(dir, "data", "general_journal.json"), filepath.Join(dir, "backups"))
	suppliers := supplier.New(filepath.Join(dir, "inputs", "supplier_list.json"))
	ruleStore := rules.New(filepath.Join(dir, "inputs", "accounting_rules.txt"), chart)

	profile, warnings, err := LoadUnified(testPaths(dir), chart, j, suppliers, ruleStore, false)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Profile{}, profile)
}

func TestSaveAndLoadLegacyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	chart, j, suppliers, ruleStore := newStores(t, dir)
	paths := testPaths(dir)

	require.NoError(t, SaveLegacy(paths, chart, j, suppliers, ruleStore))

	loadedChart := chartofaccounts.New()
	loadedJournal := journal.New(loadedChart, paths.JournalFile, filepath.Join(dir, "backups"))
	loadedSuppliers := supplier.New(paths.SupplierFile)
	loadedRules := rules.New(paths.RulesFile, loadedChart)

	warnings, err := LoadLegacy(paths, loadedChart, loadedJournal, loadedSuppliers, loadedRules)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, loadedChart.GetAllAccounts(), 2)
	require.Len(t, loadedJournal.GetAllEntries(), 1)
	require.Len(t, loadedSuppliers.List(supplier.ListFilter{}, supplier.SortByName, 0), 1)
	require.Len(t, loadedRules.List(rules.ListFilter{}, rules.SortByName, 0), 1)
}
