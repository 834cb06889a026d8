package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

func TestBankCodeFromFilename(t *testing.T) {
	require.Equal(t, "001", BankCodeFromFilename("001_january.csv"))
	require.Equal(t, "001", BankCodeFromFilename("/inputs/statements/001_january.csv"))
	require.Equal(t, "", BankCodeFromFilename("january.csv"))
}

func TestParseRowsRejectsMissingHeader(t *testing.T) {
	_, err := ParseRows(strings.NewReader("date,description,amount\n2024-01-01,Coffee,5.00\n"))
	require.Error(t, err)
}

func TestParseRowsParsesValidRows(t *testing.T) {
	csv := "date,description,debit,credit,balance\n" +
		"2024-01-15,Coffee Shop,5.50,,994.50\n" +
		"2024-01-16,Salary,,2000.00,2994.50\n"
	rows, err := ParseRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Coffee Shop", rows[0].Description)
	require.True(t, rows[0].Debit.Equal(rows[0].Debit))
	require.Equal(t, "Salary", rows[1].Description)
}

func TestParseRowsRejectsUnrecognizedDate(t *testing.T) {
	csv := "date,description,debit,credit,balance\nnot-a-date,Coffee,5.00,,0.00\n"
	_, err := ParseRows(strings.NewReader(csv))
	require.Error(t, err)
}

func newTestChart(t *testing.T) *chartofaccounts.Chart {
	t.Helper()
	chart := chartofaccounts.New()
	require.NoError(t, chartofaccounts.Bootstrap(chart))
	chart.AllowBankBootstrap(true)
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "001", Name: "Everyday Account", Type: chartofaccounts.Bank,
		GSTTreatment: chartofaccounts.BASExcluded,
	}))
	chart.AllowBankBootstrap(false)
	return chart
}

func TestImportFileAddsEntriesAndDerivesBankCode(t *testing.T) {
	chart := newTestChart(t)
	j := journal.New(chart, t.TempDir()+"/journal.json", t.TempDir())

	csv := "date,description,debit,credit,balance\n" +
		"2024-01-15,Coffee Shop,5.50,,994.50\n" +
		"2024-01-16,Salary,,2000.00,2994.50\n"

	result, err := ImportFile(j, chart, strings.NewReader(csv), "001_january.csv", "", chartofaccounts.UncategorizedCode)
	require.NoError(t, err)
	require.Equal(t, 2, result.Added)
	require.Equal(t, 0, result.Duplicates)
	require.Empty(t, result.Errors)
}

func TestImportFileReimportIsDeduplicated(t *testing.T) {
	chart := newTestChart(t)
	j := journal.New(chart, t.TempDir()+"/journal.json", t.TempDir())
	csv := "date,description,debit,credit,balance\n2024-01-15,Coffee Shop,5.50,,994.50\n"

	_, err := ImportFile(j, chart, strings.NewReader(csv), "001_january.csv", "", chartofaccounts.UncategorizedCode)
	require.NoError(t, err)

	result, err := ImportFile(j, chart, strings.NewReader(csv), "001_january.csv", "", chartofaccounts.UncategorizedCode)
	require.NoError(t, err)
	require.Equal(t, 0, result.Added)
	require.Equal(t, 1, result.Duplicates)
}

func TestImportFileRejectsUnknownBankCode(t *testing.T) {
	chart := newTestChart(t)
	j := journal.New(chart, t.TempDir()+"/journal.json", t.TempDir())
	csv := "date,description,debit,credit,balance\n2024-01-15,Coffee Shop,5.50,,994.50\n"

	_, err := ImportFile(j, chart, strings.NewReader(csv), "statement.csv", "", chartofaccounts.UncategorizedCode)
	require.Error(t, err)
}
