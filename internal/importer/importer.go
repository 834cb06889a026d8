// Package importer implements the bank-statement CSV ingestion pipeline
// (§4.I): rows become uncategorized journal entries mapped to a bank
// account code inferred from the file name (or an explicit override).
package importer

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/journal"
)

// Result reports per-file counts of added vs deduplicated rows (§4.I).
type Result struct {
	File       string
	Added      int
	Duplicates int
	Errors     []string
}

var codeInName = regexp.MustCompile(`(?:^|[^0-9])(0\d{2})(?:[^0-9]|$)`)

// BankCodeFromFilename extracts a 3-digit bank account code from a CSV
// base filename (e.g. "001_january.csv" -> "001"), or returns "" if none
// is found.
func BankCodeFromFilename(filename string) string {
	base := filepath.Base(filename)
	m := codeInName.FindStringSubmatch(base)
	if m == nil {
		return ""
	}
	return m[1]
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006", "2/1/2006", "1/2/2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Validation("date", "unrecognized date format: "+s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errs.Validation("amount", "unrecognized amount: "+s)
	}
	return d, nil
}

// ParseRows reads a bank-statement CSV with header columns
// date,description,debit,credit,balance (case-insensitive, order
// tolerant) from r.
func ParseRows(r io.Reader) ([]journal.RawFileRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errs.IOError("failed to read CSV", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	dateCol, dateOK := col["date"]
	descCol, descOK := col["description"]
	debitCol, debitOK := col["debit"]
	creditCol, creditOK := col["credit"]
	balCol, balOK := col["balance"]
	if !dateOK || !descOK || !debitOK || !creditOK || !balOK {
		return nil, errs.Validation("header", "CSV header must contain date,description,debit,credit,balance")
	}

	rows := make([]journal.RawFileRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		date, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, err
		}
		debit, err := parseAmount(rec[debitCol])
		if err != nil {
			return nil, err
		}
		credit, err := parseAmount(rec[creditCol])
		if err != nil {
			return nil, err
		}
		balance, err := parseAmount(rec[balCol])
		if err != nil {
			return nil, err
		}
		rows = append(rows, journal.RawFileRow{
			Date:        date,
			Description: strings.TrimSpace(rec[descCol]),
			Debit:       debit,
			Credit:      credit,
			Balance:     balance,
		})
	}
	return rows, nil
}

// ImportFile parses rows from r and appends the resulting entries to j,
// seeded at the Uncategorized account against bankCode. Re-importing an
// already-seen row is a no-op by the journal's own idempotency (§4.C),
// and is reported here as a duplicate rather than an error.
func ImportFile(j *journal.Journal, chart *chartofaccounts.Chart, r io.Reader, filename, bankCode, clearingAccountCode string) (Result, error) {
	if bankCode == "" {
		bankCode = BankCodeFromFilename(filename)
	}
	if !chartofaccounts.IsBankCode(bankCode) {
		return Result{}, errs.Validation("bankCode", "could not determine a valid bank account code for "+filename)
	}
	if _, err := chart.GetAccount(bankCode); err != nil {
		return Result{}, err
	}

	rows, err := ParseRows(r)
	if err != nil {
		return Result{}, err
	}

	result := Result{File: filename}
	for _, row := range rows {
		entry, err := j.CreateEntryFromRawFileRow(row, bankCode, clearingAccountCode)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		added, err := j.AddEntry(entry, true)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if added {
			result.Added++
		} else {
			result.Duplicates++
		}
	}
	return result, nil
}
