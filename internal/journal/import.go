package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/gst"
)

// RawFileRow is one parsed bank-statement CSV row (§4.I): exactly one of
// Debit/Credit is set (an outflow or an inflow respectively).
type RawFileRow struct {
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// CreateEntryFromRawFileRow assembles a balanced JournalEntry seeded at
// the Uncategorized account (999) for a single imported statement row
// against bankCode (§4.C, delegating to §4.D/§4.I). The bank leg is a
// credit when the row is an outflow (Debit set) and a debit when it is
// an inflow (Credit set); the non-bank leg takes the opposite side,
// split via the GST rule against the Uncategorized account (which is
// never GST-applicable, so this always yields a single line in
// practice, but the same code path is used for symmetry with
// recategorization).
func (j *Journal) CreateEntryFromRawFileRow(row RawFileRow, bankCode, clearingAccountCode string) (JournalEntry, error) {
	if !chartofaccounts.IsBankCode(bankCode) {
		return JournalEntry{}, errs.Validation("bankCode", "bank code must be in range 001-099")
	}
	uncategorized, err := j.chart.GetAccount(chartofaccounts.UncategorizedCode)
	if err != nil {
		return JournalEntry{}, err
	}

	var amount decimal.Decimal
	var isOutflow bool
	switch {
	case row.Debit.GreaterThan(decimal.Zero):
		amount = row.Debit
		isOutflow = true
	case row.Credit.GreaterThan(decimal.Zero):
		amount = row.Credit
		isOutflow = false
	default:
		return JournalEntry{}, errs.Validation("row", "row has neither a debit nor a credit amount")
	}

	splits := gst.Split(uncategorized, amount, clearingAccountCode)
	var otherLines []SplitLine
	for _, s := range splits {
		otherLines = append(otherLines, SplitLine{AccountCode: s.AccountCode, Amount: s.Amount})
	}
	bankLine := SplitLine{AccountCode: bankCode, Amount: amount}

	entry := JournalEntry{
		Date:        row.Date,
		Description: row.Description,
		BankBalance: row.Balance,
	}
	if isOutflow {
		entry.Debits = otherLines
		entry.Credits = []SplitLine{bankLine}
	} else {
		entry.Debits = []SplitLine{bankLine}
		entry.Credits = otherLines
	}
	return entry, nil
}
