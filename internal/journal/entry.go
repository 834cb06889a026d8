// Package journal implements the General Journal subsystem (§4.C): the
// balanced double-entry model, bank-transaction-identity duplicate
// detection, and persistence with automatic timestamped backup.
package journal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
)

// SplitLine is a (accountCode, positiveAmount) pair; direction is encoded
// by placement in Debits vs Credits, never by sign.
type SplitLine struct {
	AccountCode string          `json:"accountCode"`
	Amount      decimal.Decimal `json:"amount"`
}

// JournalEntry is one balanced double-entry record.
type JournalEntry struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Debits      []SplitLine     `json:"debits"`
	Credits     []SplitLine     `json:"credits"`
	BankBalance decimal.Decimal `json:"bankBalance"`
	Notes       string          `json:"notes,omitempty"`
}

func sumLines(lines []SplitLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// balanceTolerance matches the 0.005 tolerance from spec §8.
var balanceTolerance = decimal.NewFromFloat(0.005)

// dayKey truncates a timestamp to day resolution for identity comparison.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// bankLeg returns the last bank-account split line among lines and the
// number of bank-account lines in lines; callers combine the counts of
// debits and credits to check the "exactly one leg is Bank" invariant (§3).
func bankLeg(chart *chartofaccounts.Chart, lines []SplitLine) (SplitLine, int) {
	var found SplitLine
	count := 0
	for _, l := range lines {
		if chartofaccounts.IsBankCode(l.AccountCode) {
			found = l
			count++
		}
	}
	return found, count
}

// Validate checks the invariants from spec §3/§8: balanced debits/credits
// to 2-decimal precision, every referenced code exists in chart (unless
// skipAccountCheck is set for bulk load), and exactly one leg across the
// whole entry is a single-line Bank account.
func Validate(e JournalEntry, chart *chartofaccounts.Chart, skipAccountCheck bool) error {
	if len(e.Debits) == 0 || len(e.Credits) == 0 {
		return errs.Validation("debits/credits", "entry must have at least one debit and one credit line")
	}
	debitTotal := sumLines(e.Debits)
	creditTotal := sumLines(e.Credits)
	if debitTotal.Sub(creditTotal).Abs().GreaterThan(balanceTolerance) {
		return errs.Validation("debits/credits", fmt.Sprintf(
			"entry is unbalanced: debits=%s credits=%s", debitTotal, creditTotal))
	}
	for _, l := range e.Debits {
		if l.Amount.LessThanOrEqual(decimal.Zero) {
			return errs.Validation("debits", "split amounts must be strictly positive")
		}
	}
	for _, l := range e.Credits {
		if l.Amount.LessThanOrEqual(decimal.Zero) {
			return errs.Validation("credits", "split amounts must be strictly positive")
		}
	}
	if !skipAccountCheck {
		for _, l := range append(append([]SplitLine{}, e.Debits...), e.Credits...) {
			if _, err := chart.GetAccount(l.AccountCode); err != nil {
				return errs.Validation("accountCode", "unknown account code "+l.AccountCode)
			}
		}
	}

	debitBank, debitBankCount := bankLeg(chart, e.Debits)
	creditBank, creditBankCount := bankLeg(chart, e.Credits)
	totalBankLegs := debitBankCount + creditBankCount
	if totalBankLegs != 1 {
		return errs.Validation("bankCode", fmt.Sprintf(
			"entry must have exactly one bank-account leg, found %d", totalBankLegs))
	}
	if debitBankCount == 1 && len(e.Debits) != 1 {
		return errs.Validation("debits", "the bank leg must be the only debit line")
	}
	if creditBankCount == 1 && len(e.Credits) != 1 {
		return errs.Validation("credits", "the bank leg must be the only credit line")
	}
	_ = debitBank
	_ = creditBank
	return nil
}

// BankCode returns the account code of the entry's single bank leg.
func BankCode(e JournalEntry) string {
	for _, l := range e.Debits {
		if chartofaccounts.IsBankCode(l.AccountCode) {
			return l.AccountCode
		}
	}
	for _, l := range e.Credits {
		if chartofaccounts.IsBankCode(l.AccountCode) {
			return l.AccountCode
		}
	}
	return ""
}

// BankIsDebit reports whether the bank leg sits on the debit side.
func BankIsDebit(e JournalEntry) bool {
	for _, l := range e.Debits {
		if chartofaccounts.IsBankCode(l.AccountCode) {
			return true
		}
	}
	return false
}

// Amount returns the entry's total gross amount (the bank leg's amount,
// which by the balance invariant equals the total of the opposite side).
func Amount(e JournalEntry) decimal.Decimal {
	if BankIsDebit(e) {
		return sumLines(e.Debits)
	}
	return sumLines(e.Credits)
}

// Identity is the bank-transaction identity tuple from spec §3/glossary:
// (day, description, amount, bankCode). Two entries are the same bank
// transaction iff their identities are equal, regardless of how the
// non-bank leg is categorized.
type Identity struct {
	Day         string
	Description string
	Amount      string
	BankCode    string
}

// IdentityOf computes e's identity tuple.
func IdentityOf(e JournalEntry) Identity {
	return Identity{
		Day:         dayKey(e.Date),
		Description: e.Description,
		Amount:      Amount(e).StringFixed(2),
		BankCode:    BankCode(e),
	}
}

// SameBankTransaction reports whether a and b represent the same bank
// transaction per the coarse identity tuple (spec §9: intentionally
// coarser than full equality so recategorization doesn't break dedup).
func SameBankTransaction(a, b JournalEntry) bool {
	return IdentityOf(a) == IdentityOf(b)
}
