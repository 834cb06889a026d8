package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

// CashFlow renders the cash-flow audit report (§4.H): for each requested
// bank account (or every bank account when cashAccountCodes is empty),
// opening/closing balances and the period's transactions with a running
// balance.
func CashFlow(chart *chartofaccounts.Chart, j *journal.Journal, startDate, endDate time.Time, cashAccountCodes []string) string {
	accounts := cashAccounts(chart, cashAccountCodes)

	var b strings.Builder
	fmt.Fprintf(&b, "CASH FLOW %s to %s\n", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	for _, a := range accounts {
		dayBeforeStart := startDate.AddDate(0, 0, -1)
		opening, _ := j.CalculateAccountBalance(a.Code, &dayBeforeStart)
		closing, _ := j.CalculateAccountBalance(a.Code, &endDate)

		b.WriteString(rule(70) + "\n")
		fmt.Fprintf(&b, "%s %s\n", a.Code, a.Name)
		fmt.Fprintf(&b, "Opening balance: %s\n", opening.StringFixed(2))

		entries := periodEntriesForAccount(j, a.Code, startDate, endDate)
		running := opening
		w := newTabWriter(&b)
		fmt.Fprintln(w, "Date\tDescription\tAmount\tBalance")
		for _, e := range entries {
			delta := signedAmountForBank(e, a.Code)
			running = running.Add(delta)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Date.Format("2006-01-02"), e.Description, delta.StringFixed(2), running.StringFixed(2))
		}
		w.Flush()
		fmt.Fprintf(&b, "Closing balance: %s\n", closing.StringFixed(2))
	}
	return b.String()
}

func cashAccounts(chart *chartofaccounts.Chart, codes []string) []chartofaccounts.Account {
	if len(codes) == 0 {
		return chart.GetAccountsByType(chartofaccounts.Bank)
	}
	var out []chartofaccounts.Account
	for _, code := range codes {
		if a, err := chart.GetAccount(code); err == nil {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func periodEntriesForAccount(j *journal.Journal, code string, start, end time.Time) []journal.JournalEntry {
	var out []journal.JournalEntry
	for _, e := range j.GetEntriesByAccount(code) {
		if inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Date.Before(out[k].Date) })
	return out
}

// signedAmountForBank returns the signed movement of entry e against
// bank account code: positive when the bank leg is a debit (inflow),
// negative when it is a credit (outflow).
func signedAmountForBank(e journal.JournalEntry, code string) decimal.Decimal {
	for _, l := range e.Debits {
		if l.AccountCode == code {
			return l.Amount
		}
	}
	for _, l := range e.Credits {
		if l.AccountCode == code {
			return l.Amount.Neg()
		}
	}
	return decimal.Zero
}
