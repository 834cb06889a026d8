package report

import (
	"fmt"
	"strings"
	"time"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

// AccountActivity renders the account-activity audit report (§4.H): for
// each requested account, the period's transactions with an optional
// running balance.
func AccountActivity(chart *chartofaccounts.Chart, j *journal.Journal, accountCodes []string, startDate, endDate time.Time, includeRunningBalance bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ACCOUNT ACTIVITY %s to %s\n", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	for _, code := range accountCodes {
		a, err := chart.GetAccount(code)
		if err != nil {
			fmt.Fprintf(&b, "%s: unknown account\n", code)
			continue
		}
		b.WriteString(rule(70) + "\n")
		fmt.Fprintf(&b, "%s %s\n", a.Code, a.Name)

		entries := periodEntriesForAccount(j, code, startDate, endDate)

		w := newTabWriter(&b)
		if includeRunningBalance {
			fmt.Fprintln(w, "Date\tDescription\tDebit\tCredit\tBalance")
		} else {
			fmt.Fprintln(w, "Date\tDescription\tDebit\tCredit")
		}

		dayBeforeStart := startDate.AddDate(0, 0, -1)
		runningBalance, _ := j.CalculateAccountBalance(code, &dayBeforeStart)
		natural := journal.NaturalDebitBalance(a.Type)

		for _, e := range entries {
			debitCol, creditCol := "", ""
			for _, l := range e.Debits {
				if l.AccountCode == code {
					debitCol = l.Amount.StringFixed(2)
					if natural {
						runningBalance = runningBalance.Add(l.Amount)
					} else {
						runningBalance = runningBalance.Sub(l.Amount)
					}
				}
			}
			for _, l := range e.Credits {
				if l.AccountCode == code {
					creditCol = l.Amount.StringFixed(2)
					if natural {
						runningBalance = runningBalance.Sub(l.Amount)
					} else {
						runningBalance = runningBalance.Add(l.Amount)
					}
				}
			}
			if includeRunningBalance {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Date.Format("2006-01-02"), e.Description, debitCol, creditCol, runningBalance.StringFixed(2))
			} else {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Date.Format("2006-01-02"), e.Description, debitCol, creditCol)
			}
		}
		w.Flush()
	}
	return b.String()
}
