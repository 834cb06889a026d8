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

// TrialBalance renders the trial-balance audit report (§4.H): every
// account assigned to a debit or credit column per its type's natural
// balance, with totals and an imbalance check. An empty period has
// totals 0/0 and is flagged balanced (§8).
func TrialBalance(chart *chartofaccounts.Chart, j *journal.Journal, asOfDate time.Time, includeZeroBalances bool, sortBy SortOrder, groupByType bool) string {
	var rows []accountBalance
	for _, a := range chart.GetAllAccounts() {
		bal, err := j.CalculateAccountBalance(a.Code, &asOfDate)
		if err != nil {
			continue
		}
		if !includeZeroBalances && bal.IsZero() {
			continue
		}
		rows = append(rows, accountBalance{Account: a, Balance: bal})
	}

	if groupByType {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Account.Type != rows[j].Account.Type {
				return rows[i].Account.Type < rows[j].Account.Type
			}
			return rows[i].Account.Code < rows[j].Account.Code
		})
	} else {
		sortAccountBalances(rows, sortBy)
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero

	var b strings.Builder
	fmt.Fprintf(&b, "TRIAL BALANCE as of %s\n", asOfDate.Format("2006-01-02"))
	b.WriteString(rule(70) + "\n")

	w := newTabWriter(&b)
	fmt.Fprintln(w, "Account\tDebit\tCredit")
	for _, row := range rows {
		debitCol, creditCol := "", ""
		if journal.NaturalDebitBalance(row.Account.Type) {
			debitCol = row.Balance.StringFixed(2)
			debitTotal = debitTotal.Add(row.Balance)
		} else {
			creditCol = row.Balance.StringFixed(2)
			creditTotal = creditTotal.Add(row.Balance)
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", row.Account.Code, row.Account.Name, debitCol, creditCol)
	}
	fmt.Fprintf(w, "TOTAL\t%s\t%s\n", debitTotal.StringFixed(2), creditTotal.StringFixed(2))
	w.Flush()
	b.WriteString(rule(70) + "\n")

	imbalance := debitTotal.Sub(creditTotal)
	b.WriteString(verificationLine("trial balance", imbalance) + "\n")
	return b.String()
}
