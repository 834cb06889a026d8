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

var revenueTypes = []chartofaccounts.AccountType{chartofaccounts.Revenue, chartofaccounts.OtherIncome}
var cogsTypes = []chartofaccounts.AccountType{chartofaccounts.COGS}
var expenseTypes = []chartofaccounts.AccountType{chartofaccounts.Expense, chartofaccounts.Depreciation}

type plRow struct {
	accountBalance
	TransactionCount int
}

func plRows(chart *chartofaccounts.Chart, j *journal.Journal, start, end time.Time, types []chartofaccounts.AccountType, includeZero bool) []plRow {
	var out []plRow
	for _, t := range types {
		for _, a := range chart.GetAccountsByType(t) {
			bal := periodActivity(j, a.Code, start, end)
			count := 0
			for _, e := range j.GetEntriesByAccount(a.Code) {
				if inRange(e.Date, start, end) {
					count++
				}
			}
			if !includeZero && bal.IsZero() {
				continue
			}
			out = append(out, plRow{accountBalance{Account: a, Balance: bal}, count})
		}
	}
	return out
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

func sortPLRows(rows []plRow, sortBy SortOrder) {
	switch sortBy {
	case SortAccountName:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Account.Name < rows[j].Account.Name })
	case SortAmount, SortBalance:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Balance.Abs().GreaterThan(rows[j].Balance.Abs()) })
	default:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Account.Code < rows[j].Account.Code })
	}
}

// periodActivity sums code's natural-balance-signed activity strictly
// within [start, end], independent of any opening balance.
func periodActivity(j *journal.Journal, code string, start, end time.Time) decimal.Decimal {
	asOfEnd, _ := j.CalculateAccountBalance(code, &end)
	dayBeforeStart := start.AddDate(0, 0, -1)
	asOfBeforeStart, _ := j.CalculateAccountBalance(code, &dayBeforeStart)
	return asOfEnd.Sub(asOfBeforeStart)
}

// ProfitAndLoss renders the P&L audit report (§4.H): revenue, COGS, and
// expenses with per-account transaction counts, deriving gross and net
// profit.
func ProfitAndLoss(chart *chartofaccounts.Chart, j *journal.Journal, startDate, endDate time.Time, includeZeroBalances bool, sortBy SortOrder) string {
	revenue := plRows(chart, j, startDate, endDate, revenueTypes, includeZeroBalances)
	cogs := plRows(chart, j, startDate, endDate, cogsTypes, includeZeroBalances)
	expenses := plRows(chart, j, startDate, endDate, expenseTypes, includeZeroBalances)
	sortPLRows(revenue, sortBy)
	sortPLRows(cogs, sortBy)
	sortPLRows(expenses, sortBy)

	revenueTotal := sumPLRows(revenue)
	cogsTotal := sumPLRows(cogs)
	expensesTotal := sumPLRows(expenses)
	grossProfit := revenueTotal.Sub(cogsTotal)
	netProfit := grossProfit.Sub(expensesTotal)

	var b strings.Builder
	fmt.Fprintf(&b, "PROFIT & LOSS %s to %s\n", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	b.WriteString(rule(60) + "\n")

	w := newTabWriter(&b)
	fmt.Fprintln(w, "REVENUE\t\t")
	for _, row := range revenue {
		fmt.Fprintf(w, "  %s %s\t%s\t(%d txns)\n", row.Account.Code, row.Account.Name, row.Balance.StringFixed(2), row.TransactionCount)
	}
	fmt.Fprintf(w, "Total Revenue\t%s\t\n", revenueTotal.StringFixed(2))
	w.Flush()
	b.WriteString(rule(60) + "\n")

	w = newTabWriter(&b)
	fmt.Fprintln(w, "COST OF GOODS SOLD\t\t")
	for _, row := range cogs {
		fmt.Fprintf(w, "  %s %s\t%s\t(%d txns)\n", row.Account.Code, row.Account.Name, row.Balance.StringFixed(2), row.TransactionCount)
	}
	fmt.Fprintf(w, "Total COGS\t%s\t\n", cogsTotal.StringFixed(2))
	fmt.Fprintf(w, "Gross Profit\t%s\t\n", grossProfit.StringFixed(2))
	w.Flush()
	b.WriteString(rule(60) + "\n")

	w = newTabWriter(&b)
	fmt.Fprintln(w, "EXPENSES\t\t")
	for _, row := range expenses {
		fmt.Fprintf(w, "  %s %s\t%s\t(%d txns)\n", row.Account.Code, row.Account.Name, row.Balance.StringFixed(2), row.TransactionCount)
	}
	fmt.Fprintf(w, "Total Expenses\t%s\t\n", expensesTotal.StringFixed(2))
	w.Flush()
	b.WriteString(rule(60) + "\n")

	fmt.Fprintf(&b, "NET PROFIT\t%s\n", netProfit.StringFixed(2))
	return b.String()
}

func sumPLRows(rows []plRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Balance)
	}
	return total
}
