// Package report implements the plaintext Audit Report generator (§4.H):
// pure functions of (chart, journal, params) producing fixed-width
// plaintext with a header band, section bands, totals, and a
// verification block (§6).
package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

// SortOrder is the caller-selectable report sort key (§6).
type SortOrder string

const (
	SortAccountCode SortOrder = "account_code"
	SortAccountName SortOrder = "account_name"
	SortBalance     SortOrder = "balance"
	SortAmount      SortOrder = "amount"
	SortAccountType SortOrder = "account_type"
	SortDate        SortOrder = "date"
	SortDescription SortOrder = "description"
)

// imbalanceTolerance is the 0.01 verification tolerance from spec §8.
var imbalanceTolerance = decimal.NewFromFloat(0.01)

func newTabWriter(b *strings.Builder) *tabwriter.Writer {
	return tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
}

func rule(width int) string { return strings.Repeat("-", width) }

func verificationLine(label string, imbalance decimal.Decimal) string {
	marker := "✓"
	if imbalance.Abs().GreaterThan(imbalanceTolerance) {
		marker = "⚠"
	}
	return fmt.Sprintf("%s %s: imbalance %s", marker, label, imbalance.StringFixed(2))
}

// accountBalance pairs an account with a computed balance for sorting.
type accountBalance struct {
	Account chartofaccounts.Account
	Balance decimal.Decimal
}

func sortAccountBalances(rows []accountBalance, sortBy SortOrder) {
	switch sortBy {
	case SortAccountName:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Account.Name < rows[j].Account.Name })
	case SortBalance:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Balance.Abs().GreaterThan(rows[j].Balance.Abs()) })
	case SortAccountType:
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Account.Type != rows[j].Account.Type {
				return rows[i].Account.Type < rows[j].Account.Type
			}
			return rows[i].Account.Code < rows[j].Account.Code
		})
	default:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Account.Code < rows[j].Account.Code })
	}
}

func balancesForTypes(chart *chartofaccounts.Chart, j *journal.Journal, asOf *time.Time, types []chartofaccounts.AccountType, includeZero bool) []accountBalance {
	var rows []accountBalance
	for _, t := range types {
		for _, a := range chart.GetAccountsByType(t) {
			bal, err := j.CalculateAccountBalance(a.Code, asOf)
			if err != nil {
				continue
			}
			if !includeZero && bal.IsZero() {
				continue
			}
			rows = append(rows, accountBalance{Account: a, Balance: bal})
		}
	}
	return rows
}
