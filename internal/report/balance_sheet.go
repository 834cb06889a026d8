package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/journal"
)

var assetTypes = []chartofaccounts.AccountType{
	chartofaccounts.Bank, chartofaccounts.CurrentAsset,
	chartofaccounts.Inventory, chartofaccounts.FixedAsset,
}
var liabilityTypes = []chartofaccounts.AccountType{chartofaccounts.CurrentLiability}
var equityTypes = []chartofaccounts.AccountType{chartofaccounts.Equity}

// BalanceSheet renders the balance-sheet audit report (§4.H): Assets,
// Liabilities, and Equity groups with an owner-equity plug
// (Assets - Liabilities) and a verification block flagging an imbalance
// greater than 0.01 against the recorded Equity balance.
func BalanceSheet(chart *chartofaccounts.Chart, j *journal.Journal, asOfDate time.Time, includeZeroBalances bool, sortBy SortOrder) string {
	assets := balancesForTypes(chart, j, &asOfDate, assetTypes, includeZeroBalances)
	liabilities := balancesForTypes(chart, j, &asOfDate, liabilityTypes, includeZeroBalances)
	equity := balancesForTypes(chart, j, &asOfDate, equityTypes, includeZeroBalances)
	sortAccountBalances(assets, sortBy)
	sortAccountBalances(liabilities, sortBy)
	sortAccountBalances(equity, sortBy)

	assetsTotal := sumBalances(assets)
	liabilitiesTotal := sumBalances(liabilities)
	equityTotal := sumBalances(equity)
	plug := assetsTotal.Sub(liabilitiesTotal)
	imbalance := plug.Sub(equityTotal)

	var b strings.Builder
	fmt.Fprintf(&b, "BALANCE SHEET as of %s\n", asOfDate.Format("2006-01-02"))
	b.WriteString(rule(60) + "\n")

	w := newTabWriter(&b)
	fmt.Fprintln(w, "ASSETS\t")
	for _, row := range assets {
		fmt.Fprintf(w, "  %s %s\t%s\n", row.Account.Code, row.Account.Name, row.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "Total Assets\t%s\n", assetsTotal.StringFixed(2))
	w.Flush()
	b.WriteString(rule(60) + "\n")

	w = newTabWriter(&b)
	fmt.Fprintln(w, "LIABILITIES\t")
	for _, row := range liabilities {
		fmt.Fprintf(w, "  %s %s\t%s\n", row.Account.Code, row.Account.Name, row.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "Total Liabilities\t%s\n", liabilitiesTotal.StringFixed(2))
	w.Flush()
	b.WriteString(rule(60) + "\n")

	w = newTabWriter(&b)
	fmt.Fprintln(w, "EQUITY\t")
	for _, row := range equity {
		fmt.Fprintf(w, "  %s %s\t%s\n", row.Account.Code, row.Account.Name, row.Balance.StringFixed(2))
	}
	fmt.Fprintf(w, "Owner's Equity (plug)\t%s\n", plug.StringFixed(2))
	fmt.Fprintf(w, "Total Equity\t%s\n", equityTotal.StringFixed(2))
	w.Flush()
	b.WriteString(rule(60) + "\n")

	b.WriteString(verificationLine("balance sheet", imbalance) + "\n")
	return b.String()
}

func sumBalances(rows []accountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Balance)
	}
	return total
}
