// Package gst implements the GST split rule (§4.D): a gross amount posted
// against a non-bank account becomes one or two balanced lines depending
// on whether the account is GST-applicable. The splitter is pure and
// knows nothing about debits/credits — direction is chosen by the caller
// (spec §9, "GST direction").
package gst

import (
	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
)

// Line is one (accountCode, positiveAmount) pair of an eventual SplitLine.
type Line struct {
	AccountCode string
	Amount      decimal.Decimal
}

var gstRate = decimal.NewFromFloat(0.1)
var onePlusGSTRate = decimal.NewFromFloat(1.1)

// Split returns the lines to post for a gross amount against account.
// When account.GSTApplicable is false, it returns a single line for the
// full gross amount. Otherwise it returns two lines: the net amount
// against account, and the GST component against clearingAccountCode.
// gst = amount * 0.1 / 1.1, rounded to 2dp; net absorbs the rounding
// residual so net+gst == amount exactly.
func Split(account chartofaccounts.Account, amount decimal.Decimal, clearingAccountCode string) []Line {
	if !account.GSTApplicable {
		return []Line{{AccountCode: account.Code, Amount: amount}}
	}
	gstComponent := amount.Mul(gstRate).Div(onePlusGSTRate).Round(2)
	net := amount.Sub(gstComponent)
	return []Line{
		{AccountCode: account.Code, Amount: net},
		{AccountCode: clearingAccountCode, Amount: gstComponent},
	}
}
