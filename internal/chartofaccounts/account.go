// Package chartofaccounts implements the typed catalogue of accounts (§4.B):
// lookup, enumeration, and the bank-range/uncategorized invariants that the
// rest of the system relies on.
package chartofaccounts

import "ai-accounting-mcp/internal/errs"

// AccountType enumerates the account taxonomy from spec §3.
type AccountType string

const (
	Bank             AccountType = "Bank"
	Revenue          AccountType = "Revenue"
	OtherIncome      AccountType = "OtherIncome"
	COGS             AccountType = "COGS"
	Expense          AccountType = "Expense"
	Depreciation     AccountType = "Depreciation"
	CurrentAsset     AccountType = "CurrentAsset"
	Inventory        AccountType = "Inventory"
	FixedAsset       AccountType = "FixedAsset"
	CurrentLiability AccountType = "CurrentLiability"
	Equity           AccountType = "Equity"
)

var validAccountTypes = map[AccountType]bool{
	Bank: true, Revenue: true, OtherIncome: true, COGS: true, Expense: true,
	Depreciation: true, CurrentAsset: true, Inventory: true, FixedAsset: true,
	CurrentLiability: true, Equity: true,
}

// IsValidAccountType reports whether t is one of the 11 known types.
func IsValidAccountType(t AccountType) bool { return validAccountTypes[t] }

// GSTTreatment enumerates the five GST handling modes from spec §3.
type GSTTreatment string

const (
	GSTOnIncome      GSTTreatment = "GSTOnIncome"
	GSTOnExpenses    GSTTreatment = "GSTOnExpenses"
	GSTFreeExpenses  GSTTreatment = "GSTFreeExpenses"
	BASExcluded      GSTTreatment = "BASExcluded"
	GSTOnCapital     GSTTreatment = "GSTOnCapital"
)

var validGSTTreatments = map[GSTTreatment]bool{
	GSTOnIncome: true, GSTOnExpenses: true, GSTFreeExpenses: true,
	BASExcluded: true, GSTOnCapital: true,
}

// IsValidGSTTreatment reports whether t is one of the 5 known treatments.
func IsValidGSTTreatment(t GSTTreatment) bool { return validGSTTreatments[t] }

// UncategorizedCode is the mandatory initial target of every newly
// imported entry.
const UncategorizedCode = "999"

// Account is an immutable catalogue record.
type Account struct {
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	Type          AccountType  `json:"type"`
	GSTApplicable bool         `json:"gstApplicable"`
	GSTTreatment  GSTTreatment `json:"gstTreatment"`
}

// IsBankCode reports whether code falls in the protected 001-099 range.
func IsBankCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return code >= "001" && code <= "099"
}

// IsValidCodeFormat reports whether code is exactly three ASCII digits.
func IsValidCodeFormat(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validate checks the immutable invariants of an Account value in isolation
// (format, type/GST enum membership, bank-range/type coherence).
func validate(a Account) error {
	if !IsValidCodeFormat(a.Code) {
		return errs.Validation("code", "account code must be exactly three digits")
	}
	if !IsValidAccountType(a.Type) {
		return errs.Validation("type", "unknown account type: "+string(a.Type))
	}
	if !IsValidGSTTreatment(a.GSTTreatment) {
		return errs.Validation("gstTreatment", "unknown GST treatment: "+string(a.GSTTreatment))
	}
	if IsBankCode(a.Code) && a.Type != Bank {
		return errs.Validation("type", "accounts in range 001-099 must be of type Bank")
	}
	if a.Name == "" {
		return errs.Validation("name", "account name must not be empty")
	}
	return nil
}
