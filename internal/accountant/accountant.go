// Package accountant implements the Accountant Tool Server (§4.G): the
// tool surface through which every journal mutation, supplier/rule CRUD
// operation, account creation, and audit report flows. Server holds
// explicit handles to its collaborators rather than reaching for package
// globals, so multiple company files could in principle be served side
// by side (spec.md §9 "avoid global mutable singletons").
package accountant

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/gst"
	"ai-accounting-mcp/internal/journal"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

// Server wires the Chart, Journal, Supplier Registry, and Rules Store
// into the tool surface described by §4.G. persist is invoked after every
// chart/supplier/rule mutation so the caller can decide, independent of
// this package, whether that means writing the unified company file or
// the four legacy files (§6); the Journal persists itself via its own
// SaveEntries, since it always owns a single on-disk location regardless
// of layout.
type Server struct {
	Chart               *chartofaccounts.Chart
	Journal             *journal.Journal
	Suppliers           *supplier.Registry
	Rules               *rules.Store
	ClearingAccountCode string
	log                 *logrus.Logger
	persist             func() error
}

// New builds a Server over the given collaborators. clearingAccountCode
// names the GST clearing account used by gst.Split. persist is called
// after every chart/supplier/rule mutation to flush the current layout.
func New(chart *chartofaccounts.Chart, j *journal.Journal, suppliers *supplier.Registry, ruleStore *rules.Store, clearingAccountCode string, log *logrus.Logger, persist func() error) *Server {
	return &Server{Chart: chart, Journal: j, Suppliers: suppliers, Rules: ruleStore, ClearingAccountCode: clearingAccountCode, log: log, persist: persist}
}

// TransactionView is the JSON-friendly projection of a journal entry
// returned by the search and update tools.
type TransactionView struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	Description string             `json:"description"`
	Amount      string             `json:"amount"`
	BankCode    string             `json:"bankCode"`
	BankIsDebit bool               `json:"bankIsDebit"`
	Debits      []journal.SplitLine `json:"debits"`
	Credits     []journal.SplitLine `json:"credits"`
	BankBalance string             `json:"bankBalance"`
	Notes       string             `json:"notes,omitempty"`
}

func toView(e journal.JournalEntry) TransactionView {
	return TransactionView{
		ID:          TransactionID(e),
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
		Amount:      journal.Amount(e).StringFixed(2),
		BankCode:    journal.BankCode(e),
		BankIsDebit: journal.BankIsDebit(e),
		Debits:      e.Debits,
		Credits:     e.Credits,
		BankBalance: e.BankBalance.StringFixed(2),
		Notes:       e.Notes,
	}
}

func capLimit(entries []journal.JournalEntry, limit int) []journal.JournalEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func sortByDateDesc(entries []journal.JournalEntry) {
	sort.SliceStable(entries, func(i, k int) bool { return entries[i].Date.After(entries[k].Date) })
}

// SearchByString returns every entry whose description contains
// searchString (case-insensitive), newest first.
func (s *Server) SearchByString(searchString string, limit int) []TransactionView {
	var matches []journal.JournalEntry
	needle := strings.ToLower(searchString)
	for _, e := range s.Journal.GetAllEntries() {
		if strings.Contains(strings.ToLower(e.Description), needle) {
			matches = append(matches, e)
		}
	}
	sortByDateDesc(matches)
	return toViews(capLimit(matches, limit))
}

// SearchByAccount returns every entry referencing accountCode, optionally
// narrowed to [startDate, endDate].
func (s *Server) SearchByAccount(accountCode string, startDate, endDate *time.Time, limit int) ([]TransactionView, error) {
	if _, err := s.Chart.GetAccount(accountCode); err != nil {
		return nil, err
	}
	matches := s.Journal.GetEntriesByAccount(accountCode)
	if startDate != nil || endDate != nil {
		var filtered []journal.JournalEntry
		for _, e := range matches {
			if startDate != nil && e.Date.Before(*startDate) {
				continue
			}
			if endDate != nil && e.Date.After(*endDate) {
				continue
			}
			filtered = append(filtered, e)
		}
		matches = filtered
	}
	sortByDateDesc(matches)
	return toViews(capLimit(matches, limit)), nil
}

// SearchByAmount returns every entry whose total amount is within
// tolerance of amount.
func (s *Server) SearchByAmount(amount, tolerance decimal.Decimal, limit int) []TransactionView {
	var matches []journal.JournalEntry
	for _, e := range s.Journal.GetAllEntries() {
		if journal.Amount(e).Sub(amount).Abs().LessThanOrEqual(tolerance) {
			matches = append(matches, e)
		}
	}
	sortByDateDesc(matches)
	return toViews(capLimit(matches, limit))
}

// SearchByDateRange returns every entry within [startDate, endDate].
func (s *Server) SearchByDateRange(startDate, endDate time.Time, limit int) []TransactionView {
	var matches []journal.JournalEntry
	for _, e := range s.Journal.GetAllEntries() {
		if !e.Date.Before(startDate) && !e.Date.After(endDate) {
			matches = append(matches, e)
		}
	}
	sortByDateDesc(matches)
	return toViews(capLimit(matches, limit))
}

// categoryCode returns the account code the transaction is currently
// categorized to, ignoring the GST clearing leg that a GST-applicable
// split adds alongside it, so a no-op check works whether the current
// category is a one-line or two-line split.
func categoryCode(lines []journal.SplitLine, clearingAccountCode string) string {
	for _, l := range lines {
		if l.AccountCode != clearingAccountCode {
			return l.AccountCode
		}
	}
	if len(lines) > 0 {
		return lines[0].AccountCode
	}
	return ""
}

func toViews(entries []journal.JournalEntry) []TransactionView {
	out := make([]TransactionView, 0, len(entries))
	for _, e := range entries {
		out = append(out, toView(e))
	}
	return out
}

// UpdateTransactionAccount recategorizes the non-bank leg of the
// transaction named by transactionID to newAccountCode (§4.G). Refuses a
// bank-range target, an unknown code, or a no-op change to the current
// account. Preserves the bank leg's direction: the new non-bank split(s)
// take the side opposite the bank leg, same as the entry being replaced.
func (s *Server) UpdateTransactionAccount(transactionID, newAccountCode, notes string) (TransactionView, error) {
	entry, err := findByTransactionID(s.Journal, transactionID)
	if err != nil {
		return TransactionView{}, err
	}
	if chartofaccounts.IsBankCode(newAccountCode) {
		return TransactionView{}, errs.Protected("cannot categorize a transaction to a bank account", "bank range 001-099 is protected")
	}
	newAccount, err := s.Chart.GetAccount(newAccountCode)
	if err != nil {
		return TransactionView{}, err
	}

	bankIsDebit := journal.BankIsDebit(entry)
	currentNonBankLines := entry.Credits
	if !bankIsDebit {
		currentNonBankLines = entry.Debits
	}
	currentCategoryCode := categoryCode(currentNonBankLines, s.ClearingAccountCode)
	if currentCategoryCode == newAccountCode {
		return TransactionView{}, errs.Conflict("transaction is already categorized to "+newAccountCode, "choose a different account")
	}

	amount := journal.Amount(entry)
	splits := gst.Split(newAccount, amount, s.ClearingAccountCode)
	var newLines []journal.SplitLine
	for _, sp := range splits {
		newLines = append(newLines, journal.SplitLine{AccountCode: sp.AccountCode, Amount: sp.Amount})
	}

	updated := entry
	if bankIsDebit {
		updated.Credits = newLines
	} else {
		updated.Debits = newLines
	}
	if notes != "" {
		stamp := time.Now().UTC().Format("2006-01-02")
		if updated.Notes != "" {
			updated.Notes += "\n"
		}
		updated.Notes += stamp + ": " + notes
	}

	if err := s.Journal.UpdateEntry(entry, updated); err != nil {
		return TransactionView{}, err
	}
	if err := s.Journal.SaveEntries(); err != nil {
		return TransactionView{}, err
	}
	return toView(updated), nil
}

// MatchSupplierFuzzy ranks registered suppliers against
// transactionDescription (§4.G). isIncomeTransaction is accepted for
// parity with the external contract but does not affect matching: the
// registry has no separate income/expense supplier partition.
func (s *Server) MatchSupplierFuzzy(transactionDescription string, isIncomeTransaction bool, maxCandidates int) []supplier.Candidate {
	return s.Suppliers.MatchFuzzy(transactionDescription, maxCandidates)
}

// AddAccount creates a new account (§4.B/§4.G). When code is empty and
// suggestCode is true, the next available code in the type's advisory
// band is assigned.
func (s *Server) AddAccount(name string, accountType chartofaccounts.AccountType, gstApplicable bool, gstTreatment chartofaccounts.GSTTreatment, code string, suggestCode bool) (chartofaccounts.Account, error) {
	if code == "" {
		if !suggestCode {
			return chartofaccounts.Account{}, errs.Validation("code", "code is required unless suggestCode is true")
		}
		suggested, err := s.Chart.SuggestCodeForType(accountType)
		if err != nil {
			return chartofaccounts.Account{}, err
		}
		code = suggested
	}
	a := chartofaccounts.Account{
		Code:          code,
		Name:          name,
		Type:          accountType,
		GSTApplicable: gstApplicable,
		GSTTreatment:  gstTreatment,
	}
	if err := s.Chart.AddAccount(a); err != nil {
		return chartofaccounts.Account{}, err
	}
	if err := s.persist(); err != nil {
		return chartofaccounts.Account{}, err
	}
	return a, nil
}
