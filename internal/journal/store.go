package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/fsatomic"
)

// LoadWarning records a malformed entry skipped during a bulk load rather
// than failing the whole load (§4.C, §7).
type LoadWarning struct {
	Index   int
	Message string
}

// Journal is the in-memory General Journal with exclusive-writer,
// multiple-reader semantics (§5). Entries preserve insertion order.
type Journal struct {
	mu      sync.RWMutex
	entries []JournalEntry
	chart   *chartofaccounts.Chart
	path    string
	backupDir string
}

// New creates an empty Journal bound to chart for validation, persisting
// to path with backups written under backupDir.
func New(chart *chartofaccounts.Chart, path, backupDir string) *Journal {
	return &Journal{chart: chart, path: path, backupDir: backupDir}
}

// LoadEntries parses the persisted journal. Malformed entries are
// reported as warnings and skipped rather than failing the whole load
// (§4.C). Per-entry account validation can be disabled for throughput via
// skipAccountCheck.
func (j *Journal) LoadEntries(skipAccountCheck bool) ([]LoadWarning, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		j.mu.Lock()
		j.entries = nil
		j.mu.Unlock()
		return nil, nil
	}
	if err != nil {
		return nil, errs.IOError("failed to read journal", err)
	}

	entries, warnings, err := Decode(data, j.chart, skipAccountCheck)
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	j.entries = entries
	j.mu.Unlock()
	return warnings, nil
}

// Decode parses a JSON array of journal entries the same way LoadEntries
// does: malformed or invariant-violating entries are reported as
// warnings and skipped rather than failing the whole decode (§4.C, §7).
func Decode(data []byte, chart *chartofaccounts.Chart, skipAccountCheck bool) ([]JournalEntry, []LoadWarning, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, errs.IOError("failed to parse journal as an array", err)
	}

	var warnings []LoadWarning
	entries := make([]JournalEntry, 0, len(raw))
	for i, r := range raw {
		var e JournalEntry
		if err := json.Unmarshal(r, &e); err != nil {
			warnings = append(warnings, LoadWarning{Index: i, Message: err.Error()})
			continue
		}
		if err := Validate(e, chart, skipAccountCheck); err != nil {
			warnings = append(warnings, LoadWarning{Index: i, Message: err.Error()})
			continue
		}
		entries = append(entries, e)
	}
	return entries, warnings, nil
}

// Encode serializes entries the same way SaveEntries does.
func Encode(entries []JournalEntry) ([]byte, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errs.IOError("failed to marshal journal", err)
	}
	return data, nil
}

// ReplaceAll swaps the journal's in-memory entries for entries.
func (j *Journal) ReplaceAll(entries []JournalEntry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = entries
}

// AddEntry validates and appends entry. Returns false, nil (not an error)
// if an existing entry already represents the same bank transaction
// (idempotent re-import, §4.C). If persist is true, triggers a save.
func (j *Journal) AddEntry(e JournalEntry, persist bool) (bool, error) {
	if err := Validate(e, j.chart, false); err != nil {
		return false, err
	}

	j.mu.Lock()
	for _, existing := range j.entries {
		if SameBankTransaction(existing, e) {
			j.mu.Unlock()
			return false, nil
		}
	}
	j.entries = append(j.entries, e)
	j.mu.Unlock()

	if persist {
		if err := j.SaveEntries(); err != nil {
			return true, err
		}
	}
	return true, nil
}

// UpdateEntry swaps oldEntry for newEntry by identity. Fails with
// NotFound if oldEntry is not present.
func (j *Journal) UpdateEntry(oldEntry, newEntry JournalEntry) error {
	if err := Validate(newEntry, j.chart, false); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, e := range j.entries {
		if SameBankTransaction(e, oldEntry) && entriesIdentical(e, oldEntry) {
			j.entries[i] = newEntry
			return nil
		}
	}
	return errs.NotFound("no matching journal entry to update")
}

// entriesIdentical does a full structural comparison, used by
// UpdateEntry/RemoveEntry to pin down the exact record (identity alone
// may match several historical states of the same transaction across a
// recategorization chain is not expected, but the check is defensive).
func entriesIdentical(a, b JournalEntry) bool {
	data1, _ := json.Marshal(a)
	data2, _ := json.Marshal(b)
	return string(data1) == string(data2)
}

// RemoveEntry deletes entry by identity. Only the out-of-band cleanup
// collaborator invokes this (§3 lifecycle) — never the tool surface.
func (j *Journal) RemoveEntry(e JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, existing := range j.entries {
		if entriesIdentical(existing, e) {
			j.entries = append(j.entries[:i], j.entries[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("no matching journal entry to remove")
}

// GetEntriesByAccount returns, in insertion order, every entry that
// references code on either side.
func (j *Journal) GetEntriesByAccount(code string) []JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []JournalEntry
	for _, e := range j.entries {
		for _, l := range append(append([]SplitLine{}, e.Debits...), e.Credits...) {
			if l.AccountCode == code {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// GetAllEntries returns every entry in insertion order.
func (j *Journal) GetAllEntries() []JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// CalculateAccountBalance sums code's natural-balance-signed activity, as
// of asOfDate if non-nil. Convention fixed per spec §9 open question:
// positive = natural balance per account type, applied uniformly. Debit
// lines against code add, credit lines subtract, for Bank/Expense/COGS/
// CurrentAsset/FixedAsset/Inventory/Depreciation (natural debit balance);
// the sign is flipped for Revenue/OtherIncome/CurrentLiability/Equity
// (natural credit balance).
func (j *Journal) CalculateAccountBalance(code string, asOfDate *time.Time) (decimal.Decimal, error) {
	account, err := j.chart.GetAccount(code)
	if err != nil {
		return decimal.Zero, err
	}
	natural := naturalDebitBalance(account.Type)

	j.mu.RLock()
	defer j.mu.RUnlock()
	total := decimal.Zero
	for _, e := range j.entries {
		if asOfDate != nil && e.Date.After(*asOfDate) {
			continue
		}
		for _, l := range e.Debits {
			if l.AccountCode == code {
				if natural {
					total = total.Add(l.Amount)
				} else {
					total = total.Sub(l.Amount)
				}
			}
		}
		for _, l := range e.Credits {
			if l.AccountCode == code {
				if natural {
					total = total.Sub(l.Amount)
				} else {
					total = total.Add(l.Amount)
				}
			}
		}
	}
	return total, nil
}

// NaturalDebitBalance reports whether t's natural balance is a debit
// balance (true) or a credit balance (false). Exported so report
// generation can assign accounts to the correct trial-balance column
// without recomputing the convention (§9 open question: positive =
// natural balance per account type, applied uniformly).
func NaturalDebitBalance(t chartofaccounts.AccountType) bool {
	return naturalDebitBalance(t)
}

func naturalDebitBalance(t chartofaccounts.AccountType) bool {
	switch t {
	case chartofaccounts.Revenue, chartofaccounts.OtherIncome,
		chartofaccounts.CurrentLiability, chartofaccounts.Equity:
		return false
	default:
		return true
	}
}

// SaveEntries writes the journal plus a timestamped backup into the
// backup directory, atomically at the file level (§4.C, §5).
func (j *Journal) SaveEntries() error {
	j.mu.RLock()
	entries := make([]JournalEntry, len(j.entries))
	copy(entries, j.entries)
	j.mu.RUnlock()

	data, err := Encode(entries)
	if err != nil {
		return err
	}

	if err := fsatomic.Write(j.path, data); err != nil {
		return err
	}

	if j.backupDir != "" {
		if err := os.MkdirAll(j.backupDir, 0o755); err != nil {
			return errs.IOError("failed to create backup directory", err)
		}
		backupPath := filepath.Join(j.backupDir, fmt.Sprintf("general_journal_%s.json", utcStamp()))
		if err := fsatomic.Write(backupPath, data); err != nil {
			return err
		}
	}
	return nil
}

func utcStamp() string {
	return time.Now().UTC().Format("20060102T150405Z")
}
