// Package companyfile implements the unified/legacy persistence modes
// from spec §3/§6: a single "data/company_file.json" document bundling
// the Chart of Accounts, Journal, Supplier Registry, Rules, and a
// company profile, or the same data split across four legacy files
// (inputs/accounts.json, inputs/supplier_list.json,
// inputs/accounting_rules.txt, data/general_journal.json). The rules are
// carried through rules.Encode/rules.Decode and the journal through
// journal.Decode; accounts and suppliers are embedded as plain arrays, and
// the whole document is written as indented JSON.
package companyfile

import (
	"encoding/json"
	"os"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/fsatomic"
	"ai-accounting-mcp/internal/journal"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

// Profile is the free-form company metadata carried by the unified
// document.
type Profile struct {
	Name    string `json:"name,omitempty"`
	ABN     string `json:"abn,omitempty"`
	Address string `json:"address,omitempty"`
}

// Paths names the four legacy file locations plus the unified file
// location, per §6.
type Paths struct {
	CompanyFile  string
	AccountsFile string
	SupplierFile string
	RulesFile    string
	JournalFile  string
}

// unifiedDoc is the on-disk shape of the unified company file. The
// Rules field is the plaintext block format embedded as a JSON string,
// so switching between layouts never touches the rules file's own
// byte-for-byte content.
type unifiedDoc struct {
	Company   Profile                      `json:"company"`
	Accounts  []chartofaccounts.Account    `json:"accounts"`
	Journal   []journal.JournalEntry       `json:"journal"`
	Suppliers []supplier.Supplier          `json:"suppliers"`
	Rules     string                       `json:"rules"`
}

// LoadUnified reads the single unified document at paths.CompanyFile and
// populates chart, j, suppliers, and ruleStore from it. Malformed journal
// entries are reported as warnings rather than failing the load (§4.C).
func LoadUnified(paths Paths, chart *chartofaccounts.Chart, j *journal.Journal, suppliers *supplier.Registry, ruleStore *rules.Store, skipAccountCheck bool) (Profile, []journal.LoadWarning, error) {
	data, err := os.ReadFile(paths.CompanyFile)
	if os.IsNotExist(err) {
		return Profile{}, nil, nil
	}
	if err != nil {
		return Profile{}, nil, errs.IOError("failed to read company file", err)
	}

	var doc unifiedDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Profile{}, nil, errs.IOError("failed to parse company file", err)
	}

	chart.ReplaceAll(doc.Accounts)

	entries, warnings, err := journal.Decode(mustMarshal(doc.Journal), chart, skipAccountCheck)
	if err != nil {
		return Profile{}, nil, err
	}
	j.ReplaceAll(entries)

	suppliers.ReplaceAll(doc.Suppliers)

	parsedRules, err := rules.Decode(doc.Rules)
	if err != nil {
		return Profile{}, nil, errs.IOError("failed to parse embedded accounting rules", err)
	}
	ruleStore.ReplaceAll(parsedRules)

	return doc.Company, warnings, nil
}

// SaveUnified writes a single unified document combining the current
// contents of chart, j, suppliers, and ruleStore, atomically.
func SaveUnified(paths Paths, profile Profile, chart *chartofaccounts.Chart, j *journal.Journal, suppliers *supplier.Registry, ruleStore *rules.Store) error {
	supplierList := suppliers.List(supplier.ListFilter{}, supplier.SortByName, 0)
	ruleList := ruleStore.List(rules.ListFilter{}, rules.SortByPriority, 0)

	doc := unifiedDoc{
		Company:   profile,
		Accounts:  chart.GetAllAccounts(),
		Journal:   j.GetAllEntries(),
		Suppliers: supplierList,
		Rules:     rules.Encode(ruleList),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errs.IOError("failed to marshal company file", err)
	}
	return fsatomic.Write(paths.CompanyFile, data)
}

// LoadLegacy reads the four separate legacy files into chart, j,
// suppliers, and ruleStore.
func LoadLegacy(paths Paths, chart *chartofaccounts.Chart, j *journal.Journal, suppliers *supplier.Registry, ruleStore *rules.Store) ([]journal.LoadWarning, error) {
	if err := chart.Load(paths.AccountsFile); err != nil {
		return nil, err
	}
	if err := suppliers.Load(); err != nil {
		return nil, err
	}
	if err := ruleStore.Load(); err != nil {
		return nil, err
	}
	return j.LoadEntries(false)
}

// SaveLegacy writes chart, suppliers, ruleStore, and the journal to
// their four separate legacy files.
func SaveLegacy(paths Paths, chart *chartofaccounts.Chart, j *journal.Journal, suppliers *supplier.Registry, ruleStore *rules.Store) error {
	if err := chart.Save(paths.AccountsFile); err != nil {
		return err
	}
	if err := suppliers.Save(); err != nil {
		return err
	}
	if err := ruleStore.Save(); err != nil {
		return err
	}
	return j.SaveEntries()
}

func mustMarshal(entries []journal.JournalEntry) []byte {
	data, err := json.Marshal(entries)
	if err != nil {
		// entries were themselves just unmarshaled from valid JSON, so
		// re-marshaling cannot fail.
		panic(err)
	}
	return data
}
