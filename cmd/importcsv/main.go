// Command importcsv runs the bank-statement Import Pipeline (§4.I) as a
// one-shot CLI: the CSV files named on the command line (or, when none
// are named, every *.csv in the configured inputs directory) are parsed
// and appended to the journal as Uncategorized entries. -bank-code
// overrides the bank code taken from each file name.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/companyfile"
	"ai-accounting-mcp/internal/config"
	"ai-accounting-mcp/internal/importer"
	"ai-accounting-mcp/internal/journal"
	"ai-accounting-mcp/internal/logging"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

func main() {
	log := logging.New("importcsv")
	cfg := config.Load()

	var bankCodeOverride string
	flag.StringVar(&bankCodeOverride, "bank-code", "", "explicit bank account code, overriding filename inference")
	flag.Parse()
	files := flag.Args()

	paths := companyfile.Paths{
		CompanyFile:  cfg.CompanyFile,
		AccountsFile: filepath.Join(cfg.InputsDir, "accounts.json"),
		SupplierFile: filepath.Join(cfg.InputsDir, "supplier_list.json"),
		RulesFile:    filepath.Join(cfg.InputsDir, "accounting_rules.txt"),
		JournalFile:  filepath.Join(cfg.DataDir, "general_journal.json"),
	}

	chart := chartofaccounts.New()
	suppliers := supplier.New(paths.SupplierFile)
	ruleStore := rules.New(paths.RulesFile, chart)
	j := journal.New(chart, paths.JournalFile, filepath.Join(cfg.DataDir, "backups"))

	unified := true
	if _, err := os.Stat(paths.CompanyFile); os.IsNotExist(err) {
		if _, legacyErr := os.Stat(paths.AccountsFile); legacyErr == nil {
			unified = false
		}
	}

	var profile companyfile.Profile
	if unified {
		p, _, err := companyfile.LoadUnified(paths, chart, j, suppliers, ruleStore, false)
		if err != nil {
			log.WithError(err).Fatal("failed to load company file")
		}
		profile = p
	} else if _, err := companyfile.LoadLegacy(paths, chart, j, suppliers, ruleStore); err != nil {
		log.WithError(err).Fatal("failed to load legacy company files")
	}

	if err := chartofaccounts.Bootstrap(chart); err != nil {
		log.WithError(err).Fatal("failed to bootstrap chart of accounts")
	}

	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join(cfg.InputsDir, "*.csv"))
		if err != nil {
			log.WithError(err).Fatal("failed to list inputs directory")
		}
		files = matches
	}

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			log.WithError(err).WithField("file", path).Error("failed to open file")
			continue
		}
		result, err := importer.ImportFile(j, chart, f, path, bankCodeOverride, cfg.GSTClearingAccount)
		f.Close()
		if err != nil {
			log.WithError(err).WithField("file", path).Error("import failed")
			continue
		}
		log.WithField("file", result.File).
			WithField("added", result.Added).
			WithField("duplicates", result.Duplicates).
			WithField("errors", len(result.Errors)).
			Info("imported bank statement")
		for _, e := range result.Errors {
			log.WithField("file", result.File).Warn("skipped row: " + e)
		}
	}

	if unified {
		if err := companyfile.SaveUnified(paths, profile, chart, j, suppliers, ruleStore); err != nil {
			log.WithError(err).Fatal("failed to save company file")
		}
		return
	}
	if err := companyfile.SaveLegacy(paths, chart, j, suppliers, ruleStore); err != nil {
		log.WithError(err).Fatal("failed to save legacy company files")
	}
}
