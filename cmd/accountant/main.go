// Command accountant runs the Accountant Tool Server (§4.G): the MCP tool
// surface for searching and recategorizing transactions, managing
// suppliers and accounting rules, creating accounts, and generating audit
// reports, over either the unified company file or the four legacy files.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"ai-accounting-mcp/internal/accountant"
	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/companyfile"
	"ai-accounting-mcp/internal/config"
	"ai-accounting-mcp/internal/journal"
	"ai-accounting-mcp/internal/logging"
	"ai-accounting-mcp/internal/mcpserver"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

const version = "1.0.0"

func main() {
	log := logging.New("accountant")
	cfg := config.Load()

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
		p, warnings, err := companyfile.LoadUnified(paths, chart, j, suppliers, ruleStore, false)
		if err != nil {
			log.WithError(err).Fatal("failed to load company file")
		}
		profile = p
		logWarnings(log, warnings)
	} else {
		warnings, err := companyfile.LoadLegacy(paths, chart, j, suppliers, ruleStore)
		if err != nil {
			log.WithError(err).Fatal("failed to load legacy company files")
		}
		logWarnings(log, warnings)
	}

	if err := chartofaccounts.Bootstrap(chart); err != nil {
		log.WithError(err).Fatal("failed to bootstrap chart of accounts")
	}

	persist := func() error {
		if unified {
			return companyfile.SaveUnified(paths, profile, chart, j, suppliers, ruleStore)
		}
		return companyfile.SaveLegacy(paths, chart, j, suppliers, ruleStore)
	}

	srv := accountant.New(chart, j, suppliers, ruleStore, cfg.GSTClearingAccount, log, persist)

	framework := mcpserver.New("accountant", version,
		"Search, recategorize, and report on a double-entry company file. "+
			"Categorize transactions via update_transaction_account, manage "+
			"suppliers and accounting rules, and generate audit reports.", log)
	registerAll(srv, framework, cfg.BackupDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := framework.Serve(ctx, ":"+cfg.Port); err != nil {
		log.WithError(err).Fatal("accountant server exited with error")
	}
}

func logWarnings(log *logrus.Logger, warnings []journal.LoadWarning) {
	for _, w := range warnings {
		log.WithField("index", w.Index).Warn("skipped malformed journal entry: " + w.Message)
	}
}
