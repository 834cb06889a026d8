package accountant

import (
	"time"

	"ai-accounting-mcp/internal/report"
)

// GenerateBalanceSheetAudit renders the balance-sheet audit (§4.H/§4.G).
func (s *Server) GenerateBalanceSheetAudit(asOfDate time.Time, includeZeroBalances bool, sortBy report.SortOrder) string {
	return report.BalanceSheet(s.Chart, s.Journal, asOfDate, includeZeroBalances, sortBy)
}

// GenerateProfitLossAudit renders the P&L audit (§4.H/§4.G).
func (s *Server) GenerateProfitLossAudit(startDate, endDate time.Time, includeZeroBalances bool, sortBy report.SortOrder) string {
	return report.ProfitAndLoss(s.Chart, s.Journal, startDate, endDate, includeZeroBalances, sortBy)
}

// GenerateTrialBalanceAudit renders the trial-balance audit (§4.H/§4.G).
func (s *Server) GenerateTrialBalanceAudit(asOfDate time.Time, includeZeroBalances bool, sortBy report.SortOrder, groupByType bool) string {
	return report.TrialBalance(s.Chart, s.Journal, asOfDate, includeZeroBalances, sortBy, groupByType)
}

// GenerateCashFlowAudit renders the cash-flow audit (§4.H/§4.G).
func (s *Server) GenerateCashFlowAudit(startDate, endDate time.Time, cashAccountCodes []string) string {
	return report.CashFlow(s.Chart, s.Journal, startDate, endDate, cashAccountCodes)
}

// GenerateAccountActivityAudit renders the account-activity audit (§4.H/§4.G).
func (s *Server) GenerateAccountActivityAudit(accountCodes []string, startDate, endDate time.Time, includeRunningBalance bool) string {
	return report.AccountActivity(s.Chart, s.Journal, accountCodes, startDate, endDate, includeRunningBalance)
}
