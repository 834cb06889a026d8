package main

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/accountant"
	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/mcpserver"
	"ai-accounting-mcp/internal/report"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(successEnvelope{Success: true, Data: data})
	if err != nil {
		return nil, errs.IOError("failed to marshal tool result", err)
	}
	return mcpserver.TextResult(string(body)), nil
}

type toolDef struct {
	tool    mcp.Tool
	handler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func registerAll(srv *accountant.Server, fw *mcpserver.Framework, backupsDir string) {
	for _, d := range toolDefs(srv, backupsDir) {
		fw.RegisterTool(d.tool, d.handler)
	}
}

func toolDefs(srv *accountant.Server, backupsDir string) []toolDef {
	return []toolDef{
		{
			mcp.NewTool("search_transactions_by_string",
				mcp.WithDescription("Search journal entries whose description contains a substring"),
				mcp.WithString("searchString", mcp.Description("Substring to search for"), mcp.Required()),
				mcp.WithNumber("limit", mcp.Description("Maximum results (0 = unlimited)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				searchString, err := requireString(args, "searchString")
				if err != nil {
					return nil, err
				}
				return jsonResult(srv.SearchByString(searchString, argInt(args, "limit", 0)))
			},
		},
		{
			mcp.NewTool("search_transactions_by_account",
				mcp.WithDescription("Search journal entries referencing an account code, optionally within a date range"),
				mcp.WithString("accountCode", mcp.Description("Account code to search for"), mcp.Required()),
				mcp.WithString("startDate", mcp.Description("Inclusive start date, yyyy-MM-dd")),
				mcp.WithString("endDate", mcp.Description("Inclusive end date, yyyy-MM-dd")),
				mcp.WithNumber("limit", mcp.Description("Maximum results (0 = unlimited)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				accountCode, err := requireString(args, "accountCode")
				if err != nil {
					return nil, err
				}
				startDate, err := argOptionalDate(args, "startDate")
				if err != nil {
					return nil, err
				}
				endDate, err := argOptionalDate(args, "endDate")
				if err != nil {
					return nil, err
				}
				results, err := srv.SearchByAccount(accountCode, startDate, endDate, argInt(args, "limit", 0))
				if err != nil {
					return nil, err
				}
				return jsonResult(results)
			},
		},
		{
			mcp.NewTool("search_transactions_by_amount",
				mcp.WithDescription("Search journal entries whose total amount is within tolerance of a value"),
				mcp.WithString("amount", mcp.Description("Amount to match"), mcp.Required()),
				mcp.WithString("tolerance", mcp.Description("Matching tolerance (default 0.00)")),
				mcp.WithNumber("limit", mcp.Description("Maximum results (0 = unlimited)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				amount, err := argDecimal(args, "amount")
				if err != nil {
					return nil, err
				}
				tolerance := decimal.Zero
				if toleranceStr := argString(args, "tolerance"); toleranceStr != "" {
					parsed, perr := decimal.NewFromString(toleranceStr)
					if perr != nil {
						return nil, errs.Validation("tolerance", "not a valid decimal amount: "+toleranceStr)
					}
					tolerance = parsed
				}
				return jsonResult(srv.SearchByAmount(amount, tolerance, argInt(args, "limit", 0)))
			},
		},
		{
			mcp.NewTool("search_transactions_by_date_range",
				mcp.WithDescription("Search journal entries within an inclusive date range"),
				mcp.WithString("startDate", mcp.Description("Inclusive start date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithString("endDate", mcp.Description("Inclusive end date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithNumber("limit", mcp.Description("Maximum results (0 = unlimited)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				start, err := requireDate(args, "startDate")
				if err != nil {
					return nil, err
				}
				end, err := requireDate(args, "endDate")
				if err != nil {
					return nil, err
				}
				return jsonResult(srv.SearchByDateRange(start, end, argInt(args, "limit", 0)))
			},
		},
		{
			mcp.NewTool("update_transaction_account",
				mcp.WithDescription("Recategorize the non-bank leg of a transaction to a new account"),
				mcp.WithString("transactionId", mcp.Description("Transaction ID, yyyy-MM-dd_description_amount_bankCode"), mcp.Required()),
				mcp.WithString("newAccountCode", mcp.Description("Destination account code"), mcp.Required()),
				mcp.WithString("notes", mcp.Description("Optional note appended with today's date")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				transactionID, err := requireString(args, "transactionId")
				if err != nil {
					return nil, err
				}
				newAccountCode, err := requireString(args, "newAccountCode")
				if err != nil {
					return nil, err
				}
				view, err := srv.UpdateTransactionAccount(transactionID, newAccountCode, argString(args, "notes"))
				if err != nil {
					return nil, err
				}
				return jsonResult(view)
			},
		},
		{
			mcp.NewTool("match_supplier_fuzzy",
				mcp.WithDescription("Return the best-matching registered suppliers for a transaction description"),
				mcp.WithString("transactionDescription", mcp.Description("Raw transaction description"), mcp.Required()),
				mcp.WithBoolean("isIncomeTransaction", mcp.Description("Whether this is an income (vs expense) transaction")),
				mcp.WithNumber("maxCandidates", mcp.Description("Maximum candidates to return (default 5)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				description, err := requireString(args, "transactionDescription")
				if err != nil {
					return nil, err
				}
				max := argInt(args, "maxCandidates", 5)
				isIncome := argBool(args, "isIncomeTransaction", false)
				return jsonResult(srv.MatchSupplierFuzzy(description, isIncome, max))
			},
		},
		{
			mcp.NewTool("create_supplier",
				mcp.WithDescription("Register a new supplier"),
				mcp.WithString("name", mcp.Description("Supplier name"), mcp.Required()),
				mcp.WithString("supplies", mcp.Description("What this supplier provides")),
				mcp.WithString("account", mcp.Description("Default account code for this supplier")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				sup, err := srv.CreateSupplier(name, argString(args, "supplies"), argString(args, "account"))
				if err != nil {
					return nil, err
				}
				return jsonResult(sup)
			},
		},
		{
			mcp.NewTool("read_supplier",
				mcp.WithDescription("Look up a supplier by exact or fuzzy name"),
				mcp.WithString("query", mcp.Description("Supplier name to look up"), mcp.Required()),
				mcp.WithBoolean("exactMatch", mcp.Description("Require an exact name match")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				query, err := requireString(args, "query")
				if err != nil {
					return nil, err
				}
				sup, err := srv.ReadSupplier(query, argBool(args, "exactMatch", false))
				if err != nil {
					return nil, err
				}
				return jsonResult(sup)
			},
		},
		{
			mcp.NewTool("update_supplier",
				mcp.WithDescription("Update a supplier's supplies or default account"),
				mcp.WithString("name", mcp.Description("Supplier name"), mcp.Required()),
				mcp.WithString("supplies", mcp.Description("New supplies description")),
				mcp.WithString("account", mcp.Description("New default account code")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				sup, err := srv.UpdateSupplier(name, argOptionalStringPtr(args, "supplies"), argOptionalStringPtr(args, "account"))
				if err != nil {
					return nil, err
				}
				return jsonResult(sup)
			},
		},
		{
			mcp.NewTool("delete_supplier",
				mcp.WithDescription("Delete a supplier (requires confirm=true)"),
				mcp.WithString("name", mcp.Description("Supplier name"), mcp.Required()),
				mcp.WithBoolean("confirm", mcp.Description("Must be true to perform the deletion"), mcp.Required()),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				if err := srv.DeleteSupplier(name, argBool(args, "confirm", false)); err != nil {
					return nil, err
				}
				return jsonResult(map[string]string{"deleted": name})
			},
		},
		{
			mcp.NewTool("list_suppliers",
				mcp.WithDescription("List suppliers, optionally filtered"),
				mcp.WithString("nameContains", mcp.Description("Filter: substring of supplier name")),
				mcp.WithString("account", mcp.Description("Filter: exact default account code")),
				mcp.WithNumber("limit", mcp.Description("Maximum results (0 = unlimited)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				filter := supplier.ListFilter{NameContains: argString(args, "nameContains"), Account: argString(args, "account")}
				return jsonResult(srv.ListSuppliers(filter, supplier.SortByName, argInt(args, "limit", 0)))
			},
		},
		{
			mcp.NewTool("add_accounting_rule",
				mcp.WithDescription("Add a new accounting rule"),
				mcp.WithString("name", mcp.Description("Rule name"), mcp.Required()),
				mcp.WithNumber("priority", mcp.Description("Priority 1-10"), mcp.Required()),
				mcp.WithString("condition", mcp.Description("Condition this rule matches on"), mcp.Required()),
				mcp.WithString("action", mcp.Description("Action description")),
				mcp.WithString("accountCode", mcp.Description("Target account code"), mcp.Required()),
				mcp.WithString("notes", mcp.Description("Free-form notes")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				condition, err := requireString(args, "condition")
				if err != nil {
					return nil, err
				}
				accountCode, err := requireString(args, "accountCode")
				if err != nil {
					return nil, err
				}
				r := rules.Rule{
					Name:        name,
					Priority:    argInt(args, "priority", 5),
					Condition:   condition,
					Action:      argString(args, "action"),
					AccountCode: accountCode,
					Notes:       argString(args, "notes"),
				}
				added, err := srv.AddAccountingRule(r)
				if err != nil {
					return nil, err
				}
				return jsonResult(added)
			},
		},
		{
			mcp.NewTool("update_accounting_rule",
				mcp.WithDescription("Update an existing accounting rule"),
				mcp.WithString("name", mcp.Description("Rule name"), mcp.Required()),
				mcp.WithNumber("priority", mcp.Description("New priority 1-10")),
				mcp.WithString("condition", mcp.Description("New condition")),
				mcp.WithString("action", mcp.Description("New action description")),
				mcp.WithString("accountCode", mcp.Description("New target account code")),
				mcp.WithString("notes", mcp.Description("New notes")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				r, err := srv.UpdateAccountingRule(name,
					argOptionalIntPtr(args, "priority"),
					argOptionalStringPtr(args, "condition"),
					argOptionalStringPtr(args, "action"),
					argOptionalStringPtr(args, "accountCode"),
					argOptionalStringPtr(args, "notes"))
				if err != nil {
					return nil, err
				}
				return jsonResult(r)
			},
		},
		{
			mcp.NewTool("delete_accounting_rule",
				mcp.WithDescription("Delete an accounting rule (requires confirm=true)"),
				mcp.WithString("name", mcp.Description("Rule name"), mcp.Required()),
				mcp.WithBoolean("confirm", mcp.Description("Must be true to perform the deletion"), mcp.Required()),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				if err := srv.DeleteAccountingRule(name, argBool(args, "confirm", false)); err != nil {
					return nil, err
				}
				return jsonResult(map[string]string{"deleted": name})
			},
		},
		{
			mcp.NewTool("list_accounting_rules",
				mcp.WithDescription("List accounting rules, optionally filtered"),
				mcp.WithString("conditionContains", mcp.Description("Filter: substring of condition")),
				mcp.WithString("accountCode", mcp.Description("Filter: exact target account code")),
				mcp.WithString("sortBy", mcp.Description("priority (default) or name")),
				mcp.WithNumber("limit", mcp.Description("Maximum results (0 = unlimited)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				filter := rules.ListFilter{ConditionContains: argString(args, "conditionContains"), AccountCode: argString(args, "accountCode")}
				sortBy := rules.SortByPriority
				if argString(args, "sortBy") == "name" {
					sortBy = rules.SortByName
				}
				return jsonResult(srv.ListAccountingRules(filter, sortBy, argInt(args, "limit", 0)))
			},
		},
		{
			mcp.NewTool("add_account",
				mcp.WithDescription("Create a new chart-of-accounts entry"),
				mcp.WithString("name", mcp.Description("Account name"), mcp.Required()),
				mcp.WithString("type", mcp.Description("Account type, e.g. Expense, Revenue, CurrentAsset"), mcp.Required()),
				mcp.WithBoolean("gst", mcp.Description("Whether this account is GST-applicable")),
				mcp.WithString("gstType", mcp.Description("GST treatment, e.g. GSTOnExpenses, BASExcluded"), mcp.Required()),
				mcp.WithString("code", mcp.Description("Explicit three-digit account code")),
				mcp.WithBoolean("suggestCode", mcp.Description("Auto-assign the next available code in the type's band when code is omitted")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				name, err := requireString(args, "name")
				if err != nil {
					return nil, err
				}
				typeStr, err := requireString(args, "type")
				if err != nil {
					return nil, err
				}
				gstType, err := requireString(args, "gstType")
				if err != nil {
					return nil, err
				}
				a, err := srv.AddAccount(name,
					chartofaccounts.AccountType(typeStr),
					argBool(args, "gst", false),
					chartofaccounts.GSTTreatment(gstType),
					argString(args, "code"),
					argBool(args, "suggestCode", false))
				if err != nil {
					return nil, err
				}
				return jsonResult(a)
			},
		},
		{
			mcp.NewTool("generate_balance_sheet_audit",
				mcp.WithDescription("Generate a balance-sheet audit report as plaintext"),
				mcp.WithString("asOfDate", mcp.Description("As-of date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithBoolean("includeZeroBalances", mcp.Description("Include zero-balance accounts")),
				mcp.WithString("sortBy", mcp.Description("account_code (default), account_name, balance, or account_type")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				asOf, err := requireDate(args, "asOfDate")
				if err != nil {
					return nil, err
				}
				return mcpserver.TextResult(srv.GenerateBalanceSheetAudit(asOf, argBool(args, "includeZeroBalances", false), sortOrder(args))), nil
			},
		},
		{
			mcp.NewTool("generate_profit_loss_audit",
				mcp.WithDescription("Generate a profit-and-loss audit report as plaintext"),
				mcp.WithString("startDate", mcp.Description("Inclusive start date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithString("endDate", mcp.Description("Inclusive end date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithBoolean("includeZeroBalances", mcp.Description("Include zero-activity accounts")),
				mcp.WithString("sortBy", mcp.Description("account_code (default), account_name, or amount")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				start, err := requireDate(args, "startDate")
				if err != nil {
					return nil, err
				}
				end, err := requireDate(args, "endDate")
				if err != nil {
					return nil, err
				}
				return mcpserver.TextResult(srv.GenerateProfitLossAudit(start, end, argBool(args, "includeZeroBalances", false), sortOrder(args))), nil
			},
		},
		{
			mcp.NewTool("generate_trial_balance_audit",
				mcp.WithDescription("Generate a trial-balance audit report as plaintext"),
				mcp.WithString("asOfDate", mcp.Description("As-of date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithBoolean("includeZeroBalances", mcp.Description("Include zero-balance accounts")),
				mcp.WithString("sortBy", mcp.Description("account_code (default), account_name, or balance")),
				mcp.WithBoolean("groupByType", mcp.Description("Group rows by account type instead of sortBy")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				asOf, err := requireDate(args, "asOfDate")
				if err != nil {
					return nil, err
				}
				return mcpserver.TextResult(srv.GenerateTrialBalanceAudit(asOf, argBool(args, "includeZeroBalances", false), sortOrder(args), argBool(args, "groupByType", false))), nil
			},
		},
		{
			mcp.NewTool("generate_cash_flow_audit",
				mcp.WithDescription("Generate a cash-flow audit report as plaintext"),
				mcp.WithString("startDate", mcp.Description("Inclusive start date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithString("endDate", mcp.Description("Inclusive end date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithString("cashAccountCodes", mcp.Description("Comma-separated bank account codes (default: all bank accounts)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				start, err := requireDate(args, "startDate")
				if err != nil {
					return nil, err
				}
				end, err := requireDate(args, "endDate")
				if err != nil {
					return nil, err
				}
				return mcpserver.TextResult(srv.GenerateCashFlowAudit(start, end, argStringList(args, "cashAccountCodes"))), nil
			},
		},
		{
			mcp.NewTool("generate_account_activity_audit",
				mcp.WithDescription("Generate an account-activity audit report as plaintext"),
				mcp.WithString("accountCodes", mcp.Description("Comma-separated account codes"), mcp.Required()),
				mcp.WithString("startDate", mcp.Description("Inclusive start date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithString("endDate", mcp.Description("Inclusive end date, yyyy-MM-dd"), mcp.Required()),
				mcp.WithBoolean("includeRunningBalance", mcp.Description("Include a running balance column")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				codes := argStringList(args, "accountCodes")
				if len(codes) == 0 {
					return nil, errs.Validation("accountCodes", "accountCodes is required")
				}
				start, err := requireDate(args, "startDate")
				if err != nil {
					return nil, err
				}
				end, err := requireDate(args, "endDate")
				if err != nil {
					return nil, err
				}
				return mcpserver.TextResult(srv.GenerateAccountActivityAudit(codes, start, end, argBool(args, "includeRunningBalance", true))), nil
			},
		},
		{
			mcp.NewTool("regenerate_reports",
				mcp.WithDescription("Recompute audit reports and optionally create a ZIP backup of named directories"),
				mcp.WithString("reason", mcp.Description("Why reports are being regenerated"), mcp.Required()),
				mcp.WithBoolean("createZipBackup", mcp.Description("Create a timestamped ZIP backup under backups/")),
				mcp.WithString("backupDirectories", mcp.Description("Comma-separated directories to include in the backup (default: inputs,data)")),
			),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := req.GetArguments()
				reason, err := requireString(args, "reason")
				if err != nil {
					return nil, err
				}
				dirs := argStringList(args, "backupDirectories")
				if len(dirs) == 0 {
					dirs = []string{"inputs", "data"}
				}
				result, err := srv.RegenerateReports(reason, argBool(args, "createZipBackup", false), dirs, backupsDir)
				if err != nil {
					return nil, err
				}
				return jsonResult(result)
			},
		},
	}
}

func sortOrder(args map[string]interface{}) report.SortOrder {
	v := argString(args, "sortBy")
	if v == "" {
		return report.SortAccountCode
	}
	return report.SortOrder(v)
}
