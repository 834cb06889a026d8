// Package orchestrator implements the Categorization Orchestrator (§4.J):
// an MCP client (grounded on coordinator_mcp's client.Client usage) that
// batches Uncategorized (999) transactions, asks an LLM to suggest an
// account for each, and applies every suggestion through the Accountant's
// own update_transaction_account tool. It never mutates the journal
// directly.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/llmclient"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

// BatchSize is the §4.J cap on transactions processed per LLM round-trip.
const BatchSize = 10

// Suggestion is one LLM-proposed recategorization.
type Suggestion struct {
	TransactionID string `json:"transactionId"`
	AccountCode   string `json:"accountCode"`
	Justification string `json:"justification"`
}

// ItemResult records the outcome of applying one Suggestion.
type ItemResult struct {
	TransactionID string
	AccountCode   string
	Applied       bool
	Error         string
}

// BatchResult is the outcome of one batch round-trip.
type BatchResult struct {
	Suggested int
	Applied   int
	Failed    int
	Items     []ItemResult
}

// Orchestrator drives categorization batches against a running Accountant
// MCP server. Chart, Suppliers, and Rules are read-only context sources
// consulted when building the LLM prompt; only the Accountant's own
// tools ever change the journal.
type Orchestrator struct {
	accountant *client.Client
	llm        *llmclient.Client
	chart      *chartofaccounts.Chart
	suppliers  *supplier.Registry
	rules      *rules.Store
	log        *logrus.Logger
}

// New builds an Orchestrator. accountant must already be started and
// initialized (client.NewStreamableHttpClient + Initialize).
func New(accountant *client.Client, llm *llmclient.Client, chart *chartofaccounts.Chart, suppliers *supplier.Registry, ruleStore *rules.Store, log *logrus.Logger) *Orchestrator {
	return &Orchestrator{accountant: accountant, llm: llm, chart: chart, suppliers: suppliers, rules: ruleStore, log: log}
}

type transactionView struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	BankCode    string `json:"bankCode"`
}

type searchEnvelope struct {
	Success bool              `json:"success"`
	Data    []transactionView `json:"data"`
}

// fetchUncategorized calls search_transactions_by_account(999) on the
// Accountant server and returns every matching transaction.
func (o *Orchestrator) fetchUncategorized(ctx context.Context) ([]transactionView, error) {
	result, err := o.accountant.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "search_transactions_by_account",
			Arguments: map[string]interface{}{"accountCode": chartofaccounts.UncategorizedCode, "limit": 0},
		},
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindIOError, "failed to query uncategorized transactions", err)
	}
	if result.IsError {
		return nil, errs.New(errs.KindIOError, "search_transactions_by_account returned an error: "+textOf(result))
	}
	var env searchEnvelope
	if err := json.Unmarshal([]byte(textOf(result)), &env); err != nil {
		return nil, errs.Wrap(errs.KindIOError, "failed to parse search_transactions_by_account result", err)
	}
	return env.Data, nil
}

func textOf(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func chunk(views []transactionView, size int) [][]transactionView {
	var batches [][]transactionView
	for size > 0 && len(views) > 0 {
		if len(views) <= size {
			return append(batches, views)
		}
		batches = append(batches, views[:size])
		views = views[size:]
	}
	return batches
}

// Run drives every batch of uncategorized transactions to completion and
// returns one BatchResult per batch processed.
func (o *Orchestrator) Run(ctx context.Context) ([]BatchResult, error) {
	views, err := o.fetchUncategorized(ctx)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, nil
	}

	var results []BatchResult
	for _, batch := range chunk(views, BatchSize) {
		results = append(results, o.runBatch(ctx, batch))
	}
	return results, nil
}

func (o *Orchestrator) runBatch(ctx context.Context, batch []transactionView) BatchResult {
	suggestions, err := o.suggest(ctx, batch)
	if err != nil {
		o.log.WithError(err).Warn("LLM suggestion round failed; skipping batch")
		return BatchResult{}
	}

	result := BatchResult{Suggested: len(suggestions)}
	for _, s := range suggestions {
		item := ItemResult{TransactionID: s.TransactionID, AccountCode: s.AccountCode}
		if err := o.apply(ctx, s); err != nil {
			item.Error = err.Error()
			result.Failed++
			o.log.WithError(err).WithField("transactionId", s.TransactionID).Warn("failed to apply categorization suggestion")
		} else {
			item.Applied = true
			result.Applied++
		}
		result.Items = append(result.Items, item)
	}
	return result
}

// suggest asks the LLM for a (transactionId, accountCode, justification)
// tuple per transaction in batch, grounded against the current
// suppliers, accounts, and rules context built in buildPrompt.
func (o *Orchestrator) suggest(ctx context.Context, batch []transactionView) ([]Suggestion, error) {
	prompt := o.buildPrompt(batch)
	parts, err := o.llm.Complete(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	var suggestions []Suggestion
	for _, p := range parts {
		if p.FunctionCall == nil || p.FunctionCall.Name != "update_transaction_account" {
			continue
		}
		txID, _ := p.FunctionCall.Args["transactionId"].(string)
		code, _ := p.FunctionCall.Args["newAccountCode"].(string)
		justification, _ := p.FunctionCall.Args["justification"].(string)
		if txID == "" || code == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{TransactionID: txID, AccountCode: code, Justification: justification})
	}
	return suggestions, nil
}

func (o *Orchestrator) buildPrompt(batch []transactionView) string {
	prompt := "Assign each transaction below to the most appropriate account code. " +
		"Known rules and account codes are provided for context. Respond by calling " +
		"update_transaction_account(transactionId, newAccountCode, justification) for each.\n\n"
	for _, a := range o.chart.GetAllAccounts() {
		prompt += fmt.Sprintf("account %s: %s (%s)\n", a.Code, a.Name, a.Type)
	}
	for _, s := range o.suppliers.List(supplier.ListFilter{}, supplier.SortByName, 0) {
		if s.Account == "" {
			continue
		}
		prompt += fmt.Sprintf("supplier %q (%s) -> account %s\n", s.Name, s.Supplies, s.Account)
	}
	for _, r := range o.rules.List(rules.ListFilter{}, rules.SortByPriority, 0) {
		prompt += fmt.Sprintf("rule %q: %s -> %s\n", r.Name, r.Condition, r.AccountCode)
	}
	prompt += "\ntransactions:\n"
	for _, v := range batch {
		prompt += fmt.Sprintf("%s | %s | %s | bank %s\n", v.ID, v.Date, v.Description, v.BankCode)
	}
	return prompt
}

// apply invokes update_transaction_account on the Accountant server for a
// single suggestion. This is the orchestrator's only write path.
func (o *Orchestrator) apply(ctx context.Context, s Suggestion) error {
	result, err := o.accountant.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "update_transaction_account",
			Arguments: map[string]interface{}{
				"transactionId":  s.TransactionID,
				"newAccountCode": s.AccountCode,
				"notes":          "auto-categorized: " + s.Justification,
			},
		},
	})
	if err != nil {
		return errs.Wrap(errs.KindIOError, "update_transaction_account call failed", err)
	}
	if result.IsError {
		return errs.New(errs.KindIOError, "update_transaction_account returned an error: "+textOf(result))
	}
	return nil
}
