package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/chartofaccounts"
	"ai-accounting-mcp/internal/llmclient"
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

func TestChunkSplitsIntoBatchSizePieces(t *testing.T) {
	views := make([]transactionView, 23)
	batches := chunk(views, 10)
	require.Len(t, batches, 3)
	require.Len(t, batches[0], 10)
	require.Len(t, batches[1], 10)
	require.Len(t, batches[2], 3)
}

func TestChunkEmptyInput(t *testing.T) {
	require.Empty(t, chunk(nil, 10))
}

func newTestOrchestrator(t *testing.T, llm *llmclient.Client) *Orchestrator {
	t.Helper()
	chart := chartofaccounts.New()
	require.NoError(t, chartofaccounts.Bootstrap(chart))
	require.NoError(t, chart.AddAccount(chartofaccounts.Account{
		Code: "310", Name: "Office Supplies", Type: chartofaccounts.Expense, GSTTreatment: chartofaccounts.GSTOnExpenses,
	}))
	ruleStore := rules.New(t.TempDir()+"/rules.txt", chart)
	suppliers := supplier.New(t.TempDir() + "/suppliers.json")
	_, err := suppliers.Create("Bunnings Warehouse", "hardware", "310")
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Orchestrator{llm: llm, chart: chart, suppliers: suppliers, rules: ruleStore, log: log}
}

func TestBuildPromptListsAccountsAndTransactions(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	batch := []transactionView{
		{ID: "2024-01-01_coffee_5.00_001", Date: "2024-01-01", Description: "coffee", BankCode: "001"},
	}
	prompt := o.buildPrompt(batch)
	require.Contains(t, prompt, "account 310: Office Supplies")
	require.Contains(t, prompt, `supplier "Bunnings Warehouse" (hardware) -> account 310`)
	require.Contains(t, prompt, "2024-01-01_coffee_5.00_001")
}

func TestSuggestParsesFunctionCallParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"functionCall": map[string]interface{}{
							"name": "update_transaction_account",
							"args": map[string]interface{}{
								"transactionId":  "2024-01-01_coffee_5.00_001",
								"newAccountCode": "310",
								"justification":  "office supplies purchase",
							},
						}},
					},
				}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	llm := llmclient.New("test-key", "")
	llm.Endpoint = server.URL + "?model=%s&key=%s"
	o := newTestOrchestrator(t, llm)

	batch := []transactionView{{ID: "2024-01-01_coffee_5.00_001", Date: "2024-01-01", Description: "coffee", BankCode: "001"}}
	suggestions, err := o.suggest(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	require.Equal(t, "310", suggestions[0].AccountCode)
	require.Equal(t, "office supplies purchase", suggestions[0].Justification)
}

func TestSuggestIgnoresUnrelatedFunctionCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"functionCall": map[string]interface{}{"name": "some_other_tool", "args": map[string]interface{}{}}},
					},
				}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	llm := llmclient.New("test-key", "")
	llm.Endpoint = server.URL + "?model=%s&key=%s"
	o := newTestOrchestrator(t, llm)

	suggestions, err := o.suggest(context.Background(), []transactionView{{ID: "t1"}})
	require.NoError(t, err)
	require.Empty(t, suggestions)
}
