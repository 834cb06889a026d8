// Package rules implements the Accounting Rules Store (§4.F): a
// plaintext, block-structured file of named rule records with priority.
package rules

import (
	"time"

	"github.com/google/uuid"

	"ai-accounting-mcp/internal/chartofaccounts"
)

// Rule is a named, human-readable block record (§3). ID is an internal
// identifier (Domain Stack, uuid); the externally unique key is Name.
type Rule struct {
	ID          string
	Name        string
	Created     time.Time
	Updated     time.Time
	Priority    int
	Condition   string
	Action      string
	AccountCode string
	AccountType chartofaccounts.AccountType
	GSTHandling chartofaccounts.GSTTreatment
	Notes       string
}

func newID() string { return uuid.New().String() }
