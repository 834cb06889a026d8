package accountant

import (
	"strconv"
	"strings"
	"time"

	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/journal"
)

// TransactionID computes the externally visible transaction ID (§4.G):
// yyyy-MM-dd_<description>_<amount>_<bankCode>.
func TransactionID(e journal.JournalEntry) string {
	return strings.Join([]string{
		e.Date.Format("2006-01-02"),
		e.Description,
		journal.Amount(e).StringFixed(2),
		journal.BankCode(e),
	}, "_")
}

// parseTransactionID recovers the date/description/amount/bankCode
// segments from id, tolerating underscores inside the description by
// treating the date as the first segment, the amount as the penultimate,
// and the bank code as the last.
func parseTransactionID(id string) (date time.Time, description string, amount string, bankCode string, err error) {
	parts := strings.Split(id, "_")
	if len(parts) < 4 {
		return time.Time{}, "", "", "", errs.Validation("transactionId", "malformed transaction ID: "+id)
	}
	date, parseErr := time.Parse("2006-01-02", parts[0])
	if parseErr != nil {
		return time.Time{}, "", "", "", errs.Validation("transactionId", "malformed date in transaction ID: "+id)
	}
	bankCode = parts[len(parts)-1]
	amount = parts[len(parts)-2]
	if _, parseErr := strconv.ParseFloat(amount, 64); parseErr != nil {
		return time.Time{}, "", "", "", errs.Validation("transactionId", "malformed amount in transaction ID: "+id)
	}
	description = strings.Join(parts[1:len(parts)-2], "_")
	return date, description, amount, bankCode, nil
}

// findByTransactionID scans j for the entry whose computed TransactionID
// equals id.
func findByTransactionID(j *journal.Journal, id string) (journal.JournalEntry, error) {
	if _, _, _, _, err := parseTransactionID(id); err != nil {
		return journal.JournalEntry{}, err
	}
	for _, e := range j.GetAllEntries() {
		if TransactionID(e) == id {
			return e, nil
		}
	}
	return journal.JournalEntry{}, errs.NotFound("no transaction with ID " + id)
}
