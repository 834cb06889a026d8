package chartofaccounts

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/fsatomic"
)

// accountTypeBands gives the advisory code-range guidance from spec §3:
// revenue 100s, COGS 200s, expenses 300s, assets 500s/600s, liabilities
// 700s, equity 800s. It drives auto-assignment when a code is omitted but
// is never enforced on explicit codes.
var accountTypeBands = map[AccountType]string{
	Revenue:          "1",
	OtherIncome:      "1",
	COGS:             "2",
	Expense:          "3",
	Depreciation:     "3",
	CurrentAsset:     "5",
	Inventory:        "5",
	FixedAsset:       "6",
	CurrentLiability: "7",
	Equity:           "8",
}

// Chart is the in-memory Chart of Accounts with exclusive-writer,
// multiple-reader semantics (§5).
type Chart struct {
	mu       sync.RWMutex
	byCode   map[string]Account
	bootstrap bool
}

// New returns an empty chart with bootstrap mode off; bank-range accounts
// can only be added after AllowBankBootstrap(true) (§4.B).
func New() *Chart {
	return &Chart{byCode: make(map[string]Account)}
}

// AllowBankBootstrap flips the chart into bootstrap mode for the duration
// of the caller's loader; the caller should reset it afterward.
func (c *Chart) AllowBankBootstrap(allow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bootstrap = allow
}

// GetAccount returns the account with the given code.
func (c *Chart) GetAccount(code string) (Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byCode[code]
	if !ok {
		return Account{}, errs.NotFound("no account with code " + code)
	}
	return a, nil
}

// GetAccountsByType returns all accounts of the given type, sorted by code.
func (c *Chart) GetAccountsByType(t AccountType) []Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Account
	for _, a := range c.byCode {
		if a.Type == t {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// GetAllAccounts returns every account, sorted by code.
func (c *Chart) GetAllAccounts() []Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Account, 0, len(c.byCode))
	for _, a := range c.byCode {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// IsAccountCodeAvailable reports whether code is not yet assigned.
func (c *Chart) IsAccountCodeAvailable(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.byCode[code]
	return !ok
}

// GetNextAvailableAccountCode scans upward from startingFrom within the
// same hundred-band, per the advisory ranges in spec §3.
func (c *Chart) GetNextAvailableAccountCode(startingFrom string) (string, error) {
	if !IsValidCodeFormat(startingFrom) {
		return "", errs.Validation("startingFrom", "must be a three digit code")
	}
	band := startingFrom[0]
	c.mu.RLock()
	defer c.mu.RUnlock()
	for n := int(startingFrom[1]-'0')*10 + int(startingFrom[2]-'0'); n <= 99; n++ {
		code := string(band) + pad2(n)
		if _, ok := c.byCode[code]; !ok {
			return code, nil
		}
	}
	return "", errs.New(errs.KindValidation, "no available account code in band "+string(band)+"00")
}

func pad2(n int) string {
	if n < 10 {
		return "0" + itoa(n)
	}
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// SuggestCodeForType returns the next available code in the type's
// advisory band, starting at band+"01".
func (c *Chart) SuggestCodeForType(t AccountType) (string, error) {
	band, ok := accountTypeBands[t]
	if !ok {
		return "", errs.Validation("type", "type "+string(t)+" has no advisory code band")
	}
	return c.GetNextAvailableAccountCode(band + "01")
}

// AddAccount adds a new account. Fails with ValidationError on malformed
// codes, and with Protected when a non-bootstrap caller targets the bank
// range (§4.B).
func (c *Chart) AddAccount(a Account) error {
	if err := validate(a); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if IsBankCode(a.Code) && !c.bootstrap {
		return errs.Protected("cannot create accounts in the bank range", "bank range 001-099 is protected")
	}
	if _, exists := c.byCode[a.Code]; exists {
		return errs.Conflict("account code "+a.Code+" already exists", "use a different code")
	}
	c.byCode[a.Code] = a
	return nil
}

// Load replaces the chart's contents from a JSON array file at path.
// Missing files yield an empty chart, matching a fresh bootstrap.
func (c *Chart) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.IOError("failed to read chart of accounts", err)
	}
	accounts, err := Decode(data)
	if err != nil {
		return err
	}
	c.ReplaceAll(accounts)
	return nil
}

// Save writes the chart as a JSON array, sorted by code, atomically
// (write-temp-then-rename, §5).
func (c *Chart) Save(path string) error {
	data, err := Encode(c.GetAllAccounts())
	if err != nil {
		return err
	}
	return fsatomic.Write(path, data)
}

// Encode serializes accounts the same way Save writes them: a JSON array
// indented with two spaces. The company file does not call it; it embeds
// the accounts inside its own document.
func Encode(accounts []Account) ([]byte, error) {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return nil, errs.IOError("failed to marshal chart of accounts", err)
	}
	return data, nil
}

// Decode parses a JSON account array the same way Load does.
func Decode(data []byte) ([]Account, error) {
	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, errs.IOError("failed to parse chart of accounts", err)
	}
	return accounts, nil
}

// ReplaceAll swaps the chart's contents for accounts, as Load does.
func (c *Chart) ReplaceAll(accounts []Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byCode = make(map[string]Account, len(accounts))
	for _, a := range accounts {
		c.byCode[a.Code] = a
	}
}
