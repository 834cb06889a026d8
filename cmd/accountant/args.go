package main

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ai-accounting-mcp/internal/errs"
)

// argString/argFloat/argBool/argStringList mirror the teacher's loose
// "arguments[key].(T)" style of reading MCP tool arguments, centralized
// here so every handler parses the same way.

func argString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func requireString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", errs.Validation(key, key+" is required")
	}
	return v, nil
}

func argFloat(args map[string]interface{}, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func argInt(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func argBool(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func argDecimal(args map[string]interface{}, key string) (decimal.Decimal, error) {
	s, err := requireString(args, key)
	if err != nil {
		if v, ok := args[key].(float64); ok {
			return decimal.NewFromFloat(v), nil
		}
		return decimal.Decimal{}, err
	}
	d, derr := decimal.NewFromString(s)
	if derr != nil {
		return decimal.Decimal{}, errs.Validation(key, "not a valid decimal amount: "+s)
	}
	return d, nil
}

func argOptionalDate(args map[string]interface{}, key string) (*time.Time, error) {
	s := argString(args, key)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errs.Validation(key, "expected yyyy-MM-dd: "+s)
	}
	return &t, nil
}

func requireDate(args map[string]interface{}, key string) (time.Time, error) {
	s, err := requireString(args, key)
	if err != nil {
		return time.Time{}, err
	}
	t, perr := time.Parse("2006-01-02", s)
	if perr != nil {
		return time.Time{}, errs.Validation(key, "expected yyyy-MM-dd: "+s)
	}
	return t, nil
}

func argStringList(args map[string]interface{}, key string) []string {
	s := argString(args, key)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func argOptionalStringPtr(args map[string]interface{}, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func argOptionalIntPtr(args map[string]interface{}, key string) *int {
	v, ok := args[key].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}
