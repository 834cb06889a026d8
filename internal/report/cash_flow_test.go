package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCashFlowReportsOpeningAndClosingBalance(t *testing.T) {
	chart, j := testFixture(t)
	out := CashFlow(chart, j, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), nil)
	require.Contains(t, out, "001 Everyday Account")
	require.Contains(t, out, "Opening balance: 0.00")
	require.Contains(t, out, "Closing balance: -5.50")
	require.Contains(t, out, "Coffee Shop")
}

func TestCashFlowFiltersByRequestedAccountCodes(t *testing.T) {
	chart, j := testFixture(t)
	out := CashFlow(chart, j, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), []string{"999"})
	require.NotContains(t, out, "001 Everyday Account")
}
