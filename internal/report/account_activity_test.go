package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccountActivityListsTransactionsForAccount(t *testing.T) {
	chart, j := testFixture(t)
	out := AccountActivity(chart, j, []string{"310"}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), true)
	require.Contains(t, out, "310 Office Supplies")
	require.Contains(t, out, "Coffee Shop")
	require.Contains(t, out, "5.50")
}

func TestAccountActivityReportsUnknownAccount(t *testing.T) {
	chart, j := testFixture(t)
	out := AccountActivity(chart, j, []string{"999"}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), false)
	require.Contains(t, out, "999: unknown account")
}
