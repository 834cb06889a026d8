package chartofaccounts

// Bootstrap adds the mandatory Uncategorized account (code 999) through
// the ordinary AddAccount path when the chart does not already hold it,
// whatever other accounts are present. 999 is outside the bank range, so
// no bootstrap flag is needed.
func Bootstrap(c *Chart) error {
	if !c.IsAccountCodeAvailable(UncategorizedCode) {
		return nil
	}
	return c.AddAccount(Account{
		Code:          UncategorizedCode,
		Name:          "Uncategorized",
		Type:          CurrentAsset,
		GSTApplicable: false,
		GSTTreatment:  BASExcluded,
	})
}
