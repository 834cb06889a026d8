package accountant

import (
	"ai-accounting-mcp/internal/rules"
	"ai-accounting-mcp/internal/supplier"
)

// CreateSupplier adds a new supplier (§4.E/§4.G).
func (s *Server) CreateSupplier(name, supplies, account string) (supplier.Supplier, error) {
	sup, err := s.Suppliers.Create(name, supplies, account)
	if err != nil {
		return supplier.Supplier{}, err
	}
	if err := s.persist(); err != nil {
		return supplier.Supplier{}, err
	}
	return sup, nil
}

// ReadSupplier looks up a supplier by query, fuzzy unless exactMatch.
func (s *Server) ReadSupplier(query string, exactMatch bool) (supplier.Supplier, error) {
	return s.Suppliers.Read(query, exactMatch)
}

// UpdateSupplier applies non-nil field changes to the supplier named name.
func (s *Server) UpdateSupplier(name string, supplies, account *string) (supplier.Supplier, error) {
	sup, err := s.Suppliers.Update(name, supplies, account)
	if err != nil {
		return supplier.Supplier{}, err
	}
	if err := s.persist(); err != nil {
		return supplier.Supplier{}, err
	}
	return sup, nil
}

// DeleteSupplier removes the supplier named name. Requires confirm=true.
func (s *Server) DeleteSupplier(name string, confirm bool) error {
	if err := s.Suppliers.Delete(name, confirm); err != nil {
		return err
	}
	return s.persist()
}

// ListSuppliers returns suppliers matching filter.
func (s *Server) ListSuppliers(filter supplier.ListFilter, sortBy supplier.SortOrder, limit int) []supplier.Supplier {
	return s.Suppliers.List(filter, sortBy, limit)
}

// AddAccountingRule adds a new rule (§4.F/§4.G).
func (s *Server) AddAccountingRule(r rules.Rule) (rules.Rule, error) {
	added, err := s.Rules.Add(r)
	if err != nil {
		return rules.Rule{}, err
	}
	if err := s.persist(); err != nil {
		return rules.Rule{}, err
	}
	return added, nil
}

// UpdateAccountingRule applies non-nil field changes to the rule named name.
func (s *Server) UpdateAccountingRule(name string, priority *int, condition, action, accountCode, notes *string) (rules.Rule, error) {
	r, err := s.Rules.Update(name, priority, condition, action, accountCode, notes)
	if err != nil {
		return rules.Rule{}, err
	}
	if err := s.persist(); err != nil {
		return rules.Rule{}, err
	}
	return r, nil
}

// DeleteAccountingRule removes the rule named name. Requires confirm=true.
func (s *Server) DeleteAccountingRule(name string, confirm bool) error {
	if err := s.Rules.Delete(name, confirm); err != nil {
		return err
	}
	return s.persist()
}

// ListAccountingRules returns rules matching filter.
func (s *Server) ListAccountingRules(filter rules.ListFilter, sortBy rules.SortOrder, limit int) []rules.Rule {
	return s.Rules.List(filter, sortBy, limit)
}
