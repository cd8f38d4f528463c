package domain

// Provider is a member of staff able to perform services: either an
// employee or an owner. An empty specialty list means the provider is
// qualified for every service category.
type Provider struct {
	ID          int64
	BusinessID  int64
	Name        string
	Specialties []string // ordered; empty = all categories
}

// QualifiedFor reports whether the provider can serve the category
func (p *Provider) QualifiedFor(category string) bool {
	if len(p.Specialties) == 0 {
		return true
	}
	for _, s := range p.Specialties {
		if s == category {
			return true
		}
	}
	return false
}

// BusinessContext is the staffing snapshot of one business: its
// operating-hours table and both provider rosters. It may arrive from a
// cache or a fresh query; the engine treats both identically.
type BusinessContext struct {
	BusinessID int64
	Hours      []OperatingHours
	Employees  []Provider
	Owners     []Provider
}

// QualifiedEmployees returns the employees qualified for a category
func (c *BusinessContext) QualifiedEmployees(category string) []Provider {
	return filterQualified(c.Employees, category)
}

// QualifiedOwners returns the owners qualified for a category
func (c *BusinessContext) QualifiedOwners(category string) []Provider {
	return filterQualified(c.Owners, category)
}

func filterQualified(providers []Provider, category string) []Provider {
	result := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.QualifiedFor(category) {
			result = append(result, p)
		}
	}
	return result
}
