package professional

// Category is a supported professional service category. Every stored record
// has exactly one; rows whose license type maps to none are rejected at
// normalize time.
type Category string

const (
	// CategoryRealtor covers real-estate brokers, managing brokers, salespersons
	// and agents.
	CategoryRealtor Category = "Realtor"
	// CategoryHomeInspector covers licensed home inspectors.
	CategoryHomeInspector Category = "Home Inspector"
	// CategoryMortgageLender is reserved for future source mappings.
	CategoryMortgageLender Category = "Mortgage Lender"
	// CategoryInsuranceAgent is reserved for future source mappings.
	CategoryInsuranceAgent Category = "Insurance Agent"
	// CategoryAttorney is reserved for future source mappings.
	CategoryAttorney Category = "Attorney"
)

// Known reports whether c is one of the supported categories.
func (c Category) Known() bool {
	switch c {
	case CategoryRealtor, CategoryHomeInspector, CategoryMortgageLender,
		CategoryInsuranceAgent, CategoryAttorney:
		return true
	}
	return false
}
