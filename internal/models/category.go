package models

// Budget categories are a fixed vocabulary. Roll-ups report a subtotal for
// every category, including the ones with no items, so the list order here is
// the order clients render.
const (
	CategoryDemo              = "demo"
	CategoryFoundation        = "foundation"
	CategoryRoof              = "roof"
	CategoryExterior          = "exterior"
	CategoryWindowsDoors      = "windows_doors"
	CategoryPlumbing          = "plumbing"
	CategoryElectrical        = "electrical"
	CategoryHVAC              = "hvac"
	CategoryInsulationDrywall = "insulation_drywall"
	CategoryPaint             = "paint"
	CategoryFlooring          = "flooring"
	CategoryKitchen           = "kitchen"
	CategoryBath              = "bath"
	CategoryLandscaping       = "landscaping"
	CategoryPermits           = "permits"
	CategoryOther             = "other"
)

var budgetCategories = []string{
	CategoryDemo,
	CategoryFoundation,
	CategoryRoof,
	CategoryExterior,
	CategoryWindowsDoors,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryHVAC,
	CategoryInsulationDrywall,
	CategoryPaint,
	CategoryFlooring,
	CategoryKitchen,
	CategoryBath,
	CategoryLandscaping,
	CategoryPermits,
	CategoryOther,
}

// BudgetCategories returns the full category list in display order.
func BudgetCategories() []string {
	out := make([]string, len(budgetCategories))
	copy(out, budgetCategories)
	return out
}

// ValidCategory reports whether name is one of the known budget categories.
func ValidCategory(name string) bool {
	for _, c := range budgetCategories {
		if c == name {
			return true
		}
	}
	return false
}
