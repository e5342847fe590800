package economics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rehabtrack/internal/models"
)

// VendorAggregate is the committed budget and spend for one vendor across a
// project's budget items.
type VendorAggregate struct {
	VendorID uuid.UUID `json:"vendor_id"`

	// Budget takes each item's forecast when one was entered, else its
	// underwriting amount.
	Budget    decimal.Decimal `json:"budget"`
	Actual    decimal.Decimal `json:"actual"`
	ItemCount int             `json:"item_count"`
}

// AggregateVendors groups budget items by assigned vendor. Items with no
// vendor are skipped. Output order is by vendor id for determinism.
func AggregateVendors(items []models.BudgetItem) []VendorAggregate {
	byVendor := map[uuid.UUID]*VendorAggregate{}
	for _, it := range items {
		if it.VendorID == nil {
			continue
		}
		agg := byVendor[*it.VendorID]
		if agg == nil {
			agg = &VendorAggregate{
				VendorID: *it.VendorID,
				Budget:   decimal.Zero,
				Actual:   decimal.Zero,
			}
			byVendor[*it.VendorID] = agg
		}

		amount := it.UnderwritingAmount
		if it.ForecastAmount.GreaterThan(decimal.Zero) {
			amount = it.ForecastAmount
		}
		agg.Budget = agg.Budget.Add(amount)
		if it.ActualAmount != nil {
			agg.Actual = agg.Actual.Add(*it.ActualAmount)
		}
		agg.ItemCount++
	}

	out := make([]VendorAggregate, 0, len(byVendor))
	for _, agg := range byVendor {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VendorID.String() < out[j].VendorID.String()
	})
	return out
}
