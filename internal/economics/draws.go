package economics

import (
	"github.com/shopspring/decimal"

	"rehabtrack/internal/models"
)

// DrawRollup totals a project's draws against its rehab budget.
type DrawRollup struct {
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`

	// BudgetBasis is the active-phase budget the draws are measured against.
	// Remaining goes negative on overrun and is never clamped.
	BudgetBasis decimal.Decimal `json:"budget_basis"`
	Remaining   decimal.Decimal `json:"remaining"`

	DrawCount      int `json:"draw_count"`
	NextDrawNumber int `json:"next_draw_number"`
}

// RollupDraws sums paid and in-flight draw amounts and the remaining budget.
// Pending and approved draws both count as committed but unpaid money.
func RollupDraws(draws []models.Draw, budgetBasis decimal.Decimal) DrawRollup {
	r := DrawRollup{
		TotalPaid:    decimal.Zero,
		TotalPending: decimal.Zero,
		BudgetBasis:  budgetBasis,
		DrawCount:    len(draws),
	}
	for _, d := range draws {
		switch d.Status {
		case models.DrawStatusPaid:
			r.TotalPaid = r.TotalPaid.Add(d.Amount)
		case models.DrawStatusPending, models.DrawStatusApproved:
			r.TotalPending = r.TotalPending.Add(d.Amount)
		}
	}
	r.Remaining = budgetBasis.Sub(r.TotalPaid).Sub(r.TotalPending)
	r.NextDrawNumber = NextDrawNumber(draws)
	return r
}

// NextDrawNumber returns max(draw_number)+1, or 1 when no draws exist.
// Numbers are never reused even if earlier draws were deleted.
func NextDrawNumber(draws []models.Draw) int {
	max := 0
	for _, d := range draws {
		if d.DrawNumber > max {
			max = d.DrawNumber
		}
	}
	return max + 1
}
