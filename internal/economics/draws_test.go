package economics

import (
	"testing"

	"github.com/shopspring/decimal"

	"rehabtrack/internal/models"
)

func TestRollupDraws_Empty(t *testing.T) {
	r := RollupDraws(nil, decimal.NewFromInt(50000))
	if !r.TotalPaid.IsZero() || !r.TotalPending.IsZero() {
		t.Fatalf("paid=%s pending=%s want both zero", r.TotalPaid.String(), r.TotalPending.String())
	}
	if r.Remaining.Cmp(decimal.NewFromInt(50000)) != 0 {
		t.Fatalf("remaining=%s want=50000", r.Remaining.String())
	}
	if r.NextDrawNumber != 1 {
		t.Fatalf("next_draw_number=%d want=1", r.NextDrawNumber)
	}
}

func TestRollupDraws_StatusBuckets(t *testing.T) {
	draws := []models.Draw{
		{DrawNumber: 1, Amount: decimal.NewFromInt(10000), Status: models.DrawStatusPaid},
		{DrawNumber: 2, Amount: decimal.NewFromInt(7500), Status: models.DrawStatusApproved},
		{DrawNumber: 3, Amount: decimal.NewFromInt(5000), Status: models.DrawStatusPending},
	}
	r := RollupDraws(draws, decimal.NewFromInt(44000))
	if r.TotalPaid.Cmp(decimal.NewFromInt(10000)) != 0 {
		t.Fatalf("total_paid=%s want=10000", r.TotalPaid.String())
	}
	// Approved counts as pending money until paid.
	if r.TotalPending.Cmp(decimal.NewFromInt(12500)) != 0 {
		t.Fatalf("total_pending=%s want=12500", r.TotalPending.String())
	}
	if r.Remaining.Cmp(decimal.NewFromInt(21500)) != 0 {
		t.Fatalf("remaining=%s want=21500", r.Remaining.String())
	}
	if r.NextDrawNumber != 4 {
		t.Fatalf("next_draw_number=%d want=4", r.NextDrawNumber)
	}
}

func TestRollupDraws_NegativeRemaining(t *testing.T) {
	draws := []models.Draw{
		{DrawNumber: 1, Amount: decimal.NewFromInt(30000), Status: models.DrawStatusPaid},
		{DrawNumber: 2, Amount: decimal.NewFromInt(25000), Status: models.DrawStatusPending},
	}
	r := RollupDraws(draws, decimal.NewFromInt(44000))
	if r.Remaining.Cmp(decimal.NewFromInt(-11000)) != 0 {
		t.Fatalf("remaining=%s want=-11000, overruns must not clamp", r.Remaining.String())
	}
}

func TestNextDrawNumber_SkipsGaps(t *testing.T) {
	draws := []models.Draw{
		{DrawNumber: 1},
		{DrawNumber: 2},
		{DrawNumber: 5},
	}
	if got := NextDrawNumber(draws); got != 6 {
		t.Fatalf("next_draw_number=%d want=6", got)
	}
}
