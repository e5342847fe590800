// Package economics computes every derived financial figure for a rehab
// deal: budget roll-ups per phase, contingency, variances, carrying costs,
// per-phase deal scenarios, the 70% maximum allowable offer, draw totals and
// per-vendor aggregates. All functions are pure and safe for concurrent use;
// numeric edge cases degrade to zero instead of erroring.
package economics

import (
	"github.com/shopspring/decimal"

	"rehabtrack/internal/models"
)

// Budget phases. Underwriting is the pre-offer estimate, forecast the
// post-walkthrough bid reality, actual the billed spend.
const (
	PhaseUnderwriting = "underwriting"
	PhaseForecast     = "forecast"
	PhaseActual       = "actual"
)

var hundred = decimal.NewFromInt(100)

// CategorySubtotal carries the three phase sums for one budget category.
type CategorySubtotal struct {
	Category     string          `json:"category"`
	Underwriting decimal.Decimal `json:"underwriting"`
	Forecast     decimal.Decimal `json:"forecast"`
	Actual       decimal.Decimal `json:"actual"`
	ItemCount    int             `json:"item_count"`
}

// WorkProgress counts budget items per work status.
type WorkProgress struct {
	ItemCount  int `json:"item_count"`
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Complete   int `json:"complete"`
	OnHold     int `json:"on_hold"`
	Cancelled  int `json:"cancelled"`

	PercentComplete decimal.Decimal `json:"percent_complete"`
	// SpendProgress is actual spend over the active budget, as a percent.
	SpendProgress decimal.Decimal `json:"spend_progress"`
}

// BudgetRollup is the full budget view of one project: totals per phase,
// contingency, the active phase, variances, per-category subtotals and work
// progress.
type BudgetRollup struct {
	UnderwritingTotal decimal.Decimal `json:"underwriting_total"`
	ForecastTotal     decimal.Decimal `json:"forecast_total"`
	ActualTotal       decimal.Decimal `json:"actual_total"`

	ContingencyPercent          decimal.Decimal `json:"contingency_percent"`
	UnderwritingContingency     decimal.Decimal `json:"underwriting_contingency"`
	ForecastContingency         decimal.Decimal `json:"forecast_contingency"`
	UnderwritingWithContingency decimal.Decimal `json:"underwriting_with_contingency"`
	ForecastWithContingency     decimal.Decimal `json:"forecast_with_contingency"`

	// ActivePhase: actual when any real spend exists, else forecast when one
	// was entered, else underwriting. ActiveBudget carries contingency for
	// the estimate phases and never for actual.
	ActivePhase  string          `json:"active_phase"`
	ActiveBudget decimal.Decimal `json:"active_budget"`

	ForecastVsUnderwriting        decimal.Decimal `json:"forecast_vs_underwriting"`
	ForecastVsUnderwritingPercent decimal.Decimal `json:"forecast_vs_underwriting_percent"`
	ActualVsBaseline              decimal.Decimal `json:"actual_vs_baseline"`
	ActualVsUnderwriting          decimal.Decimal `json:"actual_vs_underwriting"`
	ActualVsUnderwritingPercent   decimal.Decimal `json:"actual_vs_underwriting_percent"`

	Categories []CategorySubtotal `json:"categories"`
	Progress   WorkProgress       `json:"progress"`
}

// RollupBudget sums a project's budget items into phase totals, per-category
// subtotals and variances. Every category from the fixed list appears in the
// output even with no items. Nil actuals count as zero in sums; an all-nil
// actual column keeps the actual phase inactive.
func RollupBudget(items []models.BudgetItem, contingencyPercent decimal.Decimal) BudgetRollup {
	r := BudgetRollup{
		UnderwritingTotal:  decimal.Zero,
		ForecastTotal:      decimal.Zero,
		ActualTotal:        decimal.Zero,
		ContingencyPercent: contingencyPercent,
	}

	byCategory := map[string]*CategorySubtotal{}
	order := models.BudgetCategories()
	r.Categories = make([]CategorySubtotal, len(order))
	for i, c := range order {
		r.Categories[i] = CategorySubtotal{
			Category:     c,
			Underwriting: decimal.Zero,
			Forecast:     decimal.Zero,
			Actual:       decimal.Zero,
		}
		byCategory[c] = &r.Categories[i]
	}

	for _, it := range items {
		actual := decimal.Zero
		if it.ActualAmount != nil {
			actual = *it.ActualAmount
		}

		r.UnderwritingTotal = r.UnderwritingTotal.Add(it.UnderwritingAmount)
		r.ForecastTotal = r.ForecastTotal.Add(it.ForecastAmount)
		r.ActualTotal = r.ActualTotal.Add(actual)

		sub := byCategory[it.Category]
		if sub == nil {
			// Unknown categories are folded into "other" so category
			// subtotals always partition the project totals.
			sub = byCategory[models.CategoryOther]
		}
		sub.Underwriting = sub.Underwriting.Add(it.UnderwritingAmount)
		sub.Forecast = sub.Forecast.Add(it.ForecastAmount)
		sub.Actual = sub.Actual.Add(actual)
		sub.ItemCount++

		switch it.Status {
		case models.ItemStatusNotStarted:
			r.Progress.NotStarted++
		case models.ItemStatusInProgress:
			r.Progress.InProgress++
		case models.ItemStatusComplete:
			r.Progress.Complete++
		case models.ItemStatusOnHold:
			r.Progress.OnHold++
		case models.ItemStatusCancelled:
			r.Progress.Cancelled++
		}
	}
	r.Progress.ItemCount = len(items)

	r.UnderwritingContingency = percentOf(r.UnderwritingTotal, contingencyPercent)
	r.ForecastContingency = percentOf(r.ForecastTotal, contingencyPercent)
	r.UnderwritingWithContingency = r.UnderwritingTotal.Add(r.UnderwritingContingency)
	r.ForecastWithContingency = r.ForecastTotal.Add(r.ForecastContingency)

	switch {
	case r.ActualTotal.GreaterThan(decimal.Zero):
		r.ActivePhase = PhaseActual
		r.ActiveBudget = r.ActualTotal
	case r.ForecastTotal.GreaterThan(decimal.Zero):
		r.ActivePhase = PhaseForecast
		r.ActiveBudget = r.ForecastWithContingency
	default:
		r.ActivePhase = PhaseUnderwriting
		r.ActiveBudget = r.UnderwritingWithContingency
	}

	r.ForecastVsUnderwriting = r.ForecastTotal.Sub(r.UnderwritingTotal)
	r.ForecastVsUnderwritingPercent = percentChange(r.ForecastVsUnderwriting, r.UnderwritingTotal)
	baseline := r.UnderwritingTotal
	if r.ForecastTotal.GreaterThan(decimal.Zero) {
		baseline = r.ForecastTotal
	}
	r.ActualVsBaseline = r.ActualTotal.Sub(baseline)
	r.ActualVsUnderwriting = r.ActualTotal.Sub(r.UnderwritingTotal)
	r.ActualVsUnderwritingPercent = percentChange(r.ActualVsUnderwriting, r.UnderwritingTotal)

	r.Progress.PercentComplete = percentChange(decimal.NewFromInt(int64(r.Progress.Complete)), decimal.NewFromInt(int64(len(items))))
	r.Progress.SpendProgress = percentChange(r.ActualTotal, r.ActiveBudget)

	return r
}

// percentOf returns total x pct/100, zero for zero inputs.
func percentOf(total, pct decimal.Decimal) decimal.Decimal {
	if total.IsZero() || pct.IsZero() {
		return decimal.Zero
	}
	return total.Mul(pct).Div(hundred)
}

// percentChange returns delta over base as a percent, zero when base is zero.
func percentChange(delta, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return delta.Div(base).Mul(hundred)
}
