package economics

import (
	"github.com/shopspring/decimal"

	"rehabtrack/internal/models"
)

// maoMultiplier is the 70% rule: offer at most 70% of ARV minus the rehab
// budget.
var maoMultiplier = decimal.New(70, -2)

// ROI display bands.
const (
	ROIBandGood    = "good"
	ROIBandCaution = "caution"
	ROIBandPoor    = "poor"
)

var (
	roiGoodFloor    = decimal.NewFromInt(15)
	roiCautionFloor = decimal.NewFromInt(10)
)

// DealScenario is the investment outcome with one phase's rehab budget
// plugged in.
type DealScenario struct {
	Phase           string          `json:"phase"`
	RehabBudget     decimal.Decimal `json:"rehab_budget"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	ROIPercent      decimal.Decimal `json:"roi_percent"`
	ROIBand         string          `json:"roi_band"`
}

// DealSummary is the complete calculator output for one project: the budget
// roll-up, carrying costs, a scenario per phase and the acquisition-stage MAO
// check.
type DealSummary struct {
	Budget BudgetRollup `json:"budget"`

	HoldingCostsTotal decimal.Decimal `json:"holding_costs_total"`
	SellingCosts      decimal.Decimal `json:"selling_costs"`

	Underwriting DealScenario `json:"underwriting"`
	Forecast     DealScenario `json:"forecast"`
	Actual       DealScenario `json:"actual"`
	ActivePhase  string       `json:"active_phase"`

	MAO      decimal.Decimal `json:"mao"`
	Spread   decimal.Decimal `json:"spread"`
	UnderMAO bool            `json:"under_mao"`
}

// Summarize computes the full deal economics for a project from its budget
// items. The underwriting and forecast scenarios use contingency-loaded
// budgets; the actual scenario never does. MAO is always underwriting-based:
// it is an acquisition decision made before forecasts or actuals exist.
func Summarize(p models.Project, items []models.BudgetItem) DealSummary {
	budget := RollupBudget(items, p.ContingencyPct)

	s := DealSummary{
		Budget:            budget,
		HoldingCostsTotal: p.HoldingMonthly.Mul(decimal.NewFromInt(int64(p.HoldingMonths))),
		SellingCosts:      percentOf(p.ARV, p.SellingCostPct),
		ActivePhase:       budget.ActivePhase,
	}

	s.Underwriting = s.scenario(p, PhaseUnderwriting, budget.UnderwritingWithContingency)
	s.Forecast = s.scenario(p, PhaseForecast, budget.ForecastWithContingency)
	s.Actual = s.scenario(p, PhaseActual, budget.ActualTotal)

	s.MAO = p.ARV.Mul(maoMultiplier).Sub(budget.UnderwritingWithContingency)
	s.Spread = s.MAO.Sub(p.PurchasePrice)
	s.UnderMAO = s.Spread.GreaterThanOrEqual(decimal.Zero)

	return s
}

// ActiveScenario returns the scenario for the active budget phase.
func (s DealSummary) ActiveScenario() DealScenario {
	switch s.ActivePhase {
	case PhaseActual:
		return s.Actual
	case PhaseForecast:
		return s.Forecast
	default:
		return s.Underwriting
	}
}

func (s DealSummary) scenario(p models.Project, phase string, rehabBudget decimal.Decimal) DealScenario {
	investment := p.PurchasePrice.
		Add(rehabBudget).
		Add(p.ClosingCost).
		Add(s.HoldingCostsTotal).
		Add(s.SellingCosts)

	sc := DealScenario{
		Phase:           phase,
		RehabBudget:     rehabBudget,
		TotalInvestment: investment,
		GrossProfit:     p.ARV.Sub(investment),
	}
	sc.ROIPercent = percentChange(sc.GrossProfit, investment)
	sc.ROIBand = ROIBand(sc.ROIPercent)
	return sc
}

// ROIBand maps an ROI percent to its display band.
func ROIBand(roiPercent decimal.Decimal) string {
	switch {
	case roiPercent.GreaterThanOrEqual(roiGoodFloor):
		return ROIBandGood
	case roiPercent.GreaterThanOrEqual(roiCautionFloor):
		return ROIBandCaution
	default:
		return ROIBandPoor
	}
}
