package economics

import (
	"testing"

	"github.com/shopspring/decimal"

	"rehabtrack/internal/models"
)

// The worked example every view must agree on: 300k ARV flip with a 40k
// underwritten budget and 10% contingency.
func TestSummarize_WorkedExample(t *testing.T) {
	p := models.Project{
		ARV:            decimal.NewFromInt(300000),
		PurchasePrice:  decimal.NewFromInt(150000),
		ClosingCost:    decimal.NewFromInt(5000),
		HoldingMonthly: decimal.NewFromInt(1000),
		HoldingMonths:  4,
		SellingCostPct: decimal.NewFromInt(8),
		ContingencyPct: decimal.NewFromInt(10),
	}
	items := []models.BudgetItem{
		{Category: models.CategoryKitchen, UnderwritingAmount: decimal.NewFromInt(40000), ForecastAmount: decimal.NewFromInt(45000)},
	}
	s := Summarize(p, items)

	if s.Budget.UnderwritingTotal.Cmp(decimal.NewFromInt(40000)) != 0 {
		t.Fatalf("underwriting_total=%s want=40000", s.Budget.UnderwritingTotal.String())
	}
	if s.Budget.UnderwritingWithContingency.Cmp(decimal.NewFromInt(44000)) != 0 {
		t.Fatalf("underwriting_with_contingency=%s want=44000", s.Budget.UnderwritingWithContingency.String())
	}
	if s.HoldingCostsTotal.Cmp(decimal.NewFromInt(4000)) != 0 {
		t.Fatalf("holding_costs_total=%s want=4000", s.HoldingCostsTotal.String())
	}
	if s.SellingCosts.Cmp(decimal.NewFromInt(24000)) != 0 {
		t.Fatalf("selling_costs=%s want=24000", s.SellingCosts.String())
	}
	if s.Underwriting.TotalInvestment.Cmp(decimal.NewFromInt(227000)) != 0 {
		t.Fatalf("total_investment=%s want=227000", s.Underwriting.TotalInvestment.String())
	}
	if s.Underwriting.GrossProfit.Cmp(decimal.NewFromInt(73000)) != 0 {
		t.Fatalf("gross_profit=%s want=73000", s.Underwriting.GrossProfit.String())
	}
	if got := s.Underwriting.ROIPercent.Round(2); got.Cmp(decimal.NewFromFloat(32.16)) != 0 {
		t.Fatalf("roi=%s want=32.16", got.String())
	}
	if s.MAO.Cmp(decimal.NewFromInt(166000)) != 0 {
		t.Fatalf("mao=%s want=166000", s.MAO.String())
	}
	if s.Spread.Cmp(decimal.NewFromInt(16000)) != 0 {
		t.Fatalf("spread=%s want=16000", s.Spread.String())
	}
	if !s.UnderMAO {
		t.Fatalf("purchase under MAO, want under_mao=true")
	}
	if s.ActivePhase != PhaseForecast {
		t.Fatalf("active=%s want=%s", s.ActivePhase, PhaseForecast)
	}
}

func TestSummarize_ZeroItemIdentity(t *testing.T) {
	p := models.Project{
		ARV:            decimal.NewFromInt(200000),
		PurchasePrice:  decimal.NewFromInt(120000),
		ClosingCost:    decimal.NewFromInt(3000),
		HoldingMonthly: decimal.NewFromInt(800),
		HoldingMonths:  3,
		SellingCostPct: decimal.NewFromInt(6),
		ContingencyPct: decimal.NewFromInt(15),
	}
	s := Summarize(p, nil)

	// gross = arv - (purchase + closing + holding + selling), no rehab.
	selling := decimal.NewFromInt(12000)
	holding := decimal.NewFromInt(2400)
	want := p.ARV.Sub(p.PurchasePrice.Add(p.ClosingCost).Add(holding).Add(selling))
	if s.Underwriting.GrossProfit.Cmp(want) != 0 {
		t.Fatalf("gross_profit=%s want=%s", s.Underwriting.GrossProfit.String(), want.String())
	}
	if !s.Budget.UnderwritingContingency.IsZero() {
		t.Fatalf("contingency=%s want=0 on empty budget", s.Budget.UnderwritingContingency.String())
	}
}

func TestSummarize_ROIDivideByZeroGuard(t *testing.T) {
	s := Summarize(models.Project{}, nil)
	if !s.Underwriting.ROIPercent.IsZero() || !s.Forecast.ROIPercent.IsZero() || !s.Actual.ROIPercent.IsZero() {
		t.Fatalf("roi on zero investment=%s/%s/%s want all zero",
			s.Underwriting.ROIPercent.String(), s.Forecast.ROIPercent.String(), s.Actual.ROIPercent.String())
	}
}

func TestSummarize_NoContingencyOnActual(t *testing.T) {
	p := models.Project{
		ARV:            decimal.NewFromInt(300000),
		ContingencyPct: decimal.NewFromInt(10),
	}
	items := []models.BudgetItem{
		{Category: models.CategoryBath, UnderwritingAmount: decimal.NewFromInt(40000), ActualAmount: dptr(decimal.NewFromInt(45000))},
	}
	s := Summarize(p, items)
	if s.Actual.RehabBudget.Cmp(decimal.NewFromInt(45000)) != 0 {
		t.Fatalf("actual rehab budget=%s want=45000 with no contingency", s.Actual.RehabBudget.String())
	}
	if s.Budget.ActiveBudget.Cmp(decimal.NewFromInt(45000)) != 0 {
		t.Fatalf("active budget=%s want=45000", s.Budget.ActiveBudget.String())
	}
}

func TestSummarize_MAOIgnoresForecastAndActual(t *testing.T) {
	p := models.Project{
		ARV:            decimal.NewFromInt(300000),
		ContingencyPct: decimal.NewFromInt(10),
	}
	base := []models.BudgetItem{
		{Category: models.CategoryRoof, UnderwritingAmount: decimal.NewFromInt(40000)},
	}
	drifted := []models.BudgetItem{
		{Category: models.CategoryRoof, UnderwritingAmount: decimal.NewFromInt(40000), ForecastAmount: decimal.NewFromInt(90000), ActualAmount: dptr(decimal.NewFromInt(95000))},
	}
	a := Summarize(p, base)
	b := Summarize(p, drifted)
	if a.MAO.Cmp(b.MAO) != 0 {
		t.Fatalf("mao moved with forecast/actual: %s vs %s", a.MAO.String(), b.MAO.String())
	}
	if a.MAO.Cmp(decimal.NewFromInt(166000)) != 0 {
		t.Fatalf("mao=%s want=166000", a.MAO.String())
	}
}

func TestSummarize_OverMAO(t *testing.T) {
	p := models.Project{
		ARV:           decimal.NewFromInt(200000),
		PurchasePrice: decimal.NewFromInt(150000),
	}
	items := []models.BudgetItem{
		{Category: models.CategoryFoundation, UnderwritingAmount: decimal.NewFromInt(30000)},
	}
	s := Summarize(p, items)
	// mao = 140000 - 30000 = 110000, spread = -40000.
	if s.Spread.Cmp(decimal.NewFromInt(-40000)) != 0 {
		t.Fatalf("spread=%s want=-40000", s.Spread.String())
	}
	if s.UnderMAO {
		t.Fatalf("purchase over MAO, want under_mao=false")
	}
}

func TestROIBand(t *testing.T) {
	cases := []struct {
		roi  decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(25), ROIBandGood},
		{decimal.NewFromInt(15), ROIBandGood},
		{decimal.NewFromFloat(14.99), ROIBandCaution},
		{decimal.NewFromInt(10), ROIBandCaution},
		{decimal.NewFromFloat(9.5), ROIBandPoor},
		{decimal.NewFromInt(-5), ROIBandPoor},
	}
	for _, tc := range cases {
		if got := ROIBand(tc.roi); got != tc.want {
			t.Fatalf("band(%s)=%s want=%s", tc.roi.String(), got, tc.want)
		}
	}
}

func TestDealSummary_ActiveScenario(t *testing.T) {
	p := models.Project{ARV: decimal.NewFromInt(100000)}
	items := []models.BudgetItem{
		{Category: models.CategoryOther, UnderwritingAmount: decimal.NewFromInt(10000), ForecastAmount: decimal.NewFromInt(12000)},
	}
	s := Summarize(p, items)
	if got := s.ActiveScenario(); got.Phase != PhaseForecast {
		t.Fatalf("active scenario phase=%s want=%s", got.Phase, PhaseForecast)
	}
}
