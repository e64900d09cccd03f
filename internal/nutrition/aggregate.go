package nutrition

import "github.com/shopspring/decimal"

// Macros are the four tracked values. On a food item they are per 100g; on a
// DaySummary they are totals.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
}

// Portion is one logged quantity of a food.
type Portion struct {
	Per100g   Macros
	QuantityG float64
}

// DaySummary holds a day's totals.
type DaySummary struct {
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`
}

// Ratio is the percentage share of each macro by weight.
type Ratio struct {
	ProteinPct float64 `json:"protein_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	FatPct     float64 `json:"fat_pct"`
}

// Summarize scales every portion's per-100g values by quantity/100 and sums
// them. Returns ok=false when there are no portions, so "nothing logged" is
// distinguishable from "logged zero calories".
func Summarize(portions []Portion) (DaySummary, bool) {
	if len(portions) == 0 {
		return DaySummary{}, false
	}

	var cal, prot, carbs, fat decimal.Decimal
	for _, p := range portions {
		// quantity/100 via Shift keeps the scale factor exact.
		factor := decimal.NewFromFloat(p.QuantityG).Shift(-2)
		cal = cal.Add(factor.Mul(decimal.NewFromFloat(p.Per100g.Calories)))
		prot = prot.Add(factor.Mul(decimal.NewFromFloat(p.Per100g.Protein)))
		carbs = carbs.Add(factor.Mul(decimal.NewFromFloat(p.Per100g.Carbs)))
		fat = fat.Add(factor.Mul(decimal.NewFromFloat(p.Per100g.Fat)))
	}

	return DaySummary{
		TotalCalories: cal.InexactFloat64(),
		TotalProtein:  prot.InexactFloat64(),
		TotalCarbs:    carbs.InexactFloat64(),
		TotalFat:      fat.InexactFloat64(),
	}, true
}

// MacroRatio returns protein/carbs/fat percentages of their combined weight.
// ok=false when the combined weight is zero.
func MacroRatio(s DaySummary) (Ratio, bool) {
	total := s.TotalProtein + s.TotalCarbs + s.TotalFat
	if total <= 0 {
		return Ratio{}, false
	}
	return Ratio{
		ProteinPct: s.TotalProtein / total * 100,
		CarbsPct:   s.TotalCarbs / total * 100,
		FatPct:     s.TotalFat / total * 100,
	}, true
}
