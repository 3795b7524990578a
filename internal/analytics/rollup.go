package analytics

import "github.com/shopspring/decimal"

// conversionRate returns conversions as a percentage of impressions, with no
// impressions defined as 0 rather than a division error.
func conversionRate(impressions, conversions int64) float64 {
	if impressions == 0 {
		return 0
	}
	rate, _ := decimal.NewFromInt(conversions).
		Div(decimal.NewFromInt(impressions)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return rate
}

// buildSummary folds per-rule aggregate rows into the report shape.
func buildSummary(rows []ruleAggregateRow) Summary {
	summary := Summary{PerRule: make([]RuleSummary, 0, len(rows))}
	totalRevenue := decimal.Zero

	for _, row := range rows {
		summary.Impressions += row.Impressions
		summary.Conversions += row.Conversions
		totalRevenue = totalRevenue.Add(row.Revenue)

		summary.PerRule = append(summary.PerRule, RuleSummary{
			RuleID:         row.RuleID,
			RuleName:       row.RuleName,
			IsEnabled:      row.IsEnabled,
			Impressions:    row.Impressions,
			Conversions:    row.Conversions,
			ConversionRate: conversionRate(row.Impressions, row.Conversions),
			Revenue:        row.Revenue.StringFixed(2),
		})
	}

	summary.ConversionRate = conversionRate(summary.Impressions, summary.Conversions)
	summary.TotalRevenue = totalRevenue.StringFixed(2)
	return summary
}
