package processor

import (
	"math"

	"AirlineSafety/src/model"
)

// 风险分档上界(含)
const (
	lowRiskMax    = 5
	mediumRiskMax = 20
)

// ClassifyRisk 按总量分档: (0,5] 低, (5,20] 中, (20,∞) 高。
// 0、NaN 以及负数都归为低风险。
func ClassifyRisk(total float64) model.RiskCategory {
	switch {
	case math.IsNaN(total) || total <= lowRiskMax:
		return model.LowRisk
	case total <= mediumRiskMax:
		return model.MediumRisk
	default:
		return model.HighRisk
	}
}

// RiskTotals 按航司汇总长表中全部指标和时段的值。
// 三类指标合并计算，同名航司合并到一起。
func RiskTotals(rows []model.TidyMetricRow) map[string]int {
	totals := make(map[string]int)
	for _, row := range rows {
		totals[row.Airline] += row.Value
	}
	return totals
}

// ClassifyAirlines 每个航司一个风险等级
func ClassifyAirlines(rows []model.TidyMetricRow) map[string]model.RiskCategory {
	totals := RiskTotals(rows)
	categories := make(map[string]model.RiskCategory, len(totals))
	for airline, total := range totals {
		categories[airline] = ClassifyRisk(float64(total))
	}
	return categories
}
