package processor

import (
	"strings"

	"AirlineSafety/src/model"
)

// MetricFromColumn 去掉时段后缀: fatal_accidents_85_99 -> fatal_accidents
func MetricFromColumn(col string) model.MetricType {
	for _, p := range model.Periods {
		if trimmed, ok := strings.CutSuffix(col, "_"+p.RawSuffix()); ok {
			return model.MetricType(trimmed)
		}
	}
	return model.MetricType(col)
}

// PeriodFromColumn 列名含 85_99 为 1985-1999，否则为 2000-2014
func PeriodFromColumn(col string) model.Period {
	if strings.Contains(col, model.Period1985To1999.RawSuffix()) {
		return model.Period1985To1999
	}
	return model.Period2000To2014
}

// Melt 把六个计数列展开成长表，按航司顺序，每个航司六行，列顺序固定。
// 风险等级和改善状态由 Classify 填充。
func Melt(records []model.AirlineRecord) []model.TidyMetricRow {
	rows := make([]model.TidyMetricRow, 0, len(records)*len(model.RawCountColumns))
	for _, r := range records {
		for _, col := range model.RawCountColumns {
			m, p := MetricFromColumn(col), PeriodFromColumn(col)
			rows = append(rows, model.TidyMetricRow{
				Airline:            r.Airline,
				AvailSeatKmPerWeek: r.AvailSeatKmPerWeek,
				MetricType:         m,
				Period:             p.Label(),
				Value:              r.Count(m, p),
			})
		}
	}
	return rows
}

// Classify 按航司写入风险等级和改善状态(就地修改)
func Classify(rows []model.TidyMetricRow, statuses map[string]model.ImprovementStatus) {
	risks := ClassifyAirlines(rows)
	for i := range rows {
		rows[i].RiskCategory = risks[rows[i].Airline]
		rows[i].ImprovementStatus = StatusOf(statuses, rows[i].Airline)
	}
}

// BuildLongTable 长表: 展开后按航司关联风险等级和改善状态
func BuildLongTable(records []model.AirlineRecord, wide []model.EnrichedAirlineRecord) []model.TidyMetricRow {
	rows := Melt(records)
	Classify(rows, ImprovementStatuses(wide))
	return rows
}
