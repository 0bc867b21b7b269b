package processor

import (
	"AirlineSafety/src/model"
)

// BuildWideTable 每个航司一行: 原始计数 + 比率 + 安全评分 + 排名 + 改善状态
func BuildWideTable(records []model.AirlineRecord) []model.EnrichedAirlineRecord {
	wide := make([]model.EnrichedAirlineRecord, len(records))
	scores := make([]model.Rate, len(records))
	for i, r := range records {
		wide[i] = CalculateRates(r)
		scores[i] = wide[i].SafetyScore
	}

	ranks := DenseRank(scores)
	for i := range wide {
		wide[i].SafetyRank = ranks[i]
	}

	statuses := ImprovementStatuses(wide)
	for i := range wide {
		wide[i].ImprovementStatus = StatusOf(statuses, wide[i].Airline)
	}
	return wide
}

// WideColumns 宽表列顺序，与 EnrichedAirlineRecord 的 JSON 字段一致
func WideColumns() []string {
	cols := []string{"airline", "avail_seat_km_per_week"}
	for _, p := range model.Periods {
		for _, m := range model.MetricTypes {
			cols = append(cols, string(m)+"_"+p.Suffix())
		}
	}
	for _, name := range []string{"incident_rate", "fatality_rate", "fatal_accident_rate"} {
		for _, p := range model.Periods {
			cols = append(cols, name+"_"+p.Suffix())
		}
	}
	return append(cols, "safety_score", "safety_rank", "improvement_status")
}
