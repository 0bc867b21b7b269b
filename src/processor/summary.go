package processor

import (
	"strings"

	"AirlineSafety/src/model"

	"gonum.org/v1/gonum/stat"
)

// Summarize 计算指标卡数值，只读
func Summarize(wide []model.EnrichedAirlineRecord, long []model.TidyMetricRow) model.SummaryMetrics {
	var s model.SummaryMetrics

	airlines := make(map[string]struct{}, len(wide))
	scores := make([]float64, 0, len(wide))
	for _, r := range wide {
		airlines[r.Airline] = struct{}{}
		if r.SafetyScore.Valid {
			scores = append(scores, r.SafetyScore.Value)
		}
		if strings.Contains(string(r.ImprovementStatus), string(model.Improved)) {
			s.ImprovedAirlines++
		}
		if strings.Contains(string(r.ImprovementStatus), string(model.Worsened)) {
			s.WorsenedAirlines++
		}
	}
	s.TotalAirlines = len(airlines)

	// 无定义评分不计入平均
	if len(scores) > 0 {
		s.AvgSafetyScore = stat.Mean(scores, nil)
	}

	for _, row := range long {
		switch row.MetricType {
		case model.MetricIncidents:
			s.TotalIncidents += row.Value
		case model.MetricFatalities:
			s.TotalFatalities += row.Value
		}
	}
	return s
}
