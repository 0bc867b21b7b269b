package processor

import (
	"AirlineSafety/src/model"
	"AirlineSafety/src/utils"
)

// Filter 长表筛选条件。各组之间为与，组内为或；空组表示不筛选。
type Filter struct {
	Periods             []string `json:"periods,omitempty"`
	Airlines            []string `json:"airlines,omitempty"`
	ImprovementStatuses []string `json:"improvement_statuses,omitempty"`
	RiskCategories      []string `json:"risk_categories,omitempty"`
	MetricTypes         []string `json:"metric_types,omitempty"`
}

// IsEmpty 所有组均为空
func (f Filter) IsEmpty() bool {
	return len(f.Periods) == 0 &&
		len(f.Airlines) == 0 &&
		len(f.ImprovementStatuses) == 0 &&
		len(f.RiskCategories) == 0 &&
		len(f.MetricTypes) == 0
}

// Match 单行是否满足全部非空组
func (f Filter) Match(row model.TidyMetricRow) bool {
	return allows(f.Periods, row.Period) &&
		allows(f.Airlines, row.Airline) &&
		allows(f.ImprovementStatuses, string(row.ImprovementStatus)) &&
		allows(f.RiskCategories, string(row.RiskCategory)) &&
		allows(f.MetricTypes, string(row.MetricType))
}

func allows(allowed []string, value string) bool {
	return len(allowed) == 0 || utils.Contains(allowed, value)
}

// Apply 返回满足条件的行(新切片，保持原顺序)，结果可以为空
func (f Filter) Apply(rows []model.TidyMetricRow) []model.TidyMetricRow {
	out := make([]model.TidyMetricRow, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}
