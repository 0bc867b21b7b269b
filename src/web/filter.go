package web

import (
	"net/url"
	"strings"

	"AirlineSafety/src/processor"
)

// 查询参数名
const (
	paramPeriod            = "period"
	paramAirline           = "airline"
	paramImprovementStatus = "improvement_status"
	paramRiskCategory      = "risk_category"
	paramMetricType        = "metric_type"
)

// ParseFilter 从查询参数构造筛选条件，参数可重复，空值忽略
// 例如 ?period=1985-1999&airline=Aer%20Lingus&airline=Aeroflot*
func ParseFilter(q url.Values) processor.Filter {
	return processor.Filter{
		Periods:             values(q, paramPeriod),
		Airlines:            values(q, paramAirline),
		ImprovementStatuses: values(q, paramImprovementStatus),
		RiskCategories:      values(q, paramRiskCategory),
		MetricTypes:         values(q, paramMetricType),
	}
}

func values(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
