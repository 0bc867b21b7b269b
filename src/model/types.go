// types.go
package model

import (
	"encoding/json"
	"math"
)

// Period 统计时段
type Period int

const (
	Period1985To1999 Period = iota // 1985-1999
	Period2000To2014               // 2000-2014
)

// Periods 固定顺序的全部时段
var Periods = [2]Period{Period1985To1999, Period2000To2014}

// Label 长表中使用的时段标签
func (p Period) Label() string {
	if p == Period1985To1999 {
		return "1985-1999"
	}
	return "2000-2014"
}

// Suffix 宽表重命名后的列名后缀
func (p Period) Suffix() string {
	if p == Period1985To1999 {
		return "1985_1999"
	}
	return "2000_2014"
}

// RawSuffix 源文件中的列名后缀
func (p Period) RawSuffix() string {
	if p == Period1985To1999 {
		return "85_99"
	}
	return "00_14"
}

// MetricType 计数指标类型
type MetricType string

const (
	MetricIncidents      MetricType = "incidents"
	MetricFatalAccidents MetricType = "fatal_accidents"
	MetricFatalities     MetricType = "fatalities"
)

// MetricTypes 与源文件列顺序一致
var MetricTypes = [3]MetricType{MetricIncidents, MetricFatalAccidents, MetricFatalities}

// RawColumn 源文件中的计数列名，如 incidents_85_99
func RawColumn(m MetricType, p Period) string {
	return string(m) + "_" + p.RawSuffix()
}

// RawCountColumns 源文件六个计数列，顺序固定
var RawCountColumns = []string{
	RawColumn(MetricIncidents, Period1985To1999),
	RawColumn(MetricFatalAccidents, Period1985To1999),
	RawColumn(MetricFatalities, Period1985To1999),
	RawColumn(MetricIncidents, Period2000To2014),
	RawColumn(MetricFatalAccidents, Period2000To2014),
	RawColumn(MetricFatalities, Period2000To2014),
}

// RiskCategory 风险等级
type RiskCategory string

const (
	LowRisk    RiskCategory = "Low Risk"
	MediumRisk RiskCategory = "Medium Risk"
	HighRisk   RiskCategory = "High Risk"
)

// ImprovementStatus 前后两个时段的安全改善状态
type ImprovementStatus string

const (
	SignificantlyImproved ImprovementStatus = "Significantly Improved"
	Improved              ImprovementStatus = "Improved"
	NoChange              ImprovementStatus = "No Change"
	Worsened              ImprovementStatus = "Worsened"
	SignificantlyWorsened ImprovementStatus = "Significantly Worsened"
)

// Rate 每十亿座公里的比率。Valid 为 false 表示分母为 0 或缺失，比率无定义。
type Rate struct {
	Value float64
	Valid bool
}

// Defined 构造一个有效比率
func Defined(v float64) Rate {
	return Rate{Value: v, Valid: true}
}

// Undefined 无定义比率
var Undefined = Rate{}

// Float 无定义时返回 NaN，供 dataframe 使用
func (r Rate) Float() float64 {
	if !r.Valid {
		return math.NaN()
	}
	return r.Value
}

// MarshalJSON 无定义比率输出为 null
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON 实现json.Unmarshaler接口
func (r *Rate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Defined(v)
	return nil
}

// AirlineRecord 源文件中的一行
type AirlineRecord struct {
	Airline            string
	AvailSeatKmPerWeek float64 // 缺失时为 0
	Incidents          [2]int  // 按 Period 索引
	FatalAccidents     [2]int
	Fatalities         [2]int
}

// Count 按指标和时段取原始计数
func (r AirlineRecord) Count(m MetricType, p Period) int {
	switch m {
	case MetricIncidents:
		return r.Incidents[p]
	case MetricFatalAccidents:
		return r.FatalAccidents[p]
	case MetricFatalities:
		return r.Fatalities[p]
	}
	return 0
}

// SetCount 按指标和时段写入原始计数
func (r *AirlineRecord) SetCount(m MetricType, p Period, v int) {
	switch m {
	case MetricIncidents:
		r.Incidents[p] = v
	case MetricFatalAccidents:
		r.FatalAccidents[p] = v
	case MetricFatalities:
		r.Fatalities[p] = v
	}
}

// Total 六个原始计数之和
func (r AirlineRecord) Total() int {
	total := 0
	for _, p := range Periods {
		total += r.Incidents[p] + r.FatalAccidents[p] + r.Fatalities[p]
	}
	return total
}

// EnrichedAirlineRecord 宽表的一行
type EnrichedAirlineRecord struct {
	AirlineRecord
	IncidentRate      [2]Rate
	FatalityRate      [2]Rate
	FatalAccidentRate [2]Rate
	SafetyScore       Rate
	SafetyRank        int // 0 表示安全评分无定义，不参与排名
	ImprovementStatus ImprovementStatus
}

// MarshalJSON 使用重命名后的宽表列名
func (e EnrichedAirlineRecord) MarshalJSON() ([]byte, error) {
	p1, p2 := Period1985To1999, Period2000To2014
	return json.Marshal(map[string]any{
		"airline":                            e.Airline,
		"avail_seat_km_per_week":             e.AvailSeatKmPerWeek,
		"incidents_" + p1.Suffix():           e.Incidents[p1],
		"fatal_accidents_" + p1.Suffix():     e.FatalAccidents[p1],
		"fatalities_" + p1.Suffix():          e.Fatalities[p1],
		"incidents_" + p2.Suffix():           e.Incidents[p2],
		"fatal_accidents_" + p2.Suffix():     e.FatalAccidents[p2],
		"fatalities_" + p2.Suffix():          e.Fatalities[p2],
		"incident_rate_" + p1.Suffix():       e.IncidentRate[p1],
		"incident_rate_" + p2.Suffix():       e.IncidentRate[p2],
		"fatality_rate_" + p1.Suffix():       e.FatalityRate[p1],
		"fatality_rate_" + p2.Suffix():       e.FatalityRate[p2],
		"fatal_accident_rate_" + p1.Suffix(): e.FatalAccidentRate[p1],
		"fatal_accident_rate_" + p2.Suffix(): e.FatalAccidentRate[p2],
		"safety_score":                       e.SafetyScore,
		"safety_rank":                        e.SafetyRank,
		"improvement_status":                 e.ImprovementStatus,
	})
}

// TidyMetricRow 长表的一行，对应 (航司, 指标, 时段)
type TidyMetricRow struct {
	Airline            string            `json:"airline"`
	AvailSeatKmPerWeek float64           `json:"avail_seat_km_per_week"`
	MetricType         MetricType        `json:"metric_type"`
	Period             string            `json:"period"`
	Value              int               `json:"value"`
	RiskCategory       RiskCategory      `json:"risk_category"`
	ImprovementStatus  ImprovementStatus `json:"improvement_status"`
}

// SummaryMetrics 仪表盘顶部指标卡
type SummaryMetrics struct {
	TotalAirlines    int     `json:"total_airlines"`
	TotalIncidents   int     `json:"total_incidents"`
	TotalFatalities  int     `json:"total_fatalities"`
	AvgSafetyScore   float64 `json:"avg_safety_score"`
	ImprovedAirlines int     `json:"improved_airlines"`
	WorsenedAirlines int     `json:"worsened_airlines"`
}

// FilterOptions 筛选控件的可选值，均已排序去重
type FilterOptions struct {
	Periods             []string `json:"periods"`
	MetricTypes         []string `json:"metric_types"`
	RiskCategories      []string `json:"risk_categories"`
	ImprovementStatuses []string `json:"improvement_statuses"`
	Airlines            []string `json:"airlines"`
}
