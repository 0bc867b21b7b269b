// data.go
package processor

import (
	"sort"

	"AirlineSafety/src/model"
)

// Dataset 启动时一次性构建的只读数据集，构建后不再修改。
// 所有访问方法返回副本，可被多个 goroutine 同时使用。
type Dataset struct {
	records []model.AirlineRecord
	wide    []model.EnrichedAirlineRecord
	long    []model.TidyMetricRow
	summary model.SummaryMetrics
	options model.FilterOptions
}

// Build 原始记录 -> 宽表、长表 -> 风险/改善分类 -> 汇总
func Build(records []model.AirlineRecord) *Dataset {
	d := &Dataset{
		records: append([]model.AirlineRecord(nil), records...),
	}
	d.wide = BuildWideTable(d.records)
	d.long = BuildLongTable(d.records, d.wide)
	d.summary = Summarize(d.wide, d.long)
	d.options = buildFilterOptions(d.long)
	return d
}

func (d *Dataset) Records() []model.AirlineRecord {
	return append(make([]model.AirlineRecord, 0, len(d.records)), d.records...)
}

func (d *Dataset) WideTable() []model.EnrichedAirlineRecord {
	return append(make([]model.EnrichedAirlineRecord, 0, len(d.wide)), d.wide...)
}

func (d *Dataset) LongTable() []model.TidyMetricRow {
	return append(make([]model.TidyMetricRow, 0, len(d.long)), d.long...)
}

func (d *Dataset) Summary() model.SummaryMetrics {
	return d.summary
}

func (d *Dataset) FilterOptions() model.FilterOptions {
	o := d.options
	return model.FilterOptions{
		Periods:             copyStrings(o.Periods),
		MetricTypes:         copyStrings(o.MetricTypes),
		RiskCategories:      copyStrings(o.RiskCategories),
		ImprovementStatuses: copyStrings(o.ImprovementStatuses),
		Airlines:            copyStrings(o.Airlines),
	}
}

// Apply 对长表应用筛选条件
func (d *Dataset) Apply(f Filter) []model.TidyMetricRow {
	return f.Apply(d.long)
}

// Len 航司记录数(含重名)
func (d *Dataset) Len() int {
	return len(d.records)
}

// buildFilterOptions 各筛选项去重排序
func buildFilterOptions(rows []model.TidyMetricRow) model.FilterOptions {
	periods := map[string]struct{}{}
	metrics := map[string]struct{}{}
	risks := map[string]struct{}{}
	statuses := map[string]struct{}{}
	airlines := map[string]struct{}{}

	for _, row := range rows {
		periods[row.Period] = struct{}{}
		metrics[string(row.MetricType)] = struct{}{}
		risks[string(row.RiskCategory)] = struct{}{}
		statuses[string(row.ImprovementStatus)] = struct{}{}
		airlines[row.Airline] = struct{}{}
	}

	return model.FilterOptions{
		Periods:             sortedKeys(periods),
		MetricTypes:         sortedKeys(metrics),
		RiskCategories:      sortedKeys(risks),
		ImprovementStatuses: sortedKeys(statuses),
		Airlines:            sortedKeys(airlines),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyStrings(src []string) []string {
	return append(make([]string, 0, len(src)), src...)
}
