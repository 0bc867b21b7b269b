package processor

import (
	"fmt"

	"AirlineSafety/src/model"
	"AirlineSafety/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// WideFrame 宽表转 DataFrame，无定义的比率为 NaN
func WideFrame(wide []model.EnrichedAirlineRecord) dataframe.DataFrame {
	n := len(wide)
	airlines := make([]string, n)
	avail := make([]float64, n)
	scores := make([]float64, n)
	ranks := make([]int, n)
	statuses := make([]string, n)
	for i, r := range wide {
		airlines[i] = r.Airline
		avail[i] = r.AvailSeatKmPerWeek
		scores[i] = r.SafetyScore.Float()
		ranks[i] = r.SafetyRank
		statuses[i] = string(r.ImprovementStatus)
	}

	cols := []series.Series{
		series.New(airlines, series.String, "airline"),
		series.New(avail, series.Float, "avail_seat_km_per_week"),
	}
	for _, p := range model.Periods {
		for _, m := range model.MetricTypes {
			counts := make([]int, n)
			for i, r := range wide {
				counts[i] = r.Count(m, p)
			}
			cols = append(cols, series.New(counts, series.Int, string(m)+"_"+p.Suffix()))
		}
	}

	rateCols := []struct {
		name string
		get  func(model.EnrichedAirlineRecord) [2]model.Rate
	}{
		{"incident_rate", func(r model.EnrichedAirlineRecord) [2]model.Rate { return r.IncidentRate }},
		{"fatality_rate", func(r model.EnrichedAirlineRecord) [2]model.Rate { return r.FatalityRate }},
		{"fatal_accident_rate", func(r model.EnrichedAirlineRecord) [2]model.Rate { return r.FatalAccidentRate }},
	}
	for _, rc := range rateCols {
		for _, p := range model.Periods {
			values := make([]float64, n)
			for i, r := range wide {
				values[i] = rc.get(r)[p].Float()
			}
			cols = append(cols, series.New(values, series.Float, rc.name+"_"+p.Suffix()))
		}
	}

	cols = append(cols,
		series.New(scores, series.Float, "safety_score"),
		series.New(ranks, series.Int, "safety_rank"),
		series.New(statuses, series.String, "improvement_status"),
	)
	return dataframe.New(cols...).Select(WideColumns())
}

// LongFrame 长表转 DataFrame
func LongFrame(rows []model.TidyMetricRow) dataframe.DataFrame {
	n := len(rows)
	airlines := make([]string, n)
	avail := make([]float64, n)
	metrics := make([]string, n)
	periods := make([]string, n)
	values := make([]int, n)
	risks := make([]string, n)
	statuses := make([]string, n)
	for i, r := range rows {
		airlines[i] = r.Airline
		avail[i] = r.AvailSeatKmPerWeek
		metrics[i] = string(r.MetricType)
		periods[i] = r.Period
		values[i] = r.Value
		risks[i] = string(r.RiskCategory)
		statuses[i] = string(r.ImprovementStatus)
	}

	return dataframe.New(
		series.New(airlines, series.String, "airline"),
		series.New(avail, series.Float, "avail_seat_km_per_week"),
		series.New(metrics, series.String, "metric_type"),
		series.New(periods, series.String, "period"),
		series.New(values, series.Int, "value"),
		series.New(risks, series.String, "risk_category"),
		series.New(statuses, series.String, "improvement_status"),
	)
}

// FilterFrame 在长表 DataFrame 上应用筛选条件，每组一个 In 过滤，组间链式相与
func FilterFrame(df dataframe.DataFrame, f Filter) dataframe.DataFrame {
	if f.IsEmpty() {
		return df
	}
	groups := []struct {
		col    string
		values []string
	}{
		{"period", f.Periods},
		{"airline", f.Airlines},
		{"improvement_status", f.ImprovementStatuses},
		{"risk_category", f.RiskCategories},
		{"metric_type", f.MetricTypes},
	}
	for _, g := range groups {
		if len(g.values) == 0 {
			continue
		}
		df = df.Filter(dataframe.F{Colname: g.col, Comparator: series.In, Comparando: g.values})
	}
	return df
}

// ColumnNamer 列名 -> 显示名，没有配置时返回原列名
type ColumnNamer func(col string) string

// RenameColumns 按 name 重命名列，name 为 nil 时不重命名
func RenameColumns(df dataframe.DataFrame, name ColumnNamer) (dataframe.DataFrame, error) {
	if name == nil {
		return df, nil
	}
	for _, col := range df.Names() {
		newName := name(col)
		if newName == "" || newName == col {
			continue
		}
		df = df.Rename(newName, col)
		if df.Err != nil {
			return df, fmt.Errorf("重命名列 %s 失败: %w", col, df.Err)
		}
	}
	return df, nil
}

// ExportSheets 导出用的 wide、long 两个工作表。
// 宽表列名按 name 重命名；长表按 f 筛选，与仪表盘当前的筛选一致。
func (d *Dataset) ExportSheets(name ColumnNamer, f Filter) ([]utils.Sheet, error) {
	wide, err := RenameColumns(WideFrame(d.wide), name)
	if err != nil {
		return nil, err
	}
	long := FilterFrame(LongFrame(d.long), f)
	if long.Err != nil {
		return nil, fmt.Errorf("筛选长表失败: %w", long.Err)
	}
	return []utils.Sheet{
		{Name: "wide", Frame: wide},
		{Name: "long", Frame: long},
	}, nil
}
