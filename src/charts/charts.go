// charts.go
package charts

import (
	"fmt"
	"io"

	"AirlineSafety/src/config"
	"AirlineSafety/src/model"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// NoDataTitle 筛选结果为空时的图表标题
const NoDataTitle = "No data available for selected filters"

const pageTitle = "Airline Safety Dashboard"

// 图表名称，对应 /charts/{name}
const (
	IncidentTrendsName      = "incident-trends"
	FatalitiesAnalysisName  = "fatalities-analysis"
	SafetyMetricsName       = "safety-metrics"
	RiskAnalysisName        = "risk-analysis"
	ImprovementTrackingName = "improvement-tracking"
)

// Names 仪表盘上的图表顺序
var Names = []string{
	IncidentTrendsName,
	FatalitiesAnalysisName,
	SafetyMetricsName,
	RiskAnalysisName,
	ImprovementTrackingName,
}

// Chart 可单独渲染也可放入 Page 的图表
type Chart interface {
	components.Charter
	Render(w io.Writer) error
}

// Palette 图表配色
type Palette struct {
	Primary   string
	Accent    string
	Danger    string
	Warning   string
	Success   string
	Secondary string
}

// DefaultPalette 未配置 dataconfig 时使用
func DefaultPalette() Palette {
	c := config.DefaultColors
	return Palette{
		Primary:   c["primary"],
		Accent:    c["accent"],
		Danger:    c["danger"],
		Warning:   c["warning"],
		Success:   c["success"],
		Secondary: c["secondary"],
	}
}

// PaletteFrom 从 dataconfig.json 的 colors 读取配色
func PaletteFrom(dc *config.DataConfig) Palette {
	if dc == nil {
		return DefaultPalette()
	}
	return Palette{
		Primary:   dc.GetColor("primary"),
		Accent:    dc.GetColor("accent"),
		Danger:    dc.GetColor("danger"),
		Warning:   dc.GetColor("warning"),
		Success:   dc.GetColor("success"),
		Secondary: dc.GetColor("secondary"),
	}
}

// Build 按名称生成图表，rows 为已筛选的长表
func Build(name string, rows []model.TidyMetricRow, p Palette) (Chart, error) {
	switch name {
	case IncidentTrendsName:
		return IncidentTrends(rows, p), nil
	case FatalitiesAnalysisName:
		return FatalitiesAnalysis(rows, p), nil
	case SafetyMetricsName:
		return SafetyHeatmap(rows, p), nil
	case RiskAnalysisName:
		return RiskTreemap(rows, p), nil
	case ImprovementTrackingName:
		return ImprovementSunburst(rows, p), nil
	}
	return nil, fmt.Errorf("unknown chart %q", name)
}

// Dashboard 五个图表放在同一页面
func Dashboard(rows []model.TidyMetricRow, p Palette) *components.Page {
	page := components.NewPage()
	page.SetPageTitle(pageTitle)
	for _, name := range Names {
		c, _ := Build(name, rows, p)
		page.AddCharts(c)
	}
	return page
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: pageTitle,
		Width:     "100%",
		Height:    "500px",
	})
}

func titleOpts(title string, hasData bool) charts.GlobalOpts {
	if !hasData {
		title = NoDataTitle
	}
	return charts.WithTitleOpts(opts.Title{Title: title})
}

// IncidentTrends 各航司两个时段的事故征候数
func IncidentTrends(rows []model.TidyMetricRow, p Palette) *charts.Bar {
	return periodBar(rows, model.MetricIncidents, "Incident Trends by Airline and Period", p.Primary, p.Accent)
}

// FatalitiesAnalysis 各航司两个时段的死亡人数
func FatalitiesAnalysis(rows []model.TidyMetricRow, p Palette) *charts.Bar {
	return periodBar(rows, model.MetricFatalities, "Fatalities Analysis by Airline", p.Danger, p.Warning)
}

func periodBar(rows []model.TidyMetricRow, metric model.MetricType, title string, colors ...string) *charts.Bar {
	airlines, byPeriod := periodTotals(rows, metric)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		titleOpts(title, len(airlines) > 0),
		charts.WithColorsOpts(opts.Colors(colors)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Airline", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	if len(airlines) == 0 {
		return bar
	}

	bar.SetXAxis(airlines)
	for _, period := range model.Periods {
		totals := byPeriod[period.Label()]
		if totals == nil {
			continue
		}
		data := make([]opts.BarData, len(airlines))
		for i, airline := range airlines {
			data[i] = opts.BarData{Value: totals[airline]}
		}
		bar.AddSeries(period.Label(), data)
	}
	return bar
}

// SafetyHeatmap 航司 x (时段/指标) 的数值热力图
func SafetyHeatmap(rows []model.TidyMetricRow, p Palette) *charts.HeatMap {
	airlines, categories, cells := heatmapCells(rows)

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		initOpts(),
		titleOpts("Safety Metrics Heatmap", len(cells) > 0),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: airlines, AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: categories}),
	)
	if len(cells) == 0 {
		return hm
	}

	maxValue := 0
	data := make([]opts.HeatMapData, 0, len(cells))
	for _, c := range cells {
		if c.value > maxValue {
			maxValue = c.value
		}
		data = append(data, opts.HeatMapData{Value: [3]interface{}{c.x, c.y, c.value}})
	}
	if maxValue == 0 {
		maxValue = 1
	}

	hm.SetGlobalOptions(charts.WithVisualMapOpts(opts.VisualMap{
		Calculable: opts.Bool(true),
		Min:        0,
		Max:        float32(maxValue),
		InRange:    &opts.VisualMapInRange{Color: []string{p.Success, p.Warning, p.Danger}},
	}))
	hm.SetXAxis(airlines).AddSeries("value", data)
	return hm
}

// RiskTreemap 风险等级 -> 航司
func RiskTreemap(rows []model.TidyMetricRow, p Palette) *charts.TreeMap {
	groups := groupTotals(rows, func(r model.TidyMetricRow) string { return string(r.RiskCategory) }, riskOrder)

	nodes := make([]opts.TreeMapNode, 0, len(groups))
	for _, g := range groups {
		children := make([]opts.TreeMapNode, 0, len(g.children))
		for _, c := range g.children {
			children = append(children, opts.TreeMapNode{Name: c.name, Value: c.value})
		}
		nodes = append(nodes, opts.TreeMapNode{Name: g.name, Value: g.total, Children: children})
	}

	tm := charts.NewTreeMap()
	tm.SetGlobalOptions(
		initOpts(),
		titleOpts("Risk Analysis", len(nodes) > 0),
		charts.WithColorsOpts(opts.Colors{p.Success, p.Warning, p.Danger}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	if len(nodes) > 0 {
		tm.AddSeries("risk", nodes)
	}
	return tm
}

// ImprovementSunburst 改善状态 -> 航司
func ImprovementSunburst(rows []model.TidyMetricRow, p Palette) *charts.Sunburst {
	groups := groupTotals(rows, func(r model.TidyMetricRow) string { return string(r.ImprovementStatus) }, statusOrder)
	colors := map[string]string{
		string(model.SignificantlyImproved): p.Success,
		string(model.Improved):              p.Accent,
		string(model.NoChange):              p.Secondary,
		string(model.Worsened):              p.Warning,
		string(model.SignificantlyWorsened): p.Danger,
	}

	data := make([]opts.SunBurstData, 0, len(groups))
	for _, g := range groups {
		children := make([]*opts.SunBurstData, 0, len(g.children))
		for _, c := range g.children {
			children = append(children, &opts.SunBurstData{Name: c.name, Value: float64(c.value)})
		}
		data = append(data, opts.SunBurstData{
			Name:      g.name,
			Value:     float64(g.total),
			ItemStyle: &opts.ItemStyle{Color: colors[g.name]},
			Children:  children,
		})
	}

	sb := charts.NewSunburst()
	sb.SetGlobalOptions(
		initOpts(),
		titleOpts("Improvement Tracking", len(data) > 0),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	if len(data) > 0 {
		sb.AddSeries("improvement", data)
	}
	return sb
}
