package charts

import (
	"AirlineSafety/src/model"
)

var riskOrder = []string{
	string(model.LowRisk),
	string(model.MediumRisk),
	string(model.HighRisk),
}

var statusOrder = []string{
	string(model.SignificantlyImproved),
	string(model.Improved),
	string(model.NoChange),
	string(model.Worsened),
	string(model.SignificantlyWorsened),
}

// airlineOrder 按首次出现顺序去重
func airlineOrder(rows []model.TidyMetricRow) []string {
	seen := make(map[string]bool)
	var airlines []string
	for _, r := range rows {
		if !seen[r.Airline] {
			seen[r.Airline] = true
			airlines = append(airlines, r.Airline)
		}
	}
	return airlines
}

// periodTotals 某一指标按 时段 -> 航司 求和
func periodTotals(rows []model.TidyMetricRow, metric model.MetricType) ([]string, map[string]map[string]int) {
	var selected []model.TidyMetricRow
	for _, r := range rows {
		if r.MetricType == metric {
			selected = append(selected, r)
		}
	}

	byPeriod := make(map[string]map[string]int)
	for _, r := range selected {
		if byPeriod[r.Period] == nil {
			byPeriod[r.Period] = make(map[string]int)
		}
		byPeriod[r.Period][r.Airline] += r.Value
	}
	return airlineOrder(selected), byPeriod
}

type heatCell struct {
	x, y  int
	value int
}

// heatmapCells 航司为 x 轴，"时段/指标" 为 y 轴，单元格为求和值
func heatmapCells(rows []model.TidyMetricRow) ([]string, []string, []heatCell) {
	airlines := airlineOrder(rows)
	xIndex := make(map[string]int, len(airlines))
	for i, a := range airlines {
		xIndex[a] = i
	}

	present := make(map[string]bool)
	for _, r := range rows {
		present[heatCategory(r.Period, r.MetricType)] = true
	}
	var categories []string
	yIndex := make(map[string]int)
	for _, p := range model.Periods {
		for _, m := range model.MetricTypes {
			c := heatCategory(p.Label(), m)
			if present[c] {
				yIndex[c] = len(categories)
				categories = append(categories, c)
			}
		}
	}

	sums := make(map[[2]int]int)
	var order [][2]int
	for _, r := range rows {
		key := [2]int{xIndex[r.Airline], yIndex[heatCategory(r.Period, r.MetricType)]}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += r.Value
	}

	cells := make([]heatCell, 0, len(order))
	for _, key := range order {
		cells = append(cells, heatCell{x: key[0], y: key[1], value: sums[key]})
	}
	return airlines, categories, cells
}

func heatCategory(period string, metric model.MetricType) string {
	return period + "/" + string(metric)
}

type node struct {
	name  string
	value int
}

type group struct {
	name     string
	total    int
	children []node
}

// groupTotals 两层分组求和: key(row) -> 航司，外层按 order 排序，空分组省略
func groupTotals(rows []model.TidyMetricRow, key func(model.TidyMetricRow) string, order []string) []group {
	sums := make(map[string]map[string]int)
	airlines := make(map[string][]string)
	for _, r := range rows {
		k := key(r)
		if sums[k] == nil {
			sums[k] = make(map[string]int)
		}
		if _, ok := sums[k][r.Airline]; !ok {
			airlines[k] = append(airlines[k], r.Airline)
		}
		sums[k][r.Airline] += r.Value
	}

	var groups []group
	for _, name := range order {
		if sums[name] == nil {
			continue
		}
		g := group{name: name}
		for _, a := range airlines[name] {
			g.children = append(g.children, node{name: a, value: sums[name][a]})
			g.total += sums[name][a]
		}
		groups = append(groups, g)
	}
	return groups
}
