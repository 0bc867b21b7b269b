package charts

import (
	"bytes"
	"testing"

	"AirlineSafety/src/model"
	"AirlineSafety/src/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []model.TidyMetricRow {
	records := []model.AirlineRecord{
		{Airline: "Aer Lingus", AvailSeatKmPerWeek: 320906734, Incidents: [2]int{2, 0}},
		{Airline: "Aeroflot*", AvailSeatKmPerWeek: 1197672318,
			Incidents: [2]int{76, 6}, FatalAccidents: [2]int{14, 1}, Fatalities: [2]int{128, 88}},
		{Airline: "Alaska Airlines*", AvailSeatKmPerWeek: 2e9, Incidents: [2]int{0, 2}},
	}
	return processor.Build(records).LongTable()
}

func render(t *testing.T, c Chart) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	return buf.String()
}

func TestPeriodTotals(t *testing.T) {
	airlines, byPeriod := periodTotals(sampleRows(), model.MetricIncidents)

	assert.Equal(t, []string{"Aer Lingus", "Aeroflot*", "Alaska Airlines*"}, airlines)
	assert.Equal(t, 76, byPeriod["1985-1999"]["Aeroflot*"])
	assert.Equal(t, 2, byPeriod["2000-2014"]["Alaska Airlines*"])
}

func TestHeatmapCells(t *testing.T) {
	rows := processor.Filter{Periods: []string{"2000-2014"}}.Apply(sampleRows())
	airlines, categories, cells := heatmapCells(rows)

	assert.Len(t, airlines, 3)
	assert.Equal(t, []string{"2000-2014/incidents", "2000-2014/fatal_accidents", "2000-2014/fatalities"}, categories)
	assert.Len(t, cells, 9)

	total := 0
	for _, c := range cells {
		total += c.value
	}
	assert.Equal(t, 6+1+88+2, total)
}

func TestGroupTotals(t *testing.T) {
	groups := groupTotals(sampleRows(), func(r model.TidyMetricRow) string { return string(r.RiskCategory) }, riskOrder)

	require.Len(t, groups, 2)
	assert.Equal(t, "Low Risk", groups[0].name)
	assert.Equal(t, 4, groups[0].total)
	assert.Equal(t, []node{{"Aer Lingus", 2}, {"Alaska Airlines*", 2}}, groups[0].children)
	assert.Equal(t, "High Risk", groups[1].name)
	assert.Equal(t, 313, groups[1].total)
}

func TestBuildAllCharts(t *testing.T) {
	rows := sampleRows()
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			c, err := Build(name, rows, DefaultPalette())
			require.NoError(t, err)
			html := render(t, c)
			assert.Contains(t, html, "Aeroflot*")
			assert.NotContains(t, html, NoDataTitle)
		})
	}

	_, err := Build("pie", rows, DefaultPalette())
	assert.Error(t, err)
}

func TestChartsWithoutData(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			c, err := Build(name, nil, DefaultPalette())
			require.NoError(t, err)
			assert.Contains(t, render(t, c), NoDataTitle)
		})
	}

	// 只剩 fatalities 时事故征候图为空
	rows := processor.Filter{MetricTypes: []string{"fatalities"}}.Apply(sampleRows())
	assert.Contains(t, render(t, IncidentTrends(rows, DefaultPalette())), NoDataTitle)
	assert.NotContains(t, render(t, FatalitiesAnalysis(rows, DefaultPalette())), NoDataTitle)
}

func TestDashboard(t *testing.T) {
	page := Dashboard(sampleRows(), DefaultPalette())
	assert.Len(t, page.Charts, len(Names))

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), "Airline Safety Dashboard")
}

func TestPaletteFrom(t *testing.T) {
	assert.Equal(t, DefaultPalette(), PaletteFrom(nil))
	assert.Equal(t, "#2C5AA0", DefaultPalette().Primary)
}
