// report.go
package report

import (
	"fmt"
	"io"
	"sort"

	"AirlineSafety/src/model"
	"AirlineSafety/src/utils"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatRate 比率和评分保留 4 位小数，无定义显示 "-"
func FormatRate(r model.Rate) string {
	if !r.Valid {
		return "-"
	}
	return fmt.Sprintf("%.4f", r.Value)
}

// FormatCount 千分位: 1234567 -> 1,234,567
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatSeatKm 座公里取整并加千分位
func FormatSeatKm(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

// PrintSummary 指标卡
func PrintSummary(w io.Writer, s model.SummaryMetrics) {
	table := newTable(w, []string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk([][]string{
		{"Total Airlines", FormatCount(s.TotalAirlines)},
		{"Total Incidents", FormatCount(s.TotalIncidents)},
		{"Total Fatalities", FormatCount(s.TotalFatalities)},
		{"Improved Airlines", FormatCount(s.ImprovedAirlines)},
		{"Worsened Airlines", FormatCount(s.WorsenedAirlines)},
		{"Avg Safety Score", fmt.Sprintf("%.2f", s.AvgSafetyScore)},
	})
	table.Render()
}

// PrintRanking 按安全排名输出宽表主要列，未排名的放在最后
func PrintRanking(w io.Writer, wide []model.EnrichedAirlineRecord) {
	rows := append([]model.EnrichedAirlineRecord(nil), wide...)
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].SafetyRank, rows[j].SafetyRank
		if (ri == 0) != (rj == 0) {
			return rj == 0
		}
		if ri != rj {
			return ri < rj
		}
		return rows[i].Airline < rows[j].Airline
	})

	p1, p2 := model.Period1985To1999, model.Period2000To2014
	header := []string{
		"safety_rank", "airline", "avail_seat_km_per_week",
		"incident_rate_" + p1.Suffix(), "incident_rate_" + p2.Suffix(),
		"fatality_rate_" + p1.Suffix(), "fatality_rate_" + p2.Suffix(),
		"safety_score", "improvement_status",
	}
	for i, h := range header {
		header[i] = utils.TitleHeader(h)
	}

	table := newTable(w, header)
	for _, r := range rows {
		rank := "-"
		if r.SafetyRank > 0 {
			rank = fmt.Sprint(r.SafetyRank)
		}
		table.Append([]string{
			rank,
			r.Airline,
			FormatSeatKm(r.AvailSeatKmPerWeek),
			FormatRate(r.IncidentRate[p1]),
			FormatRate(r.IncidentRate[p2]),
			FormatRate(r.FatalityRate[p1]),
			FormatRate(r.FatalityRate[p2]),
			FormatRate(r.SafetyScore),
			string(r.ImprovementStatus),
		})
	}
	table.Render()
}
