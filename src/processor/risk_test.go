package processor

import (
	"math"
	"testing"

	"AirlineSafety/src/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		total float64
		want  model.RiskCategory
	}{
		{0, model.LowRisk},
		{math.NaN(), model.LowRisk},
		{1, model.LowRisk},
		{5, model.LowRisk},
		{5.5, model.MediumRisk},
		{6, model.MediumRisk},
		{20, model.MediumRisk},
		{21, model.HighRisk},
		{313, model.HighRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.total), "total %v", tt.total)
	}
}

func TestRiskTotalsPoolsMetricsAndDuplicates(t *testing.T) {
	rows := Melt([]model.AirlineRecord{
		record("A", 1, 1, 1, 1, 1, 1, 1),
		record("B", 1, 0, 0, 0, 0, 0, 0),
		record("A", 1, 0, 0, 0, 0, 0, 10),
	})

	totals := RiskTotals(rows)
	assert.Equal(t, map[string]int{"A": 16, "B": 0}, totals)

	categories := ClassifyAirlines(rows)
	assert.Equal(t, model.MediumRisk, categories["A"])
	assert.Equal(t, model.LowRisk, categories["B"])
}
