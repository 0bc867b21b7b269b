package processor

import (
	"AirlineSafety/src/model"
)

func record(airline string, avail float64, counts ...int) model.AirlineRecord {
	r := model.AirlineRecord{Airline: airline, AvailSeatKmPerWeek: avail}
	for i, col := range model.RawCountColumns {
		r.SetCount(MetricFromColumn(col), PeriodFromColumn(col), counts[i])
	}
	return r
}

// 计数顺序: incidents_85_99, fatal_accidents_85_99, fatalities_85_99,
// incidents_00_14, fatal_accidents_00_14, fatalities_00_14
func sampleRecords() []model.AirlineRecord {
	return []model.AirlineRecord{
		record("Aer Lingus", 320906734, 2, 0, 0, 0, 0, 0),
		record("Alaska Airlines*", 2e9, 0, 0, 0, 2, 0, 0),
		record("Aeroflot*", 1197672318, 76, 14, 128, 6, 1, 88),
		record("Ghost Air", 0, 3, 0, 0, 0, 0, 4),
		record("Worse Air", 1e9, 1, 0, 0, 2, 0, 0),
	}
}
