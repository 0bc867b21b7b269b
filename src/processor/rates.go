package processor

import (
	"sort"

	"AirlineSafety/src/model"
)

// 比率按每十亿座公里计
const perBillionSeatKm = 1e9

// 安全评分权重
const (
	weightIncident1985 = 0.3
	weightIncident2000 = 0.3
	weightFatality1985 = 0.2
	weightFatality2000 = 0.2
)

// CalculateRate 计数 / 周可用座公里 * 1e9
// 座公里为 0、负数或缺失时比率无定义
func CalculateRate(count int, availSeatKm float64) model.Rate {
	if !(availSeatKm > 0) {
		return model.Undefined
	}
	return model.Defined(float64(count) / availSeatKm * perBillionSeatKm)
}

// SafetyScore 四个比率的加权和，越低越安全。
// 无定义的项不参与求和；四项都无定义时评分无定义。
func SafetyScore(incident, fatality [2]model.Rate) model.Rate {
	terms := []struct {
		rate   model.Rate
		weight float64
	}{
		{incident[model.Period1985To1999], weightIncident1985},
		{incident[model.Period2000To2014], weightIncident2000},
		{fatality[model.Period1985To1999], weightFatality1985},
		{fatality[model.Period2000To2014], weightFatality2000},
	}

	score, defined := 0.0, false
	for _, term := range terms {
		if !term.rate.Valid {
			continue
		}
		score += term.weight * term.rate.Value
		defined = true
	}
	if !defined {
		return model.Undefined
	}
	return model.Defined(score)
}

// CalculateRates 计算一条记录的全部比率和安全评分，排名和改善状态另行填充
func CalculateRates(r model.AirlineRecord) model.EnrichedAirlineRecord {
	e := model.EnrichedAirlineRecord{AirlineRecord: r}
	for _, p := range model.Periods {
		e.IncidentRate[p] = CalculateRate(r.Incidents[p], r.AvailSeatKmPerWeek)
		e.FatalityRate[p] = CalculateRate(r.Fatalities[p], r.AvailSeatKmPerWeek)
		e.FatalAccidentRate[p] = CalculateRate(r.FatalAccidents[p], r.AvailSeatKmPerWeek)
	}
	e.SafetyScore = SafetyScore(e.IncidentRate, e.FatalityRate)
	return e
}

// DenseRank 升序密集排名: 并列同名次，下一个不同值名次加 1。
// 无定义的评分名次为 0。
func DenseRank(scores []model.Rate) []int {
	values := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s.Valid {
			values = append(values, s.Value)
		}
	}
	sort.Float64s(values)

	rankOf := make(map[float64]int, len(values))
	rank := 0
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			rank++
			rankOf[v] = rank
		}
	}

	ranks := make([]int, len(scores))
	for i, s := range scores {
		if s.Valid {
			ranks[i] = rankOf[s.Value]
		}
	}
	return ranks
}
