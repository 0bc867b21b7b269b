package processor

import (
	"AirlineSafety/src/model"
)

// 改善评分权重
const (
	weightIncidentChange = 0.6
	weightFatalityChange = 0.4
)

const significantChangePct = 20

// ChangePct 后一时段相对前一时段的变化百分比。
// 分母为 0 或无定义、分子无定义时返回 0。
func ChangePct(earlier, later model.Rate) float64 {
	if !earlier.Valid || earlier.Value == 0 || !later.Valid {
		return 0
	}
	return (later.Value - earlier.Value) / earlier.Value * 100
}

// ImprovementScore 0.6*事故征候变化 + 0.4*死亡人数变化，负数表示后期更安全
func ImprovementScore(e model.EnrichedAirlineRecord) float64 {
	p1, p2 := model.Period1985To1999, model.Period2000To2014
	incident := ChangePct(e.IncidentRate[p1], e.IncidentRate[p2])
	fatality := ChangePct(e.FatalityRate[p1], e.FatalityRate[p2])
	return weightIncidentChange*incident + weightFatalityChange*fatality
}

// ClassifyImprovement 五档分类:
//
//	< -20       Significantly Improved
//	[-20, 0)    Improved
//	== 0        No Change
//	(0, 20]     Worsened
//	> 20        Significantly Worsened
//
// NaN 不会出现(ChangePct 已兜底)，如出现按 No Change 处理
func ClassifyImprovement(score float64) model.ImprovementStatus {
	switch {
	case score < -significantChangePct:
		return model.SignificantlyImproved
	case score < 0:
		return model.Improved
	case score > significantChangePct:
		return model.SignificantlyWorsened
	case score > 0:
		return model.Worsened
	default:
		return model.NoChange
	}
}

// ImprovementStatuses 航司 -> 改善状态，同名航司取第一次出现
func ImprovementStatuses(records []model.EnrichedAirlineRecord) map[string]model.ImprovementStatus {
	statuses := make(map[string]model.ImprovementStatus, len(records))
	for _, r := range records {
		if _, ok := statuses[r.Airline]; ok {
			continue
		}
		statuses[r.Airline] = ClassifyImprovement(ImprovementScore(r))
	}
	return statuses
}

// StatusOf 映射中没有的航司默认为 No Change
func StatusOf(statuses map[string]model.ImprovementStatus, airline string) model.ImprovementStatus {
	if s, ok := statuses[airline]; ok {
		return s
	}
	return model.NoChange
}
