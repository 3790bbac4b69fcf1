package aggregator

import (
	"math"
	"sort"

	"owl-withings/internal/models"
)

// AggregateSleepSummaries 把相邻时段的多条睡眠汇总合并为一条
// 空输入返回 nil；单条原样返回。
// 时段取排序后第一条的开始与第二条的结束，即使输入多于两条。
// 时长与次数求和，速率类取平均（四舍六入五成双），sleep_score 取最大值，其余统计项丢弃。
func AggregateSleepSummaries(summaries []models.SleepSummary) *models.SleepSummary {
	switch len(summaries) {
	case 0:
		return nil
	case 1:
		only := summaries[0]
		return &only
	}

	sorted := make([]models.SleepSummary, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	pick := func(get func(*models.SleepSummary) *int) []int {
		var values []int
		for i := range sorted {
			if v := get(&sorted[i]); v != nil {
				values = append(values, *v)
			}
		}
		return values
	}
	sum := func(get func(*models.SleepSummary) *int) *int {
		total := 0
		for _, v := range pick(get) {
			total += v
		}
		return &total
	}
	average := func(get func(*models.SleepSummary) *int) *int {
		values := pick(get)
		if len(values) == 0 {
			return nil
		}
		total := 0
		for _, v := range values {
			total += v
		}
		mean := int(math.RoundToEven(float64(total) / float64(len(values))))
		return &mean
	}
	maximum := func(get func(*models.SleepSummary) *int) *int {
		best := 0
		for i, v := range pick(get) {
			if i == 0 || v > best {
				best = v
			}
		}
		return &best
	}

	return &models.SleepSummary{
		StartDate:      sorted[0].StartDate,
		EndDate:        sorted[1].EndDate,
		Date:           sorted[0].Date,
		HashedDeviceID: sorted[0].HashedDeviceID,

		BreathingDisturbancesIntensity: average(func(s *models.SleepSummary) *int { return s.BreathingDisturbancesIntensity }),
		SleepLatency:                   average(func(s *models.SleepSummary) *int { return s.SleepLatency }),
		WakeUpLatency:                  average(func(s *models.SleepSummary) *int { return s.WakeUpLatency }),
		AverageHeartRate:               average(func(s *models.SleepSummary) *int { return s.AverageHeartRate }),
		MaxHeartRate:                   average(func(s *models.SleepSummary) *int { return s.MaxHeartRate }),
		MinHeartRate:                   average(func(s *models.SleepSummary) *int { return s.MinHeartRate }),
		AverageRespirationRate:         average(func(s *models.SleepSummary) *int { return s.AverageRespirationRate }),
		MaxRespirationRate:             average(func(s *models.SleepSummary) *int { return s.MaxRespirationRate }),
		MinRespirationRate:             average(func(s *models.SleepSummary) *int { return s.MinRespirationRate }),
		Snoring:                        average(func(s *models.SleepSummary) *int { return s.Snoring }),
		TotalTimeAwake:                 average(func(s *models.SleepSummary) *int { return s.TotalTimeAwake }),

		DeepSleepDuration:  sum(func(s *models.SleepSummary) *int { return s.DeepSleepDuration }),
		LightSleepDuration: sum(func(s *models.SleepSummary) *int { return s.LightSleepDuration }),
		REMSleepDuration:   sum(func(s *models.SleepSummary) *int { return s.REMSleepDuration }),
		SnoringCount:       sum(func(s *models.SleepSummary) *int { return s.SnoringCount }),
		WakeUpCount:        sum(func(s *models.SleepSummary) *int { return s.WakeUpCount }),

		SleepScore: maximum(func(s *models.SleepSummary) *int { return s.SleepScore }),
	}
}
