package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owl-withings/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func summary(start, end int64) models.SleepSummary {
	t := time.Unix(start, 0).UTC()
	return models.SleepSummary{
		StartDate:      t,
		EndDate:        time.Unix(end, 0).UTC(),
		Date:           models.DateOf(t),
		HashedDeviceID: "hash",
	}
}

func TestAggregateSleepSummaries_EmptyAndSingle(t *testing.T) {
	assert.Nil(t, AggregateSleepSummaries(nil))

	only := summary(100, 200)
	only.SleepEfficiency = intPtr(91)
	merged := AggregateSleepSummaries([]models.SleepSummary{only})
	require.NotNil(t, merged)
	assert.Equal(t, only, *merged)
}

func TestAggregateSleepSummaries_Combine(t *testing.T) {
	late := summary(5000, 9000)
	late.HashedDeviceID = "late"
	late.DeepSleepDuration = intPtr(200)
	late.SleepLatency = intPtr(20)
	late.SleepScore = intPtr(95)
	late.SnoringCount = intPtr(2)
	late.SleepEfficiency = intPtr(88)

	early := summary(1000, 4000)
	early.DeepSleepDuration = intPtr(100)
	early.SleepLatency = intPtr(10)
	early.SleepScore = intPtr(80)
	early.AverageHeartRate = intPtr(60)

	merged := AggregateSleepSummaries([]models.SleepSummary{late, early})
	require.NotNil(t, merged)

	assert.Equal(t, time.Unix(1000, 0).UTC(), merged.StartDate)
	assert.Equal(t, time.Unix(9000, 0).UTC(), merged.EndDate)
	assert.Equal(t, early.Date, merged.Date)
	assert.Equal(t, "hash", merged.HashedDeviceID)

	require.NotNil(t, merged.DeepSleepDuration)
	assert.Equal(t, 300, *merged.DeepSleepDuration)
	require.NotNil(t, merged.SleepLatency)
	assert.Equal(t, 15, *merged.SleepLatency)
	require.NotNil(t, merged.SleepScore)
	assert.Equal(t, 95, *merged.SleepScore)
	require.NotNil(t, merged.SnoringCount)
	assert.Equal(t, 2, *merged.SnoringCount)
	// 仅一条有值时平均值即该值
	require.NotNil(t, merged.AverageHeartRate)
	assert.Equal(t, 60, *merged.AverageHeartRate)

	// 求和项无数据时为 0，平均项无数据时为 nil
	require.NotNil(t, merged.LightSleepDuration)
	assert.Equal(t, 0, *merged.LightSleepDuration)
	assert.Nil(t, merged.WakeUpLatency)

	// 未列出的统计项被丢弃
	assert.Nil(t, merged.SleepEfficiency)
	assert.Nil(t, merged.TotalSleepTime)
	assert.Nil(t, merged.WithingsIndex)
}

func TestAggregateSleepSummaries_ScoreDefaultsToZero(t *testing.T) {
	merged := AggregateSleepSummaries([]models.SleepSummary{summary(0, 10), summary(10, 20)})
	require.NotNil(t, merged)
	require.NotNil(t, merged.SleepScore)
	assert.Equal(t, 0, *merged.SleepScore)
}

func TestAggregateSleepSummaries_WindowUsesFirstTwo(t *testing.T) {
	merged := AggregateSleepSummaries([]models.SleepSummary{
		summary(300, 400),
		summary(100, 200),
		summary(200, 300),
	})
	require.NotNil(t, merged)
	assert.Equal(t, time.Unix(100, 0).UTC(), merged.StartDate)
	assert.Equal(t, time.Unix(300, 0).UTC(), merged.EndDate)
}

func TestAggregateSleepSummaries_RoundHalfToEven(t *testing.T) {
	a, b := summary(0, 10), summary(10, 20)
	a.Snoring, b.Snoring = intPtr(1), intPtr(2)
	a.TotalTimeAwake, b.TotalTimeAwake = intPtr(2), intPtr(3)

	merged := AggregateSleepSummaries([]models.SleepSummary{a, b})
	require.NotNil(t, merged)
	assert.Equal(t, 2, *merged.Snoring)
	assert.Equal(t, 2, *merged.TotalTimeAwake)
}

func TestAggregateSleepSummaries_InputNotReordered(t *testing.T) {
	input := []models.SleepSummary{summary(300, 400), summary(100, 200)}
	AggregateSleepSummaries(input)
	assert.Equal(t, time.Unix(300, 0).UTC(), input[0].StartDate)
}
