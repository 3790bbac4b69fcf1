package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sleepSeriesFixture = `{
	"startdate": 1700000000,
	"enddate": 1700003600,
	"state": 2,
	"model": "Aura Sensor V2",
	"model_id": 63,
	"hash_deviceid": "hash-s",
	"hr": {"1700000120": 58, "1700000060": 60},
	"rr": {},
	"mvt_score": {"1700000060": 3}
}`

func TestDecodeSleepSeries(t *testing.T) {
	d, logs := newObservedDecoder()

	series, err := d.DecodeSleepSeries(mustMap(t, sleepSeriesFixture))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), series.StartDate)
	assert.Equal(t, time.Unix(1700003600, 0).UTC(), series.EndDate)
	assert.Equal(t, SleepStateDeepSleep, series.State)
	assert.Equal(t, "hash-s", series.HashedDeviceID)

	require.NotNil(t, series.HeartRate)
	assert.Equal(t, []SleepSeriesTimeData{
		{Time: time.Unix(1700000060, 0).UTC(), Value: 60},
		{Time: time.Unix(1700000120, 0).UTC(), Value: 58},
	}, *series.HeartRate)

	// 空对象与缺失字段不同
	require.NotNil(t, series.RespirationRate)
	assert.Empty(t, *series.RespirationRate)
	assert.Nil(t, series.Snoring)
	assert.Nil(t, series.HeartRateVariability)
	assert.Nil(t, series.HeartRateVariability2)
	require.NotNil(t, series.MovementScore)
	assert.Len(t, *series.MovementScore, 1)
	assert.Equal(t, 0, logs.Len())
}

func TestDecodeSleepSeries_UnknownState(t *testing.T) {
	d, logs := newObservedDecoder()
	raw := mustMap(t, sleepSeriesFixture)
	raw["state"] = float64(12)

	series, err := d.DecodeSleepSeries(raw)
	require.NoError(t, err)
	assert.Equal(t, SleepStateUnspecified, series.State)
	assert.Equal(t, 1, logs.Len())
}

func TestDecodeSleepSeries_BadTimestampKey(t *testing.T) {
	d, _ := newObservedDecoder()
	raw := mustMap(t, sleepSeriesFixture)
	raw["hr"] = map[string]any{"yesterday": float64(60)}

	_, err := d.DecodeSleepSeries(raw)
	require.ErrorIs(t, err, ErrMissingField)
}

const sleepSummaryFixture = `{
	"id": 2081804182,
	"timezone": "Europe/Paris",
	"model": 32,
	"model_id": 63,
	"hash_deviceid": "hash-s",
	"startdate": 1700000000,
	"enddate": 1700028800,
	"date": "2023-11-14",
	"data": {
		"deepsleepduration": 5820,
		"lightsleepduration": 10440,
		"remsleepduration": 3600,
		"hr_average": 55,
		"hr_min": 48,
		"sleep_score": 82,
		"sleep_latency": 900,
		"snoringepisodecount": 0
	},
	"created": 1700029000,
	"modified": 1700029500
}`

func TestDecodeSleepSummary(t *testing.T) {
	d, _ := newObservedDecoder()

	summary, err := d.DecodeSleepSummary(mustMap(t, sleepSummaryFixture))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), summary.StartDate)
	assert.Equal(t, time.Unix(1700028800, 0).UTC(), summary.EndDate)
	assert.Equal(t, Date{Year: 2023, Month: time.November, Day: 14}, summary.Date)
	assert.Equal(t, "hash-s", summary.HashedDeviceID)

	require.NotNil(t, summary.DeepSleepDuration)
	assert.Equal(t, 5820, *summary.DeepSleepDuration)
	require.NotNil(t, summary.SleepScore)
	assert.Equal(t, 82, *summary.SleepScore)
	// 0 是有效值，不是缺失
	require.NotNil(t, summary.SnoringCount)
	assert.Equal(t, 0, *summary.SnoringCount)

	assert.Nil(t, summary.MaxHeartRate)
	assert.Nil(t, summary.ApneaHypopneaIndex)
	assert.Nil(t, summary.WithingsIndex)
}

func TestDecodeSleepSummary_MissingData(t *testing.T) {
	d, _ := newObservedDecoder()
	raw := mustMap(t, sleepSummaryFixture)
	delete(raw, "data")

	_, err := d.DecodeSleepSummary(raw)
	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "data", mf.Key)
}
