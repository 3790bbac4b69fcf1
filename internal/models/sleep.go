package models

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// SleepState 睡眠状态
type SleepState int

const (
	SleepStateAwake       SleepState = 0
	SleepStateLightSleep  SleepState = 1
	SleepStateDeepSleep   SleepState = 2
	SleepStateREMSleep    SleepState = 3
	SleepStateManual      SleepState = 4
	SleepStateUnspecified SleepState = 5
)

var sleepStateNames = map[SleepState]string{
	SleepStateAwake:       "AWAKE",
	SleepStateLightSleep:  "LIGHT_SLEEP",
	SleepStateDeepSleep:   "DEEP_SLEEP",
	SleepStateREMSleep:    "REM_SLEEP",
	SleepStateManual:      "MANUAL",
	SleepStateUnspecified: "UNSPECIFIED",
}

func (s SleepState) String() string {
	if name, ok := sleepStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SleepState(%d)", int(s))
}

// SleepDataField v2/sleep get 可请求的时间序列
type SleepDataField string

const (
	SleepDataHeartRate             SleepDataField = "hr"
	SleepDataRespirationRate       SleepDataField = "rr"
	SleepDataSnoring               SleepDataField = "snoring"
	SleepDataHeartRateVariability  SleepDataField = "sdnn_1"
	SleepDataHeartRateVariability2 SleepDataField = "rmssd"
	SleepDataMovementScore         SleepDataField = "mvt_score"
)

// SleepSeriesTimeData 时间序列中的一个点
type SleepSeriesTimeData struct {
	Time  time.Time `json:"time"`
	Value int       `json:"value"`
}

// SleepSeries 单个睡眠区间及其时间序列
// 序列为 nil 表示未请求或不可用，与空列表不同
type SleepSeries struct {
	StartDate             time.Time              `json:"start_date"`
	EndDate               time.Time              `json:"end_date"`
	State                 SleepState             `json:"state"`
	HashedDeviceID        string                 `json:"hashed_device_id"`
	HeartRate             *[]SleepSeriesTimeData `json:"heart_rate,omitempty"`
	RespirationRate       *[]SleepSeriesTimeData `json:"respiration_rate,omitempty"`
	Snoring               *[]SleepSeriesTimeData `json:"snoring,omitempty"`
	HeartRateVariability  *[]SleepSeriesTimeData `json:"heart_rate_variability,omitempty"`
	HeartRateVariability2 *[]SleepSeriesTimeData `json:"heart_rate_variability_2,omitempty"`
	MovementScore         *[]SleepSeriesTimeData `json:"movement_score,omitempty"`
}

// DecodeSleepSeries 解码 v2/sleep get 的单个 series 元素
func (d *Decoder) DecodeSleepSeries(raw map[string]any) (SleepSeries, error) {
	w := newWire("sleep", raw)

	start, err := w.timestamp("startdate")
	if err != nil {
		return SleepSeries{}, err
	}
	end, err := w.timestamp("enddate")
	if err != nil {
		return SleepSeries{}, err
	}
	state, err := w.integer("state")
	if err != nil {
		return SleepSeries{}, err
	}
	hashedID, err := w.text("hash_deviceid")
	if err != nil {
		return SleepSeries{}, err
	}

	series := SleepSeries{
		StartDate:      start,
		EndDate:        end,
		State:          coerceEnum(d.logger, "SleepState", sleepStateNames, SleepState(state), SleepStateUnspecified),
		HashedDeviceID: hashedID,
	}
	targets := []struct {
		field SleepDataField
		dst   **[]SleepSeriesTimeData
	}{
		{SleepDataHeartRate, &series.HeartRate},
		{SleepDataRespirationRate, &series.RespirationRate},
		{SleepDataSnoring, &series.Snoring},
		{SleepDataHeartRateVariability, &series.HeartRateVariability},
		{SleepDataHeartRateVariability2, &series.HeartRateVariability2},
		{SleepDataMovementScore, &series.MovementScore},
	}
	for _, target := range targets {
		points, err := w.timeSeries(string(target.field))
		if err != nil {
			return SleepSeries{}, err
		}
		*target.dst = points
	}
	return series, nil
}

// timeSeries 解码 {"<epoch>": value} 形式的序列，按时间升序
func (w wire) timeSeries(key string) (*[]SleepSeriesTimeData, error) {
	v, ok := w.raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, w.badType(key, v)
	}
	points := make([]SleepSeriesTimeData, 0, len(m))
	for ts, raw := range m {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, &MissingFieldError{Entity: w.entity + "." + key, Key: ts, Reason: "is not an epoch timestamp"}
		}
		value, ok := toInt64(raw)
		if !ok {
			return nil, &MissingFieldError{Entity: w.entity + "." + key, Key: ts, Reason: fmt.Sprintf("has unexpected type %T", raw)}
		}
		points = append(points, SleepSeriesTimeData{Time: time.Unix(sec, 0).UTC(), Value: int(value)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return &points, nil
}

// SleepSummaryDataField v2/sleep getsummary 可请求的统计项
type SleepSummaryDataField string

const (
	SummaryREMSleepPhaseCount     SleepSummaryDataField = "nb_rem_episodes"
	SummarySleepEfficiency        SleepSummaryDataField = "sleep_efficiency"
	SummarySleepLatency           SleepSummaryDataField = "sleep_latency"
	SummaryTotalSleepTime         SleepSummaryDataField = "total_sleep_time"
	SummaryTotalTimeInBed         SleepSummaryDataField = "total_timeinbed"
	SummaryWakeUpLatency          SleepSummaryDataField = "wakeup_latency"
	SummaryTimeAwakeDuringSleep   SleepSummaryDataField = "waso"
	SummaryApneaHypopneaIndex     SleepSummaryDataField = "apnea_hypopnea_index"
	SummaryBreathingDisturbances  SleepSummaryDataField = "breathing_disturbances_intensity"
	SummaryExternalTotalSleepTime SleepSummaryDataField = "asleepduration"
	SummaryDeepSleepDuration      SleepSummaryDataField = "deepsleepduration"
	SummaryAverageHeartRate       SleepSummaryDataField = "hr_average"
	SummaryMinHeartRate           SleepSummaryDataField = "hr_min"
	SummaryMaxHeartRate           SleepSummaryDataField = "hr_max"
	SummaryLightSleepDuration     SleepSummaryDataField = "lightsleepduration"
	SummaryActiveMovementDuration SleepSummaryDataField = "mvt_active_duration"
	SummaryAverageMovementScore   SleepSummaryDataField = "mvt_score_avg"
	SummaryNightEvents            SleepSummaryDataField = "night_events"
	SummaryOutOfBedCount          SleepSummaryDataField = "out_of_bed_count"
	SummaryREMSleepDuration       SleepSummaryDataField = "remsleepduration"
	SummaryAverageRespirationRate SleepSummaryDataField = "rr_average"
	SummaryMinRespirationRate     SleepSummaryDataField = "rr_min"
	SummaryMaxRespirationRate     SleepSummaryDataField = "rr_max"
	SummarySleepScore             SleepSummaryDataField = "sleep_score"
	SummarySnoring                SleepSummaryDataField = "snoring"
	SummarySnoringCount           SleepSummaryDataField = "snoringepisodecount"
	SummaryWakeUpCount            SleepSummaryDataField = "wakeupcount"
	SummaryTotalTimeAwake         SleepSummaryDataField = "wakeupduration"
	SummaryWithingsIndex          SleepSummaryDataField = "withings_index"
)

// SleepSummary 一晚睡眠的汇总统计
// 每个统计项独立可选，nil 表示该记录未计算此项
type SleepSummary struct {
	StartDate                      time.Time `json:"start_date"`
	EndDate                        time.Time `json:"end_date"`
	Date                           Date      `json:"date"`
	HashedDeviceID                 string    `json:"hashed_device_id"`
	ApneaHypopneaIndex             *int      `json:"apnea_hypopnea_index,omitempty"`
	ExternalTimeAsleep             *int      `json:"external_time_asleep,omitempty"`
	BreathingDisturbancesIntensity *int      `json:"breathing_disturbances_intensity,omitempty"`
	DeepSleepDuration              *int      `json:"deep_sleep_duration,omitempty"`
	AverageHeartRate               *int      `json:"average_heart_rate,omitempty"`
	MinHeartRate                   *int      `json:"min_heart_rate,omitempty"`
	MaxHeartRate                   *int      `json:"max_heart_rate,omitempty"`
	LightSleepDuration             *int      `json:"light_sleep_duration,omitempty"`
	ActiveMovementDuration         *int      `json:"active_movement_duration,omitempty"`
	AverageMovementScore           *int      `json:"average_movement_score,omitempty"`
	REMSleepPhaseCount             *int      `json:"rem_sleep_phase_count,omitempty"`
	OutOfBedCount                  *int      `json:"out_of_bed_count,omitempty"`
	REMSleepDuration               *int      `json:"rem_sleep_duration,omitempty"`
	AverageRespirationRate         *int      `json:"average_respiration_rate,omitempty"`
	MinRespirationRate             *int      `json:"min_respiration_rate,omitempty"`
	MaxRespirationRate             *int      `json:"max_respiration_rate,omitempty"`
	SleepEfficiency                *int      `json:"sleep_efficiency,omitempty"`
	SleepLatency                   *int      `json:"sleep_latency,omitempty"`
	SleepScore                     *int      `json:"sleep_score,omitempty"`
	Snoring                        *int      `json:"snoring,omitempty"`
	SnoringCount                   *int      `json:"snoring_count,omitempty"`
	TotalSleepTime                 *int      `json:"total_sleep_time,omitempty"`
	TotalTimeInBed                 *int      `json:"total_time_in_bed,omitempty"`
	WakeUpLatency                  *int      `json:"wake_up_latency,omitempty"`
	WakeUpCount                    *int      `json:"wake_up_count,omitempty"`
	TotalTimeAwake                 *int      `json:"total_time_awake,omitempty"`
	TimeAwakeDuringSleep           *int      `json:"time_awake_during_sleep,omitempty"`
	WithingsIndex                  *int      `json:"withings_index,omitempty"`
}

// DecodeSleepSummary 解码 v2/sleep getsummary 的单个 series 元素
func (d *Decoder) DecodeSleepSummary(raw map[string]any) (SleepSummary, error) {
	w := newWire("sleep_summary", raw)

	start, err := w.timestamp("startdate")
	if err != nil {
		return SleepSummary{}, err
	}
	end, err := w.timestamp("enddate")
	if err != nil {
		return SleepSummary{}, err
	}
	date, err := w.date("date")
	if err != nil {
		return SleepSummary{}, err
	}
	hashedID, err := w.text("hash_deviceid")
	if err != nil {
		return SleepSummary{}, err
	}
	data, err := w.object("data")
	if err != nil {
		return SleepSummary{}, err
	}

	stat := func(f SleepSummaryDataField) *int { return data.optInt(string(f)) }
	return SleepSummary{
		StartDate:                      start,
		EndDate:                        end,
		Date:                           date,
		HashedDeviceID:                 hashedID,
		ApneaHypopneaIndex:             stat(SummaryApneaHypopneaIndex),
		ExternalTimeAsleep:             stat(SummaryExternalTotalSleepTime),
		BreathingDisturbancesIntensity: stat(SummaryBreathingDisturbances),
		DeepSleepDuration:              stat(SummaryDeepSleepDuration),
		AverageHeartRate:               stat(SummaryAverageHeartRate),
		MinHeartRate:                   stat(SummaryMinHeartRate),
		MaxHeartRate:                   stat(SummaryMaxHeartRate),
		LightSleepDuration:             stat(SummaryLightSleepDuration),
		ActiveMovementDuration:         stat(SummaryActiveMovementDuration),
		AverageMovementScore:           stat(SummaryAverageMovementScore),
		REMSleepPhaseCount:             stat(SummaryREMSleepPhaseCount),
		OutOfBedCount:                  stat(SummaryOutOfBedCount),
		REMSleepDuration:               stat(SummaryREMSleepDuration),
		AverageRespirationRate:         stat(SummaryAverageRespirationRate),
		MinRespirationRate:             stat(SummaryMinRespirationRate),
		MaxRespirationRate:             stat(SummaryMaxRespirationRate),
		SleepEfficiency:                stat(SummarySleepEfficiency),
		SleepLatency:                   stat(SummarySleepLatency),
		SleepScore:                     stat(SummarySleepScore),
		Snoring:                        stat(SummarySnoring),
		SnoringCount:                   stat(SummarySnoringCount),
		TotalSleepTime:                 stat(SummaryTotalSleepTime),
		TotalTimeInBed:                 stat(SummaryTotalTimeInBed),
		WakeUpLatency:                  stat(SummaryWakeUpLatency),
		WakeUpCount:                    stat(SummaryWakeUpCount),
		TotalTimeAwake:                 stat(SummaryTotalTimeAwake),
		TimeAwakeDuringSleep:           stat(SummaryTimeAwakeDuringSleep),
		WithingsIndex:                  stat(SummaryWithingsIndex),
	}, nil
}
