package models

import (
	"fmt"
	"time"
)

// ActivityDataField v2/measure getactivity 可请求的字段
type ActivityDataField string

const (
	ActivitySteps                 ActivityDataField = "steps"
	ActivityDistance              ActivityDataField = "distance"
	ActivityElevation             ActivityDataField = "elevation"
	ActivitySoft                  ActivityDataField = "soft"
	ActivityModerate              ActivityDataField = "moderate"
	ActivityIntense               ActivityDataField = "intense"
	ActivityTotalTimeActive       ActivityDataField = "active"
	ActivityActiveCaloriesBurnt   ActivityDataField = "calories"
	ActivityTotalCaloriesBurnt    ActivityDataField = "totalcalories"
	ActivityAverageHeartRate      ActivityDataField = "hr_average"
	ActivityMinHeartRate          ActivityDataField = "hr_min"
	ActivityMaxHeartRate          ActivityDataField = "hr_max"
	ActivityHeartRateLightZone    ActivityDataField = "hr_zone_0"
	ActivityHeartRateModerateZone ActivityDataField = "hr_zone_1"
	ActivityHeartRateIntenseZone  ActivityDataField = "hr_zone_2"
	ActivityHeartRateMaximalZone  ActivityDataField = "hr_zone_3"
)

// ActivityDataOrigin 活动数据来源（brand）
type ActivityDataOrigin int

const (
	ActivityOriginUnknown  ActivityDataOrigin = -1
	ActivityOriginWithings ActivityDataOrigin = 1
	ActivityOriginExternal ActivityDataOrigin = 18
)

var activityOriginNames = map[ActivityDataOrigin]string{
	ActivityOriginUnknown:  "UNKNOWN",
	ActivityOriginWithings: "WITHINGS",
	ActivityOriginExternal: "EXTERNAL",
}

func (o ActivityDataOrigin) String() string {
	if name, ok := activityOriginNames[o]; ok {
		return name
	}
	return fmt.Sprintf("ActivityDataOrigin(%d)", int(o))
}

// Activity 一天的活动汇总
// 心率相关的七个字段要么全部有值，要么全部为 nil
type Activity struct {
	Steps                         int                `json:"steps"`
	Distance                      float64            `json:"distance"`
	Elevation                     float64            `json:"elevation"`
	SoftActivity                  int                `json:"soft_activity"`
	ModerateActivity              int                `json:"moderate_activity"`
	IntenseActivity               int                `json:"intense_activity"`
	TotalTimeActive               int                `json:"total_time_active"`
	ActiveCaloriesBurnt           float64            `json:"active_calories_burnt"`
	TotalCaloriesBurnt            float64            `json:"total_calories_burnt"`
	AverageHeartRate              *int               `json:"average_heart_rate,omitempty"`
	MinHeartRate                  *int               `json:"min_heart_rate,omitempty"`
	MaxHeartRate                  *int               `json:"max_heart_rate,omitempty"`
	DurationHeartRateLightZone    *int               `json:"duration_heart_rate_light_zone,omitempty"`
	DurationHeartRateModerateZone *int               `json:"duration_heart_rate_moderate_zone,omitempty"`
	DurationHeartRateIntenseZone  *int               `json:"duration_heart_rate_intense_zone,omitempty"`
	DurationHeartRateMaximalZone  *int               `json:"duration_heart_rate_maximal_zone,omitempty"`
	Date                          Date               `json:"date"`
	Modified                      time.Time          `json:"modified"`
	IsWithingsTracker             bool               `json:"is_withings_tracker"`
	Origin                        ActivityDataOrigin `json:"origin"`
}

// DecodeActivity 解码 v2/measure getactivity 的单个 activities 元素
func (d *Decoder) DecodeActivity(raw map[string]any) (Activity, error) {
	w := newWire("activity", raw)

	var (
		a   Activity
		err error
	)
	ints := []struct {
		field ActivityDataField
		dst   *int
	}{
		{ActivitySteps, &a.Steps},
		{ActivitySoft, &a.SoftActivity},
		{ActivityModerate, &a.ModerateActivity},
		{ActivityIntense, &a.IntenseActivity},
		{ActivityTotalTimeActive, &a.TotalTimeActive},
	}
	for _, f := range ints {
		n, err := w.integer(string(f.field))
		if err != nil {
			return Activity{}, err
		}
		*f.dst = int(n)
	}
	floats := []struct {
		field ActivityDataField
		dst   *float64
	}{
		{ActivityDistance, &a.Distance},
		{ActivityElevation, &a.Elevation},
		{ActivityActiveCaloriesBurnt, &a.ActiveCaloriesBurnt},
		{ActivityTotalCaloriesBurnt, &a.TotalCaloriesBurnt},
	}
	for _, f := range floats {
		if *f.dst, err = w.number(string(f.field)); err != nil {
			return Activity{}, err
		}
	}

	// 心率块整体判断：只看 hr_average 是否存在且非 0
	if hr := w.nonZeroInt(string(ActivityAverageHeartRate)); hr != nil {
		a.AverageHeartRate = hr
		a.MinHeartRate = w.optInt(string(ActivityMinHeartRate))
		a.MaxHeartRate = w.optInt(string(ActivityMaxHeartRate))
		a.DurationHeartRateLightZone = w.optInt(string(ActivityHeartRateLightZone))
		a.DurationHeartRateModerateZone = w.optInt(string(ActivityHeartRateModerateZone))
		a.DurationHeartRateIntenseZone = w.optInt(string(ActivityHeartRateIntenseZone))
		a.DurationHeartRateMaximalZone = w.optInt(string(ActivityHeartRateMaximalZone))
	}

	if a.Date, err = w.date("date"); err != nil {
		return Activity{}, err
	}
	if a.Modified, err = w.timestamp("modified"); err != nil {
		return Activity{}, err
	}
	if a.IsWithingsTracker, err = w.flag("is_tracker"); err != nil {
		return Activity{}, err
	}
	brand, err := w.integer("brand")
	if err != nil {
		return Activity{}, err
	}
	a.Origin = coerceEnum(d.logger, "ActivityDataOrigin", activityOriginNames, ActivityDataOrigin(brand), ActivityOriginUnknown)
	return a, nil
}
