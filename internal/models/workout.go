package models

import (
	"fmt"
	"time"
)

// WorkoutCategory 运动类别
type WorkoutCategory int

const (
	WorkoutWalk          WorkoutCategory = 1
	WorkoutRun           WorkoutCategory = 2
	WorkoutHiking        WorkoutCategory = 3
	WorkoutSkating       WorkoutCategory = 4
	WorkoutBMX           WorkoutCategory = 5
	WorkoutBicycling     WorkoutCategory = 6
	WorkoutSwimming      WorkoutCategory = 7
	WorkoutSurfing       WorkoutCategory = 8
	WorkoutKitesurfing   WorkoutCategory = 9
	WorkoutWindsurfing   WorkoutCategory = 10
	WorkoutBodyboard     WorkoutCategory = 11
	WorkoutTennis        WorkoutCategory = 12
	WorkoutTableTennis   WorkoutCategory = 13
	WorkoutSquash        WorkoutCategory = 14
	WorkoutBadminton     WorkoutCategory = 15
	WorkoutLiftWeights   WorkoutCategory = 16
	WorkoutCalisthenics  WorkoutCategory = 17
	WorkoutElliptical    WorkoutCategory = 18
	WorkoutPilates       WorkoutCategory = 19
	WorkoutBasketBall    WorkoutCategory = 20
	WorkoutSoccer        WorkoutCategory = 21
	WorkoutFootball      WorkoutCategory = 22
	WorkoutRugby         WorkoutCategory = 23
	WorkoutVolleyBall    WorkoutCategory = 24
	WorkoutWaterpolo     WorkoutCategory = 25
	WorkoutHorseRiding   WorkoutCategory = 26
	WorkoutGolf          WorkoutCategory = 27
	WorkoutYoga          WorkoutCategory = 28
	WorkoutDancing       WorkoutCategory = 29
	WorkoutBoxing        WorkoutCategory = 30
	WorkoutFencing       WorkoutCategory = 31
	WorkoutWrestling     WorkoutCategory = 32
	WorkoutMartialArts   WorkoutCategory = 33
	WorkoutSkiing        WorkoutCategory = 34
	WorkoutSnowboarding  WorkoutCategory = 35
	WorkoutOther         WorkoutCategory = 36
	WorkoutNoActivity    WorkoutCategory = 128
	WorkoutRowing        WorkoutCategory = 187
	WorkoutZumba         WorkoutCategory = 188
	WorkoutBaseball      WorkoutCategory = 191
	WorkoutHandball      WorkoutCategory = 192
	WorkoutHockey        WorkoutCategory = 193
	WorkoutIceHockey     WorkoutCategory = 194
	WorkoutClimbing      WorkoutCategory = 195
	WorkoutIceSkating    WorkoutCategory = 196
	WorkoutMultiSport    WorkoutCategory = 272
	WorkoutIndoorWalk    WorkoutCategory = 306
	WorkoutIndoorRunning WorkoutCategory = 307
	WorkoutIndoorCycling WorkoutCategory = 308
)

var workoutCategoryNames = map[WorkoutCategory]string{
	WorkoutWalk:          "WALK",
	WorkoutRun:           "RUN",
	WorkoutHiking:        "HIKING",
	WorkoutSkating:       "SKATING",
	WorkoutBMX:           "BMX",
	WorkoutBicycling:     "BICYCLING",
	WorkoutSwimming:      "SWIMMING",
	WorkoutSurfing:       "SURFING",
	WorkoutKitesurfing:   "KITESURFING",
	WorkoutWindsurfing:   "WINDSURFING",
	WorkoutBodyboard:     "BODYBOARD",
	WorkoutTennis:        "TENNIS",
	WorkoutTableTennis:   "TABLE_TENNIS",
	WorkoutSquash:        "SQUASH",
	WorkoutBadminton:     "BADMINTON",
	WorkoutLiftWeights:   "LIFT_WEIGHTS",
	WorkoutCalisthenics:  "CALISTHENICS",
	WorkoutElliptical:    "ELLIPTICAL",
	WorkoutPilates:       "PILATES",
	WorkoutBasketBall:    "BASKET_BALL",
	WorkoutSoccer:        "SOCCER",
	WorkoutFootball:      "FOOTBALL",
	WorkoutRugby:         "RUGBY",
	WorkoutVolleyBall:    "VOLLEY_BALL",
	WorkoutWaterpolo:     "WATERPOLO",
	WorkoutHorseRiding:   "HORSE_RIDING",
	WorkoutGolf:          "GOLF",
	WorkoutYoga:          "YOGA",
	WorkoutDancing:       "DANCING",
	WorkoutBoxing:        "BOXING",
	WorkoutFencing:       "FENCING",
	WorkoutWrestling:     "WRESTLING",
	WorkoutMartialArts:   "MARTIAL_ARTS",
	WorkoutSkiing:        "SKIING",
	WorkoutSnowboarding:  "SNOWBOARDING",
	WorkoutOther:         "OTHER",
	WorkoutNoActivity:    "NO_ACTIVITY",
	WorkoutRowing:        "ROWING",
	WorkoutZumba:         "ZUMBA",
	WorkoutBaseball:      "BASEBALL",
	WorkoutHandball:      "HANDBALL",
	WorkoutHockey:        "HOCKEY",
	WorkoutIceHockey:     "ICE_HOCKEY",
	WorkoutClimbing:      "CLIMBING",
	WorkoutIceSkating:    "ICE_SKATING",
	WorkoutMultiSport:    "MULTI_SPORT",
	WorkoutIndoorWalk:    "INDOOR_WALK",
	WorkoutIndoorRunning: "INDOOR_RUNNING",
	WorkoutIndoorCycling: "INDOOR_CYCLING",
}

func (c WorkoutCategory) String() string {
	if name, ok := workoutCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("WorkoutCategory(%d)", int(c))
}

// WorkoutDataField v2/measure getworkouts 可请求的字段
type WorkoutDataField string

const (
	WorkoutDataCalories              WorkoutDataField = "calories"
	WorkoutDataIntensity             WorkoutDataField = "intensity"
	WorkoutDataManualDistance        WorkoutDataField = "manual_distance"
	WorkoutDataManualCalories        WorkoutDataField = "manual_calories"
	WorkoutDataAverageHeartRate      WorkoutDataField = "hr_average"
	WorkoutDataMinHeartRate          WorkoutDataField = "hr_min"
	WorkoutDataMaxHeartRate          WorkoutDataField = "hr_max"
	WorkoutDataHeartRateLightZone    WorkoutDataField = "hr_zone_0"
	WorkoutDataHeartRateModerateZone WorkoutDataField = "hr_zone_1"
	WorkoutDataHeartRateIntenseZone  WorkoutDataField = "hr_zone_2"
	WorkoutDataHeartRateMaximalZone  WorkoutDataField = "hr_zone_3"
	WorkoutDataPauseDuration         WorkoutDataField = "pause_duration"
	WorkoutDataAlgoPauseDuration     WorkoutDataField = "algo_pause_duration"
	WorkoutDataSpO2Average           WorkoutDataField = "spo2_average"
	WorkoutDataSteps                 WorkoutDataField = "steps"
	WorkoutDataDistance              WorkoutDataField = "distance"
	WorkoutDataElevation             WorkoutDataField = "elevation"
	WorkoutDataPoolLaps              WorkoutDataField = "pool_laps"
	WorkoutDataStrokes               WorkoutDataField = "strokes"
	WorkoutDataPoolLength            WorkoutDataField = "pool_length"
)

// Workout 一次运动记录
// 可选指标仅在字段存在且非 0 时有值（0 视为未上报）
type Workout struct {
	WorkoutID   int64                  `json:"workout_id"`
	Category    WorkoutCategory        `json:"category"`
	Attribution MeasurementAttribution `json:"attribution"`
	StartDate   time.Time              `json:"start_date"`
	EndDate     time.Time              `json:"end_date"`
	Date        Date                   `json:"date"`

	ActiveCaloriesBurnt           *int `json:"active_calories_burnt,omitempty"`
	Distance                      *int `json:"distance,omitempty"`
	Elevation                     *int `json:"elevation,omitempty"`
	AverageHeartRate              *int `json:"average_heart_rate,omitempty"`
	MinHeartRate                  *int `json:"min_heart_rate,omitempty"`
	MaxHeartRate                  *int `json:"max_heart_rate,omitempty"`
	DurationHeartRateLightZone    *int `json:"duration_heart_rate_light_zone,omitempty"`
	DurationHeartRateModerateZone *int `json:"duration_heart_rate_moderate_zone,omitempty"`
	DurationHeartRateIntenseZone  *int `json:"duration_heart_rate_intense_zone,omitempty"`
	DurationHeartRateMaximalZone  *int `json:"duration_heart_rate_maximal_zone,omitempty"`
	Intensity                     *int `json:"intensity,omitempty"`
	PauseDuration                 *int `json:"pause_duration,omitempty"`
	SpO2Average                   *int `json:"spo2_average,omitempty"`
	Steps                         *int `json:"steps,omitempty"`
}

// DecodeWorkout 解码 v2/measure getworkouts 的单个 series 元素
func (d *Decoder) DecodeWorkout(raw map[string]any) (Workout, error) {
	w := newWire("workout", raw)

	id, err := w.integer("id")
	if err != nil {
		return Workout{}, err
	}
	category, err := w.integer("category")
	if err != nil {
		return Workout{}, err
	}
	attrib, err := w.integer("attrib")
	if err != nil {
		return Workout{}, err
	}
	start, err := w.timestamp("startdate")
	if err != nil {
		return Workout{}, err
	}
	end, err := w.timestamp("enddate")
	if err != nil {
		return Workout{}, err
	}
	date, err := w.date("date")
	if err != nil {
		return Workout{}, err
	}
	data, err := w.object("data")
	if err != nil {
		return Workout{}, err
	}

	metric := func(f WorkoutDataField) *int { return data.nonZeroInt(string(f)) }
	return Workout{
		WorkoutID:   id,
		Category:    coerceEnum(d.logger, "WorkoutCategory", workoutCategoryNames, WorkoutCategory(category), WorkoutOther),
		Attribution: coerceEnum(d.logger, "MeasurementAttribution", attributionNames, MeasurementAttribution(attrib), AttributionUnknown),
		StartDate:   start,
		EndDate:     end,
		Date:        date,

		ActiveCaloriesBurnt:           metric(WorkoutDataCalories),
		Distance:                      metric(WorkoutDataDistance),
		Elevation:                     metric(WorkoutDataElevation),
		AverageHeartRate:              metric(WorkoutDataAverageHeartRate),
		MinHeartRate:                  metric(WorkoutDataMinHeartRate),
		MaxHeartRate:                  metric(WorkoutDataMaxHeartRate),
		DurationHeartRateLightZone:    metric(WorkoutDataHeartRateLightZone),
		DurationHeartRateModerateZone: metric(WorkoutDataHeartRateModerateZone),
		DurationHeartRateIntenseZone:  metric(WorkoutDataHeartRateIntenseZone),
		DurationHeartRateMaximalZone:  metric(WorkoutDataHeartRateMaximalZone),
		Intensity:                     metric(WorkoutDataIntensity),
		PauseDuration:                 metric(WorkoutDataPauseDuration),
		SpO2Average:                   metric(WorkoutDataSpO2Average),
		Steps:                         metric(WorkoutDataSteps),
	}, nil
}
