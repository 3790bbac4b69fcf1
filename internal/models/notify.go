package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AuthScope OAuth2 授权范围
type AuthScope string

const (
	ScopeUserInfo        AuthScope = "user.info"
	ScopeUserMetrics     AuthScope = "user.metrics"
	ScopeUserActivity    AuthScope = "user.activity"
	ScopeUserSleepEvents AuthScope = "user.sleepevents"
)

// NotificationCategory 通知类别（appli）
type NotificationCategory int

const (
	NotificationUnknown              NotificationCategory = 0
	NotificationWeight               NotificationCategory = 1
	NotificationTemperature          NotificationCategory = 2
	NotificationPressure             NotificationCategory = 4
	NotificationActivity             NotificationCategory = 16
	NotificationSleep                NotificationCategory = 44
	NotificationUserData             NotificationCategory = 46
	NotificationInBed                NotificationCategory = 50
	NotificationOutBed               NotificationCategory = 51
	NotificationInitialInflationDone NotificationCategory = 52
	NotificationNoAccountAssociated  NotificationCategory = 53
	NotificationECG                  NotificationCategory = 54
	NotificationECGFailed            NotificationCategory = 55
	NotificationGlucose              NotificationCategory = 58
)

var notificationCategoryNames = map[NotificationCategory]string{
	NotificationUnknown:              "UNKNOWN",
	NotificationWeight:               "WEIGHT",
	NotificationTemperature:          "TEMPERATURE",
	NotificationPressure:             "PRESSURE",
	NotificationActivity:             "ACTIVITY",
	NotificationSleep:                "SLEEP",
	NotificationUserData:             "USER_DATA",
	NotificationInBed:                "IN_BED",
	NotificationOutBed:               "OUT_BED",
	NotificationInitialInflationDone: "INITIAL_INFLATION_DONE",
	NotificationNoAccountAssociated:  "NO_ACCOUNT_ASSOCIATED",
	NotificationECG:                  "ECG",
	NotificationECGFailed:            "ECG_FAILED",
	NotificationGlucose:              "GLUCOSE",
}

func (c NotificationCategory) String() string {
	if name, ok := notificationCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("NotificationCategory(%d)", int(c))
}

// Services 应用可访问的服务（位标志）
type Services int

const (
	ServiceMeasureGetMeas Services = 1 << iota
	ServiceMeasureGetActivity
	ServiceMeasureGetIntraDayActivity
	ServiceMeasureGetWorkouts
	ServiceSleepGetSleep
	ServiceSleepGetSummary
	ServiceUserActivate
	ServiceUserLink
	ServiceHeartList
)

var serviceNames = []struct {
	flag Services
	name string
}{
	{ServiceMeasureGetMeas, "MEASURE_GET_MEAS"},
	{ServiceMeasureGetActivity, "MEASURE_V2_GET_ACTIVITY"},
	{ServiceMeasureGetIntraDayActivity, "MEASURE_V2_GET_INTRA_DAY_ACTIVITY"},
	{ServiceMeasureGetWorkouts, "MEASURE_V2_GET_WORKOUTS"},
	{ServiceSleepGetSleep, "SLEEP_V2_GET_SLEEP"},
	{ServiceSleepGetSummary, "SLEEP_V2_GET_SUMMARY"},
	{ServiceUserActivate, "USER_V2_ACTIVATE"},
	{ServiceUserLink, "USER_V2_LINK"},
	{ServiceHeartList, "HEART_V2_LIST"},
}

// Has 是否包含 flag 的全部位
func (s Services) Has(flag Services) bool {
	return s&flag == flag
}

func (s Services) String() string {
	if s == 0 {
		return "0"
	}
	var parts []string
	rest := s
	for _, n := range serviceNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", int(rest)))
	}
	return strings.Join(parts, "|")
}

// MeasurementTypesForCategory 收到该类别的通知后需要重新拉取的测量类型
// 非测量类通知返回空
func MeasurementTypesForCategory(category NotificationCategory) []MeasurementType {
	switch category {
	case NotificationWeight:
		return []MeasurementType{
			MeasurementTypeWeight,
			MeasurementTypeFatFreeMass,
			MeasurementTypeFatRatio,
			MeasurementTypeFatMassWeight,
			MeasurementTypeBodyTemperature,
			MeasurementTypeSkinTemperature,
			MeasurementTypeMuscleMass,
			MeasurementTypeHydration,
			MeasurementTypeBoneMass,
			MeasurementTypePulseWaveVelocity,
		}
	case NotificationTemperature:
		return []MeasurementType{
			MeasurementTypeTemperature,
			MeasurementTypeBodyTemperature,
			MeasurementTypeSkinTemperature,
		}
	case NotificationPressure:
		return []MeasurementType{
			MeasurementTypeDiastolicBloodPressure,
			MeasurementTypeSystolicBloodPressure,
			MeasurementTypeHeartRate,
			MeasurementTypeSpO2,
		}
	}
	return nil
}

// NotificationConfiguration 已订阅的 webhook
type NotificationConfiguration struct {
	Category    NotificationCategory `json:"category"`
	CallbackURL string               `json:"callback_url"`
	Comment     string               `json:"comment"`
	Expires     *time.Time           `json:"expires,omitempty"`
}

// DecodeNotificationConfiguration 解码 notify list 的单个 profiles 元素
func (d *Decoder) DecodeNotificationConfiguration(raw map[string]any) (NotificationConfiguration, error) {
	w := newWire("notification_configuration", raw)

	appli, err := w.integer("appli")
	if err != nil {
		return NotificationConfiguration{}, err
	}
	callback, err := w.text("callbackurl")
	if err != nil {
		return NotificationConfiguration{}, err
	}
	comment, err := w.text("comment")
	if err != nil {
		return NotificationConfiguration{}, err
	}
	expires, err := w.optTimestamp("expires")
	if err != nil {
		return NotificationConfiguration{}, err
	}
	return NotificationConfiguration{
		Category:    coerceEnum(d.logger, "NotificationCategory", notificationCategoryNames, NotificationCategory(appli), NotificationUnknown),
		CallbackURL: callback,
		Comment:     comment,
		Expires:     expires,
	}, nil
}

// WebhookCall Withings 推送到回调地址的一次通知
type WebhookCall struct {
	UserID    int64                `json:"user_id"`
	Category  NotificationCategory `json:"category"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
}

// DecodeWebhookCall 解码 JSON 形式的 webhook 通知
func (d *Decoder) DecodeWebhookCall(raw map[string]any) (WebhookCall, error) {
	w := newWire("webhook_call", raw)

	user, err := w.integer("userid")
	if err != nil {
		return WebhookCall{}, err
	}
	appli, err := w.integer("appli")
	if err != nil {
		return WebhookCall{}, err
	}
	start, err := w.timestamp("startdate")
	if err != nil {
		return WebhookCall{}, err
	}
	end, err := w.timestamp("enddate")
	if err != nil {
		return WebhookCall{}, err
	}
	return WebhookCall{
		UserID:    user,
		Category:  coerceEnum(d.logger, "NotificationCategory", notificationCategoryNames, NotificationCategory(appli), NotificationUnknown),
		StartDate: start,
		EndDate:   end,
	}, nil
}

// DecodeWebhookForm 解码表单形式（application/x-www-form-urlencoded）的 webhook 通知
// Withings 实际以表单 POST 回调地址
func (d *Decoder) DecodeWebhookForm(form url.Values) (WebhookCall, error) {
	raw := make(map[string]any, len(form))
	for _, key := range []string{"userid", "appli", "startdate", "enddate"} {
		if !form.Has(key) {
			continue
		}
		s := form.Get(key)
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return WebhookCall{}, &MissingFieldError{Entity: "webhook_call", Key: key, Reason: fmt.Sprintf("is not an integer: %q", s)}
		}
		raw[key] = n
	}
	return d.DecodeWebhookCall(raw)
}
