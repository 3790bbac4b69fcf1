package models

import (
	"fmt"
	"time"
)

// DeviceModel 设备型号（model_id）
type DeviceModel int

const (
	DeviceModelUnknown                        DeviceModel = 0
	DeviceModelWBS01                          DeviceModel = 1
	DeviceModelWS30                           DeviceModel = 2
	DeviceModelKidScale                       DeviceModel = 3
	DeviceModelSmartBodyAnalyzer              DeviceModel = 4
	DeviceModelBodyPlus                       DeviceModel = 5
	DeviceModelBodyCardio                     DeviceModel = 6
	DeviceModelBody                           DeviceModel = 7
	DeviceModelBodyPro                        DeviceModel = 9
	DeviceModelBodyScan                       DeviceModel = 10
	DeviceModelWBS10                          DeviceModel = 11
	DeviceModelWBS11                          DeviceModel = 12
	DeviceModelSleepAnalyzer                  DeviceModel = 13
	DeviceModelSmartBabyMonitor               DeviceModel = 21
	DeviceModelWithingsHome                   DeviceModel = 22
	DeviceModelBloodPressureMonitorV1         DeviceModel = 41
	DeviceModelBloodPressureMonitorV2         DeviceModel = 42
	DeviceModelBloodPressureMonitorV3         DeviceModel = 43
	DeviceModelBPMCore                        DeviceModel = 44
	DeviceModelBPMConnect                     DeviceModel = 45
	DeviceModelBPMConnectPro                  DeviceModel = 46
	DeviceModelPulse                          DeviceModel = 51
	DeviceModelActivite                       DeviceModel = 52
	DeviceModelActivitePopSteel               DeviceModel = 53
	DeviceModelWithingsGo                     DeviceModel = 54
	DeviceModelActiviteSteelHR                DeviceModel = 55
	DeviceModelPulseHR                        DeviceModel = 58
	DeviceModelActiviteSteelHRSportEdition    DeviceModel = 59
	DeviceModelAuraDock                       DeviceModel = 60
	DeviceModelAuraSensor                     DeviceModel = 61
	DeviceModelAuraSensorV2                   DeviceModel = 63
	DeviceModelThermo                         DeviceModel = 70
	DeviceModelMove                           DeviceModel = 90
	DeviceModelMoveECG1                       DeviceModel = 91
	DeviceModelMoveECG2                       DeviceModel = 92
	DeviceModelScanWatch                      DeviceModel = 93
	DeviceModelWUP01                          DeviceModel = 100
	DeviceModelIOSStepTracker1                DeviceModel = 1051
	DeviceModelIOSStepTracker2                DeviceModel = 1052
	DeviceModelAndroidStepTracker1            DeviceModel = 1053
	DeviceModelAndroidStepTracker2            DeviceModel = 1054
	DeviceModelGoogleFitTracker               DeviceModel = 1055
	DeviceModelSamsungHealthTracker           DeviceModel = 1056
	DeviceModelHealthKitStepIPhoneTracker     DeviceModel = 1057
	DeviceModelHealthKitStepAppleWatchTracker DeviceModel = 1058
	DeviceModelHealthKitOtherStepTracker      DeviceModel = 1059
	DeviceModelAndroidStepTracker3            DeviceModel = 1060
	DeviceModelIGlucoseGlucometer             DeviceModel = 1061
	DeviceModelHuaweiTracker                  DeviceModel = 1062
)

var deviceModelNames = map[DeviceModel]string{
	DeviceModelUnknown:                        "UNKNOWN",
	DeviceModelWBS01:                          "WBS01",
	DeviceModelWS30:                           "WS30",
	DeviceModelKidScale:                       "KID_SCALE",
	DeviceModelSmartBodyAnalyzer:              "SMART_BODY_ANALYZER",
	DeviceModelBodyPlus:                       "BODY_PLUS",
	DeviceModelBodyCardio:                     "BODY_CARDIO",
	DeviceModelBody:                           "BODY",
	DeviceModelBodyPro:                        "BODY_PRO",
	DeviceModelBodyScan:                       "BODY_SCAN",
	DeviceModelWBS10:                          "WBS10",
	DeviceModelWBS11:                          "WBS11",
	DeviceModelSleepAnalyzer:                  "SLEEP_ANALYZER",
	DeviceModelSmartBabyMonitor:               "SMART_BABY_MONITOR",
	DeviceModelWithingsHome:                   "WITHINGS_HOME",
	DeviceModelBloodPressureMonitorV1:         "WITHINGS_BLOOD_PRESSURE_MONITOR_V1",
	DeviceModelBloodPressureMonitorV2:         "WITHINGS_BLOOD_PRESSURE_MONITOR_V2",
	DeviceModelBloodPressureMonitorV3:         "WITHINGS_BLOOD_PRESSURE_MONITOR_V3",
	DeviceModelBPMCore:                        "BPM_CORE",
	DeviceModelBPMConnect:                     "BPM_CONNECT",
	DeviceModelBPMConnectPro:                  "BPM_CONNECT_PRO",
	DeviceModelPulse:                          "PULSE",
	DeviceModelActivite:                       "ACTIVITE",
	DeviceModelActivitePopSteel:               "ACTIVITE_POP_STEEL",
	DeviceModelWithingsGo:                     "WITHINGS_GO",
	DeviceModelActiviteSteelHR:                "ACTIVITE_STEEL_HR",
	DeviceModelPulseHR:                        "PULSE_HR",
	DeviceModelActiviteSteelHRSportEdition:    "ACTIVITE_STEEL_HR_SPORT_EDITION",
	DeviceModelAuraDock:                       "AURA_DOCK",
	DeviceModelAuraSensor:                     "AURA_SENSOR",
	DeviceModelAuraSensorV2:                   "AURA_SENSOR_V2",
	DeviceModelThermo:                         "THERMO",
	DeviceModelMove:                           "MOVE",
	DeviceModelMoveECG1:                       "MOVE_ECG_1",
	DeviceModelMoveECG2:                       "MOVE_ECG_2",
	DeviceModelScanWatch:                      "SCANWATCH",
	DeviceModelWUP01:                          "WUP01",
	DeviceModelIOSStepTracker1:                "IOS_STEP_TRACKER_1",
	DeviceModelIOSStepTracker2:                "IOS_STEP_TRACKER_2",
	DeviceModelAndroidStepTracker1:            "ANDROID_STEP_TRACKER_1",
	DeviceModelAndroidStepTracker2:            "ANDROID_STEP_TRACKER_2",
	DeviceModelGoogleFitTracker:               "GOOGLE_FIT_TRACKER",
	DeviceModelSamsungHealthTracker:           "SAMSUNG_HEALTH_TRACKER",
	DeviceModelHealthKitStepIPhoneTracker:     "HEALTHKIT_STEP_IPHONE_TRACKER",
	DeviceModelHealthKitStepAppleWatchTracker: "HEALTHKIT_STEP_APPLE_WATCH_TRACKER",
	DeviceModelHealthKitOtherStepTracker:      "HEALTHKIT_OTHER_STEP_TRACKER",
	DeviceModelAndroidStepTracker3:            "ANDROID_STEP_TRACKER_3",
	DeviceModelIGlucoseGlucometer:             "IGLUCOSE_GLUCOMETER",
	DeviceModelHuaweiTracker:                  "HUAWEI_TRACKER",
}

func (m DeviceModel) String() string {
	if name, ok := deviceModelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DeviceModel(%d)", int(m))
}

// DeviceType 设备类型
type DeviceType string

const (
	DeviceTypeUnknown                   DeviceType = "unknown"
	DeviceTypeScale                     DeviceType = "Scale"
	DeviceTypeBabyphone                 DeviceType = "Babyphone"
	DeviceTypeBloodPressureMonitor      DeviceType = "Blood Pressure Monitor"
	DeviceTypeActivityTracker           DeviceType = "Activity Tracker"
	DeviceTypeSleepMonitor              DeviceType = "Sleep Monitor"
	DeviceTypeSmartConnectedThermometer DeviceType = "Smart Connected Thermometer"
	DeviceTypeGateway                   DeviceType = "Gateway"
	DeviceTypeIGlucose                  DeviceType = "iGlucose"
	DeviceTypeHealthKitApple            DeviceType = "HealthKit Apple"
	DeviceTypeHealthKitGoogle           DeviceType = "HealthKit Google"
	DeviceTypeHealthKitHuawei           DeviceType = "HealthKit Huawei"
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeUnknown:                   "UNKNOWN",
	DeviceTypeScale:                     "SCALE",
	DeviceTypeBabyphone:                 "BABYPHONE",
	DeviceTypeBloodPressureMonitor:      "BLOOD_PRESSURE_MONITOR",
	DeviceTypeActivityTracker:           "ACTIVITY_TRACKER",
	DeviceTypeSleepMonitor:              "SLEEP_MONITOR",
	DeviceTypeSmartConnectedThermometer: "SMART_CONNECTED_THERMOMETER",
	DeviceTypeGateway:                   "GATEWAY",
	DeviceTypeIGlucose:                  "IGLUCOSE",
	DeviceTypeHealthKitApple:            "HEALTHKIT_APPLE",
	DeviceTypeHealthKitGoogle:           "HEALTHKIT_GOOGLE",
	DeviceTypeHealthKitHuawei:           "HEALTHKIT_HUAWEI",
}

// DeviceBattery 电量等级
type DeviceBattery string

const (
	DeviceBatteryUnknown DeviceBattery = "unknown"
	DeviceBatteryHigh    DeviceBattery = "high"
	DeviceBatteryMedium  DeviceBattery = "medium"
	DeviceBatteryLow     DeviceBattery = "low"
)

var deviceBatteryNames = map[DeviceBattery]string{
	DeviceBatteryUnknown: "UNKNOWN",
	DeviceBatteryHigh:    "HIGH",
	DeviceBatteryMedium:  "MEDIUM",
	DeviceBatteryLow:     "LOW",
}

// sleepAnalyzerLabel 睡眠监测垫的 model 字段有时为空
const sleepAnalyzerLabel = "Sleep Analyzer"

// Device 用户绑定的设备
type Device struct {
	DeviceType       DeviceType    `json:"device_type"`
	Battery          DeviceBattery `json:"battery"`
	RawModel         string        `json:"raw_model"`
	Model            DeviceModel   `json:"model"`
	FirstSessionDate *time.Time    `json:"first_session_date,omitempty"`
	LastSessionDate  *time.Time    `json:"last_session_date,omitempty"`
	DeviceID         string        `json:"device_id"`
	HashedDeviceID   string        `json:"hashed_device_id"`
}

// DecodeDevice 解码 user/getdevice 返回的单个设备
func (d *Decoder) DecodeDevice(raw map[string]any) (Device, error) {
	w := newWire("device", raw)

	first, err := w.optTimestamp("first_session_date")
	if err != nil {
		return Device{}, err
	}
	last, err := w.optTimestamp("last_session_date")
	if err != nil {
		return Device{}, err
	}
	modelID, err := w.integer("model_id")
	if err != nil {
		return Device{}, err
	}
	rawModel, err := w.text("model")
	if err != nil {
		return Device{}, err
	}
	deviceType, err := w.text("type")
	if err != nil {
		return Device{}, err
	}
	battery, err := w.text("battery")
	if err != nil {
		return Device{}, err
	}
	deviceID, err := w.text("deviceid")
	if err != nil {
		return Device{}, err
	}
	hashedID, err := w.text("hash_deviceid")
	if err != nil {
		return Device{}, err
	}

	model := coerceEnum(d.logger, "DeviceModel", deviceModelNames, DeviceModel(modelID), DeviceModelUnknown)
	if rawModel == "" && model == DeviceModelSleepAnalyzer {
		rawModel = sleepAnalyzerLabel
	}

	return Device{
		DeviceType:       coerceEnum(d.logger, "DeviceType", deviceTypeNames, DeviceType(deviceType), DeviceTypeUnknown),
		Battery:          coerceEnum(d.logger, "DeviceBattery", deviceBatteryNames, DeviceBattery(battery), DeviceBatteryUnknown),
		RawModel:         rawModel,
		Model:            model,
		FirstSessionDate: first,
		LastSessionDate:  last,
		DeviceID:         deviceID,
		HashedDeviceID:   hashedID,
	}, nil
}

// Goals 用户目标；API 在未设置目标时返回空数组
type Goals struct {
	Steps  *int     `json:"steps,omitempty"`
	Sleep  *int     `json:"sleep,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// DecodeGoals 解码 user/getgoals 的 goals 字段（对象或空数组）
func (d *Decoder) DecodeGoals(raw any) (Goals, error) {
	switch v := raw.(type) {
	case []any, nil:
		return Goals{}, nil
	case map[string]any:
		w := newWire("goals", v)
		goals := Goals{
			Steps: w.optInt("steps"),
			Sleep: w.optInt("sleep"),
		}
		if w.has("weight") {
			weight, err := w.object("weight")
			if err != nil {
				return Goals{}, err
			}
			value, err := decodeScaled(weight)
			if err != nil {
				return Goals{}, err
			}
			goals.Weight = &value
		}
		return goals, nil
	default:
		return Goals{}, &MissingFieldError{Entity: "goals", Key: "goals", Reason: fmt.Sprintf("has unexpected type %T", raw)}
	}
}
