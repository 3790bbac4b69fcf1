package models

import (
	"fmt"
	"time"
)

// MeasurementAttribution 测量来源/可信度
type MeasurementAttribution int

const (
	AttributionUnknown                         MeasurementAttribution = -1
	AttributionDeviceEntryForUser              MeasurementAttribution = 0
	AttributionDeviceEntryForUserAmbiguous     MeasurementAttribution = 1
	AttributionManualUserEntry                 MeasurementAttribution = 2
	AttributionManualUserDuringAccountCreation MeasurementAttribution = 4
	AttributionMeasureAuto                     MeasurementAttribution = 5
	AttributionMeasureUserConfirmed            MeasurementAttribution = 7
	AttributionGuidedConditions                MeasurementAttribution = 15
)

var attributionNames = map[MeasurementAttribution]string{
	AttributionUnknown:                         "UNKNOWN",
	AttributionDeviceEntryForUser:              "DEVICE_ENTRY_FOR_USER",
	AttributionDeviceEntryForUserAmbiguous:     "DEVICE_ENTRY_FOR_USER_AMBIGUOUS",
	AttributionManualUserEntry:                 "MANUAL_USER_ENTRY",
	AttributionManualUserDuringAccountCreation: "MANUAL_USER_DURING_ACCOUNT_CREATION",
	AttributionMeasureAuto:                     "MEASURE_AUTO",
	AttributionMeasureUserConfirmed:            "MEASURE_USER_CONFIRMED",
	AttributionGuidedConditions:                "GUIDED_CONDITIONS",
}

func (a MeasurementAttribution) String() string {
	if name, ok := attributionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("MeasurementAttribution(%d)", int(a))
}

// legacyAttributions 旧版 attrib 编码到现行编码的映射
var legacyAttributions = map[int64]int64{
	8:  0,
	17: 15,
}

// MeasurementGroupCategory 测量组类别
type MeasurementGroupCategory int

const (
	GroupCategoryUnknown        MeasurementGroupCategory = 0
	GroupCategoryReal           MeasurementGroupCategory = 1
	GroupCategoryUserObjectives MeasurementGroupCategory = 2
)

var groupCategoryNames = map[MeasurementGroupCategory]string{
	GroupCategoryUnknown:        "UNKNOWN",
	GroupCategoryReal:           "REAL",
	GroupCategoryUserObjectives: "USER_OBJECTIVES",
}

func (c MeasurementGroupCategory) String() string {
	if name, ok := groupCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("MeasurementGroupCategory(%d)", int(c))
}

// MeasurementType 测量类型（meastype）
type MeasurementType int

const (
	MeasurementTypeUnknown                        MeasurementType = 0
	MeasurementTypeWeight                         MeasurementType = 1
	MeasurementTypeHeight                         MeasurementType = 4
	MeasurementTypeFatFreeMass                    MeasurementType = 5
	MeasurementTypeFatRatio                       MeasurementType = 6
	MeasurementTypeFatMassWeight                  MeasurementType = 8
	MeasurementTypeDiastolicBloodPressure         MeasurementType = 9
	MeasurementTypeSystolicBloodPressure          MeasurementType = 10
	MeasurementTypeHeartRate                      MeasurementType = 11
	MeasurementTypeTemperature                    MeasurementType = 12
	MeasurementTypeSpO2                           MeasurementType = 54
	MeasurementTypeBodyTemperature                MeasurementType = 71
	MeasurementTypeSkinTemperature                MeasurementType = 73
	MeasurementTypeMuscleMass                     MeasurementType = 76
	MeasurementTypeHydration                      MeasurementType = 77
	MeasurementTypeBoneMass                       MeasurementType = 88
	MeasurementTypePulseWaveVelocity              MeasurementType = 91
	MeasurementTypeVO2                            MeasurementType = 123
	MeasurementTypeAtrialFibrillation             MeasurementType = 130
	MeasurementTypeQRSInterval                    MeasurementType = 135
	MeasurementTypePRInterval                     MeasurementType = 136
	MeasurementTypeQTInterval                     MeasurementType = 137
	MeasurementTypeCorrectedQTInterval            MeasurementType = 138
	MeasurementTypeAtrialFibrillationFromPPG      MeasurementType = 139
	MeasurementTypeVascularAge                    MeasurementType = 155
	MeasurementTypeNerveHealthScoreLeftFoot       MeasurementType = 158
	MeasurementTypeNerveHealthScoreRightFoot      MeasurementType = 159
	MeasurementTypeNerveHealthScoreFeet           MeasurementType = 167
	MeasurementTypeExtracellularWater             MeasurementType = 168
	MeasurementTypeIntracellularWater             MeasurementType = 169
	MeasurementTypeVisceralFat                    MeasurementType = 170
	MeasurementTypeFatFreeMassForSegments         MeasurementType = 173
	MeasurementTypeFatMassForSegments             MeasurementType = 174
	MeasurementTypeMuscleMassForSegments          MeasurementType = 175
	MeasurementTypeElectrodermalActivityFeet      MeasurementType = 196
	MeasurementTypeElectrodermalActivityLeftFoot  MeasurementType = 197
	MeasurementTypeElectrodermalActivityRightFoot MeasurementType = 198
	MeasurementTypeBasalMetabolicRate             MeasurementType = 226
)

var measurementTypeNames = map[MeasurementType]string{
	MeasurementTypeUnknown:                        "UNKNOWN",
	MeasurementTypeWeight:                         "WEIGHT",
	MeasurementTypeHeight:                         "HEIGHT",
	MeasurementTypeFatFreeMass:                    "FAT_FREE_MASS",
	MeasurementTypeFatRatio:                       "FAT_RATIO",
	MeasurementTypeFatMassWeight:                  "FAT_MASS_WEIGHT",
	MeasurementTypeDiastolicBloodPressure:         "DIASTOLIC_BLOOD_PRESSURE",
	MeasurementTypeSystolicBloodPressure:          "SYSTOLIC_BLOOD_PRESSURE",
	MeasurementTypeHeartRate:                      "HEART_RATE",
	MeasurementTypeTemperature:                    "TEMPERATURE",
	MeasurementTypeSpO2:                           "SP02",
	MeasurementTypeBodyTemperature:                "BODY_TEMPERATURE",
	MeasurementTypeSkinTemperature:                "SKIN_TEMPERATURE",
	MeasurementTypeMuscleMass:                     "MUSCLE_MASS",
	MeasurementTypeHydration:                      "HYDRATION",
	MeasurementTypeBoneMass:                       "BONE_MASS",
	MeasurementTypePulseWaveVelocity:              "PULSE_WAVE_VELOCITY",
	MeasurementTypeVO2:                            "VO2",
	MeasurementTypeAtrialFibrillation:             "ATRIAL_FIBRILLATION",
	MeasurementTypeQRSInterval:                    "QRS_INTERVAL",
	MeasurementTypePRInterval:                     "PR_INTERVAL",
	MeasurementTypeQTInterval:                     "QT_INTERVAL",
	MeasurementTypeCorrectedQTInterval:            "CORRECTED_QT_INTERVAL",
	MeasurementTypeAtrialFibrillationFromPPG:      "ATRIAL_FIBRILLATION_FROM_PPG",
	MeasurementTypeVascularAge:                    "VASCULAR_AGE",
	MeasurementTypeNerveHealthScoreLeftFoot:       "NERVE_HEALTH_SCORE_LEFT_FOOT",
	MeasurementTypeNerveHealthScoreRightFoot:      "NERVE_HEALTH_SCORE_RIGHT_FOOT",
	MeasurementTypeNerveHealthScoreFeet:           "NERVE_HEALTH_SCORE_FEET",
	MeasurementTypeExtracellularWater:             "EXTRACELLULAR_WATER",
	MeasurementTypeIntracellularWater:             "INTRACELLULAR_WATER",
	MeasurementTypeVisceralFat:                    "VISCERAL_FAT",
	MeasurementTypeFatFreeMassForSegments:         "FAT_FREE_MASS_FOR_SEGMENTS",
	MeasurementTypeFatMassForSegments:             "FAT_MASS_FOR_SEGMENTS",
	MeasurementTypeMuscleMassForSegments:          "MUSCLE_MASS_FOR_SEGMENTS",
	MeasurementTypeElectrodermalActivityFeet:      "ELECTRODERMAL_ACTIVITY_FEET",
	MeasurementTypeElectrodermalActivityLeftFoot:  "ELECTRODERMAL_ACTIVITY_LEFT_FOOT",
	MeasurementTypeElectrodermalActivityRightFoot: "ELECTRODERMAL_ACTIVITY_RIGHT_FOOT",
	MeasurementTypeBasalMetabolicRate:             "BASAL_METABOLIC_RATE",
}

func (t MeasurementType) String() string {
	if name, ok := measurementTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MeasurementType(%d)", int(t))
}

// MeasurementPosition 身体部位
type MeasurementPosition int

const (
	PositionRightWrist      MeasurementPosition = 0
	PositionLeftWrist       MeasurementPosition = 1
	PositionRightArm        MeasurementPosition = 2
	PositionLeftArm         MeasurementPosition = 3
	PositionRightFoot       MeasurementPosition = 4
	PositionLeftFoot        MeasurementPosition = 5
	PositionBetweenLegs     MeasurementPosition = 6
	PositionWholeBody       MeasurementPosition = 7
	PositionLeftPartOfBody  MeasurementPosition = 8
	PositionRightPartOfBody MeasurementPosition = 9
	PositionLeftLeg         MeasurementPosition = 10
	PositionRightLeg        MeasurementPosition = 11
	PositionTorso           MeasurementPosition = 12
	PositionLeftHand        MeasurementPosition = 13
	PositionRightHand       MeasurementPosition = 14
)

var positionNames = map[MeasurementPosition]string{
	PositionRightWrist:      "RIGHT_WRIST",
	PositionLeftWrist:       "LEFT_WRIST",
	PositionRightArm:        "RIGHT_ARM",
	PositionLeftArm:         "LEFT_ARM",
	PositionRightFoot:       "RIGHT_FOOT",
	PositionLeftFoot:        "LEFT_FOOT",
	PositionBetweenLegs:     "BETWEEN_LEGS",
	PositionWholeBody:       "WHOLE_BODY",
	PositionLeftPartOfBody:  "LEFT_PART_OF_BODY",
	PositionRightPartOfBody: "RIGHT_PART_OF_BODY",
	PositionLeftLeg:         "LEFT_LEG",
	PositionRightLeg:        "RIGHT_LEG",
	PositionTorso:           "TORSO",
	PositionLeftHand:        "LEFT_HAND",
	PositionRightHand:       "RIGHT_HAND",
}

func (p MeasurementPosition) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("MeasurementPosition(%d)", int(p))
}

// Measurement 测量组内的单个读数
type Measurement struct {
	Type     MeasurementType      `json:"type"`
	Value    float64              `json:"value"`
	Position *MeasurementPosition `json:"position,omitempty"`
}

// MeasurementGroup 一次测量事件
type MeasurementGroup struct {
	GroupID        int64                    `json:"group_id"`
	Attribution    MeasurementAttribution   `json:"attribution"`
	TakenAt        time.Time                `json:"taken_at"`
	StoredAt       time.Time                `json:"stored_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	Category       MeasurementGroupCategory `json:"category"`
	DeviceID       string                   `json:"device_id"`
	HashedDeviceID string                   `json:"hashed_device_id"`
	Measurements   []Measurement            `json:"measurements"`
}

// DecodeMeasurement 解码 measures 列表中的单个读数
func (d *Decoder) DecodeMeasurement(raw map[string]any) (Measurement, error) {
	w := newWire("measure", raw)

	rawType, err := w.integer("type")
	if err != nil {
		return Measurement{}, err
	}
	value, err := decodeScaled(w)
	if err != nil {
		return Measurement{}, err
	}

	m := Measurement{
		Type:  coerceEnum(d.logger, "MeasurementType", measurementTypeNames, MeasurementType(rawType), MeasurementTypeUnknown),
		Value: value,
	}
	if pos := w.optInt("position"); pos != nil {
		m.Position = coerceEnumOptional(d.logger, "MeasurementPosition", positionNames, MeasurementPosition(*pos))
	}
	return m, nil
}

// DecodeMeasurementGroup 解码 measure/getmeas 的单个 measuregrp
// 调用方传入的 map 不会被修改
func (d *Decoder) DecodeMeasurementGroup(raw map[string]any) (MeasurementGroup, error) {
	w := newWire("measuregrp", raw)

	groupID, err := w.integer("grpid")
	if err != nil {
		return MeasurementGroup{}, err
	}
	attrib, err := w.integer("attrib")
	if err != nil {
		return MeasurementGroup{}, err
	}
	if current, ok := legacyAttributions[attrib]; ok {
		attrib = current
	}
	takenAt, err := w.timestamp("date")
	if err != nil {
		return MeasurementGroup{}, err
	}
	storedAt, err := w.timestamp("created")
	if err != nil {
		return MeasurementGroup{}, err
	}
	updatedAt, err := w.timestamp("modified")
	if err != nil {
		return MeasurementGroup{}, err
	}
	category, err := w.integer("category")
	if err != nil {
		return MeasurementGroup{}, err
	}
	deviceID, err := w.text("deviceid")
	if err != nil {
		return MeasurementGroup{}, err
	}
	hashedID, err := w.text("hash_deviceid")
	if err != nil {
		return MeasurementGroup{}, err
	}
	rawMeasures, err := w.list("measures")
	if err != nil {
		return MeasurementGroup{}, err
	}
	measurements, err := DecodeEach("measuregrp.measures", rawMeasures, d.DecodeMeasurement)
	if err != nil {
		return MeasurementGroup{}, err
	}

	return MeasurementGroup{
		GroupID:        groupID,
		Attribution:    coerceEnum(d.logger, "MeasurementAttribution", attributionNames, MeasurementAttribution(attrib), AttributionUnknown),
		TakenAt:        takenAt,
		StoredAt:       storedAt,
		UpdatedAt:      updatedAt,
		Category:       coerceEnum(d.logger, "MeasurementGroupCategory", groupCategoryNames, MeasurementGroupCategory(category), GroupCategoryUnknown),
		DeviceID:       deviceID,
		HashedDeviceID: hashedID,
		Measurements:   measurements,
	}, nil
}
