package aggregator

import (
	"fmt"
	"sort"

	"owl-withings/internal/models"
)

// MeasurementKey 快照的键：测量类型 + 归一化后的身体部位
// HasPosition 为 false 时 Position 无意义
type MeasurementKey struct {
	Type        models.MeasurementType
	Position    models.MeasurementPosition
	HasPosition bool
}

// KeyOf 计算读数在快照中的键，WHOLE_BODY 与 BETWEEN_LEGS 视为无部位
func KeyOf(m models.Measurement) MeasurementKey {
	key := MeasurementKey{Type: m.Type}
	if m.Position == nil {
		return key
	}
	switch *m.Position {
	case models.PositionWholeBody, models.PositionBetweenLegs:
		return key
	}
	key.Position = *m.Position
	key.HasPosition = true
	return key
}

func (k MeasurementKey) String() string {
	if !k.HasPosition {
		return k.Type.String()
	}
	return fmt.Sprintf("%s@%s", k.Type, k.Position)
}

// excludedAttributions 可信度低的测量组不进入快照
var excludedAttributions = map[models.MeasurementAttribution]bool{
	models.AttributionUnknown:                     true,
	models.AttributionDeviceEntryForUserAmbiguous: true,
}

// AggregateMeasurements 把多个测量组合并为每个 (类型, 部位) 的最新值
// 按 taken_at 升序处理，后者覆盖前者；输入不会被修改
func AggregateMeasurements(groups []models.MeasurementGroup) map[MeasurementKey]float64 {
	sorted := make([]models.MeasurementGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.Before(sorted[j].TakenAt)
	})

	snapshot := make(map[MeasurementKey]float64)
	for _, group := range sorted {
		if excludedAttributions[group.Attribution] {
			continue
		}
		for _, m := range group.Measurements {
			snapshot[KeyOf(m)] = m.Value
		}
	}
	return snapshot
}
