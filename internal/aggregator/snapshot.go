package aggregator

import (
	"sort"

	"owl-withings/internal/models"
)

// SnapshotEntry 快照中的一项，便于序列化和导出
type SnapshotEntry struct {
	Type     models.MeasurementType      `json:"type"`
	TypeName string                      `json:"type_name"`
	Position *models.MeasurementPosition `json:"position,omitempty"`
	Value    float64                     `json:"value"`
}

// Entries 把快照展开为按 (类型, 部位) 排序的列表，无部位的排在前面
func Entries(snapshot map[MeasurementKey]float64) []SnapshotEntry {
	keys := make([]MeasurementKey, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.HasPosition != b.HasPosition {
			return !a.HasPosition
		}
		return a.Position < b.Position
	})

	entries := make([]SnapshotEntry, 0, len(keys))
	for _, k := range keys {
		e := SnapshotEntry{Type: k.Type, TypeName: k.Type.String(), Value: snapshot[k]}
		if k.HasPosition {
			p := k.Position
			e.Position = &p
		}
		entries = append(entries, e)
	}
	return entries
}
