package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// wire 对单个实体原始 JSON 对象的只读访问
// 必填字段缺失返回 MissingFieldError；可选字段缺失返回 nil
type wire struct {
	entity string
	raw    map[string]any
}

func newWire(entity string, raw map[string]any) wire {
	return wire{entity: entity, raw: raw}
}

func (w wire) missing(key string) error {
	return &MissingFieldError{Entity: w.entity, Key: key}
}

func (w wire) badType(key string, v any) error {
	return &MissingFieldError{Entity: w.entity, Key: key, Reason: fmt.Sprintf("has unexpected type %T", v)}
}

func (w wire) has(key string) bool {
	_, ok := w.raw[key]
	return ok
}

func (w wire) value(key string) (any, error) {
	v, ok := w.raw[key]
	if !ok {
		return nil, w.missing(key)
	}
	return v, nil
}

func (w wire) integer(key string) (int64, error) {
	v, err := w.value(key)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, w.badType(key, v)
	}
	return n, nil
}

func (w wire) number(key string) (float64, error) {
	v, err := w.value(key)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, w.badType(key, v)
	}
	return f, nil
}

func (w wire) text(key string) (string, error) {
	v, err := w.value(key)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", w.badType(key, v)
	}
	return s, nil
}

func (w wire) flag(key string) (bool, error) {
	v, err := w.value(key)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	default:
		// 旧接口用 0/1 表示布尔
		if n, ok := toInt64(v); ok {
			return n != 0, nil
		}
		return false, w.badType(key, v)
	}
}

func (w wire) timestamp(key string) (time.Time, error) {
	n, err := w.integer(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(n, 0).UTC(), nil
}

// optTimestamp 键不存在或为 null 时返回 nil
func (w wire) optTimestamp(key string) (*time.Time, error) {
	v, ok := w.raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, w.badType(key, v)
	}
	t := time.Unix(n, 0).UTC()
	return &t, nil
}

func (w wire) date(key string) (Date, error) {
	s, err := w.text(key)
	if err != nil {
		return Date{}, err
	}
	d, err := ParseDate(s)
	if err != nil {
		return Date{}, &MissingFieldError{Entity: w.entity, Key: key, Reason: "is not an ISO date"}
	}
	return d, nil
}

func (w wire) object(key string) (wire, error) {
	v, err := w.value(key)
	if err != nil {
		return wire{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return wire{}, w.badType(key, v)
	}
	return newWire(w.entity+"."+key, m), nil
}

func (w wire) list(key string) ([]any, error) {
	v, err := w.value(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, w.badType(key, v)
	}
	return l, nil
}

// optInt 键不存在或为 null 时返回 nil
func (w wire) optInt(key string) *int {
	v, ok := w.raw[key]
	if !ok || v == nil {
		return nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// nonZeroInt 键存在且值非 0 时才返回
func (w wire) nonZeroInt(key string) *int {
	i := w.optInt(key)
	if i == nil || *i == 0 {
		return nil
	}
	return i
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}
