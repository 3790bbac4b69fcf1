package models

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// enumValue 线上枚举的底层类型
type enumValue interface {
	~int | ~string
}

// Decoder 把 API 原始 JSON 对象解码为领域模型
// 无状态，可并发使用；logger 用于记录无法识别的枚举值
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder 创建解码器，logger 为 nil 时不输出诊断
func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger}
}

// coerceEnum 把原始值转换为已声明的枚举成员
// 未声明的值记录一条 warning 并返回 fallback，从不返回错误
func coerceEnum[T enumValue](logger *zap.Logger, domain string, known map[T]string, value T, fallback T) T {
	if _, ok := known[value]; ok {
		return value
	}
	logger.Warn("unsupported enum value",
		zap.String("enum", domain),
		zap.String("value", fmt.Sprint(value)),
	)
	return fallback
}

// coerceEnumOptional 与 coerceEnum 相同，但未声明的值返回 nil
func coerceEnumOptional[T enumValue](logger *zap.Logger, domain string, known map[T]string, value T) *T {
	if _, ok := known[value]; ok {
		return &value
	}
	logger.Warn("unsupported enum value",
		zap.String("enum", domain),
		zap.String("value", fmt.Sprint(value)),
	)
	return nil
}

// DecodeMeasurement 把 (value, unit) 还原为实际数值：value * 10^unit
func DecodeMeasurement(value, unit int64) float64 {
	if unit < 0 {
		// 除以精确的 10^-unit，避免 0.1 之类的乘数引入误差
		return float64(value) / math.Pow10(int(-unit))
	}
	return float64(value) * math.Pow10(int(unit))
}

// DecodeMeasurementFromMap 从包含 "value" 和 "unit" 的对象解码
func DecodeMeasurementFromMap(raw map[string]any) (float64, error) {
	return decodeScaled(newWire("measure", raw))
}

func decodeScaled(w wire) (float64, error) {
	value, err := w.integer("value")
	if err != nil {
		return 0, err
	}
	unit, err := w.integer("unit")
	if err != nil {
		return 0, err
	}
	return DecodeMeasurement(value, unit), nil
}

// DecodeEach 逐个解码列表元素，元素必须是 JSON 对象
// entity 用于错误信息，例如 "measuregrp.measures"
func DecodeEach[T any](entity string, items []any, decode func(map[string]any) (T, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &MissingFieldError{
				Entity: entity,
				Key:    fmt.Sprintf("[%d]", i),
				Reason: fmt.Sprintf("has unexpected type %T", item),
			}
		}
		v, err := decode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
