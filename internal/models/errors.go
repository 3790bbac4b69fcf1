package models

import (
	"errors"
	"fmt"
)

// ErrMissingField 必填字段缺失（上游 API 契约被破坏）
var ErrMissingField = errors.New("missing field")

// MissingFieldError 解码时必填字段缺失或类型不符
type MissingFieldError struct {
	Entity string
	Key    string
	Reason string // 为空表示字段不存在；否则说明类型错误
}

func (e *MissingFieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: field %q %s", e.Entity, e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: missing field %q", e.Entity, e.Key)
}

// Is 使 errors.Is(err, ErrMissingField) 成立
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
