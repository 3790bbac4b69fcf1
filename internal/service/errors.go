package service

import (
	"errors"
	"fmt"
)

// 错误类别哨兵，配合 errors.Is 使用
var (
	ErrAuthFailed      = errors.New("withings: authentication failed")
	ErrInvalidParams   = errors.New("withings: invalid params")
	ErrUnauthorized    = errors.New("withings: unauthorized")
	ErrErrorOccurred   = errors.New("withings: error occurred")
	ErrConnection      = errors.New("withings: connection error")
	ErrBadState        = errors.New("withings: bad state")
	ErrTooManyRequests = errors.New("withings: too many requests")
	ErrUnknownStatus   = errors.New("withings: unknown status")
)

// APIError 请求失败的详细信息
// Kind 为上面的哨兵之一；Status 为 nil 表示响应中没有 status 字段或未收到响应
type APIError struct {
	Kind    error
	Status  *int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Kind.Error()
	if e.Status != nil {
		msg = fmt.Sprintf("%s (status: %d)", msg, *e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is 使 errors.Is(err, ErrXxx) 按类别匹配
func (e *APIError) Is(target error) bool {
	return target == e.Kind
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func connectionError(message string, err error) error {
	return &APIError{Kind: ErrConnection, Message: message, Err: err}
}
