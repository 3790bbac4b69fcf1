package service

import (
	"encoding/json"
)

// statusKinds 线上 status 到错误类别的映射，各类别互不相交
// 0 表示成功，不在表中
var statusKinds = buildStatusKinds()

func buildStatusKinds() map[int]error {
	kinds := make(map[int]error)
	add := func(kind error, codes ...int) {
		for _, code := range codes {
			kinds[code] = kind
		}
	}
	span := func(from, to int) []int {
		codes := make([]int, 0, to-from+1)
		for c := from; c <= to; c++ {
			codes = append(codes, c)
		}
		return codes
	}

	add(ErrAuthFailed, span(100, 112)...)
	add(ErrAuthFailed, 200, 401)

	add(ErrInvalidParams, span(201, 213)...)
	add(ErrInvalidParams, 216, 217, 218, 220, 221, 223, 225)
	add(ErrInvalidParams, 227, 228, 229, 230, 231, 233, 234, 235, 236, 238)
	add(ErrInvalidParams, span(240, 255)...)
	add(ErrInvalidParams, span(260, 267)...)
	add(ErrInvalidParams, span(271, 299)...)
	add(ErrInvalidParams, 503)
	add(ErrInvalidParams, span(516, 521)...)
	add(ErrInvalidParams, 523)
	add(ErrInvalidParams, span(528, 533)...)
	add(ErrInvalidParams, 602, 700)

	add(ErrUnauthorized, 214, 304)

	add(ErrErrorOccurred, 215, 219, 222, 224, 226, 502)
	add(ErrErrorOccurred, span(510, 515)...)
	add(ErrErrorOccurred, 525, 526, 527)

	add(ErrConnection, 522)
	add(ErrBadState, 524)
	add(ErrTooManyRequests, 601)
	return kinds
}

// StatusKind 返回 status 对应的错误类别；成功返回 nil
// status 缺失或不在表中时返回 ErrUnknownStatus
func StatusKind(status *int) error {
	if status == nil {
		return ErrUnknownStatus
	}
	if *status == 0 {
		return nil
	}
	if kind, ok := statusKinds[*status]; ok {
		return kind
	}
	return ErrUnknownStatus
}

// CheckStatus 根据 status 决定返回 body 还是错误
// 错误携带响应中的 error 字段
func CheckStatus(status *int, body json.RawMessage, errMsg string) (json.RawMessage, error) {
	kind := StatusKind(status)
	if kind == nil {
		return body, nil
	}
	apiErr := &APIError{Kind: kind, Message: errMsg}
	if status != nil {
		code := *status
		apiErr.Status = &code
	}
	return nil, apiErr
}
