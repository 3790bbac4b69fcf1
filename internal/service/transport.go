package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
)

// TransportResponse 一次 HTTP 调用的原始结果
type TransportResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Transport 表单 POST 的传输层
// 超时必须返回 ErrConnection 类别的错误
type Transport interface {
	PostForm(ctx context.Context, path string, form, headers map[string]string) (*TransportResponse, error)
}

// RestyTransport 基于 resty 的 Transport 实现，不做重试
type RestyTransport struct {
	httpClient *resty.Client
}

// NewRestyTransport 创建传输层，baseURL 形如 https://wbsapi.withings.net
func NewRestyTransport(baseURL string, timeout time.Duration) *RestyTransport {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)
	return &RestyTransport{httpClient: client}
}

// PostForm 以 application/x-www-form-urlencoded 发送 POST
func (t *RestyTransport) PostForm(ctx context.Context, path string, form, headers map[string]string) (*TransportResponse, error) {
	resp, err := t.httpClient.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetFormData(form).
		Post(path)
	if err != nil {
		if isTimeout(err) {
			return nil, connectionError("timeout occurred while connecting to Withings", err)
		}
		return nil, connectionError(fmt.Sprintf("POST %s failed", path), err)
	}
	return &TransportResponse{
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
