package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"owl-withings/internal/models"
)

// Version 写入 User-Agent，构建时可通过 -ldflags 覆盖
var Version = "dev"

// DefaultAPIHost Withings 公共 API 地址
const DefaultAPIHost = "https://wbsapi.withings.net"

// auraSensorModel getdevice 会返回该型号的附属传感器，对调用方无意义
const auraSensorModel = "Aura Sensor V2"

// envelope 所有接口共用的响应外层
type envelope struct {
	Status *int            `json:"status"`
	Body   json.RawMessage `json:"body"`
	Error  any             `json:"error"`
}

// WithingsClient Withings API 客户端
// 每次调用只发一个请求，不做重试
type WithingsClient struct {
	transport Transport
	tokens    oauth2.TokenSource
	decoder   *models.Decoder
	logger    *zap.Logger
}

// NewWithingsClient 创建客户端；tokens 在每次请求前调用，可实现刷新
func NewWithingsClient(transport Transport, tokens oauth2.TokenSource, logger *zap.Logger) *WithingsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithingsClient{
		transport: transport,
		tokens:    tokens,
		decoder:   models.NewDecoder(logger),
		logger:    logger,
	}
}

// request 发送请求并返回成功响应的 body
func (c *WithingsClient) request(ctx context.Context, path string, form map[string]string) (json.RawMessage, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	headers := map[string]string{
		"User-Agent":    "owl-withings/" + Version,
		"Accept":        "application/json, text/plain, */*",
		"Authorization": token.Type() + " " + token.AccessToken,
	}
	return c.post(ctx, path, form, headers)
}

func (c *WithingsClient) post(ctx context.Context, path string, form, headers map[string]string) (json.RawMessage, error) {
	c.logger.Debug("Calling Withings API",
		zap.String("path", path),
		zap.String("action", form["action"]),
	)

	resp, err := c.transport.PostForm(ctx, path, form, headers)
	if err != nil {
		c.logger.Error("Withings API call failed",
			zap.String("path", path),
			zap.Error(err),
		)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, connectionError(fmt.Sprintf("POST %s failed", path), err)
	}

	if !strings.Contains(resp.ContentType, "application/json") {
		c.logger.Error("Unexpected response from Withings",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("content_type", resp.ContentType),
		)
		return nil, connectionError(fmt.Sprintf("unexpected content type %q (http %d)", resp.ContentType, resp.StatusCode), nil)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, connectionError("malformed response envelope", err)
	}

	body, err := CheckStatus(env.Status, env.Body, errorText(env.Error))
	if err != nil {
		fields := []zap.Field{zap.String("path", path), zap.Error(err)}
		if env.Status != nil {
			fields = append(fields, zap.Int("status", *env.Status))
		}
		c.logger.Warn("Withings API returned error", fields...)
		return nil, err
	}
	return body, nil
}

func errorText(v any) string {
	switch e := v.(type) {
	case nil:
		return ""
	case string:
		return e
	default:
		b, _ := json.Marshal(e)
		return string(b)
	}
}

// parseObject 解析 body，数字保留为 json.Number 以免大整数丢精度
func parseObject(body json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, connectionError("malformed response body", err)
	}
	if obj == nil {
		return nil, &models.MissingFieldError{Entity: "response", Key: "body"}
	}
	return obj, nil
}

// listOf 取 body 中的列表字段
func listOf(body map[string]any, key string) ([]any, error) {
	v, ok := body[key]
	if !ok {
		return nil, &models.MissingFieldError{Entity: "response", Key: key}
	}
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &models.MissingFieldError{Entity: "response", Key: key, Reason: fmt.Sprintf("has unexpected type %T", v)}
	}
	return items, nil
}

func decodeList[T any](body json.RawMessage, key string, decode func(map[string]any) (T, error)) ([]T, error) {
	obj, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	items, err := listOf(obj, key)
	if err != nil {
		return nil, err
	}
	return models.DecodeEach(key, items, decode)
}

func joinCodes[T ~int](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}

func joinFields[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ",")
}

func epoch(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// GetDevices 获取用户绑定的设备（不含 Aura Sensor V2）
func (c *WithingsClient) GetDevices(ctx context.Context) ([]models.Device, error) {
	body, err := c.request(ctx, "v2/user", map[string]string{"action": "getdevice"})
	if err != nil {
		return nil, err
	}
	obj, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	items, err := listOf(obj, "devices")
	if err != nil {
		return nil, err
	}
	kept := make([]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok && m["model"] == auraSensorModel {
			continue
		}
		kept = append(kept, item)
	}
	return models.DecodeEach("devices", kept, c.decoder.DecodeDevice)
}

// GetGoals 获取用户目标
func (c *WithingsClient) GetGoals(ctx context.Context) (models.Goals, error) {
	body, err := c.request(ctx, "v2/user", map[string]string{"action": "getgoals"})
	if err != nil {
		return models.Goals{}, err
	}
	obj, err := parseObject(body)
	if err != nil {
		return models.Goals{}, err
	}
	goals, ok := obj["goals"]
	if !ok {
		return models.Goals{}, &models.MissingFieldError{Entity: "response", Key: "goals"}
	}
	return c.decoder.DecodeGoals(goals)
}

func (c *WithingsClient) getMeasurements(ctx context.Context, types []models.MeasurementType, form map[string]string) ([]models.MeasurementGroup, error) {
	form["action"] = "getmeas"
	if types != nil {
		form["meastypes"] = joinCodes(types)
	}
	body, err := c.request(ctx, "measure", form)
	if err != nil {
		return nil, err
	}
	return decodeList(body, "measuregrps", c.decoder.DecodeMeasurementGroup)
}

// GetMeasurementSince 获取 since 之后更新过的测量组；types 为 nil 表示全部类型
func (c *WithingsClient) GetMeasurementSince(ctx context.Context, since time.Time, types []models.MeasurementType) ([]models.MeasurementGroup, error) {
	return c.getMeasurements(ctx, types, map[string]string{"lastupdate": epoch(since)})
}

// GetMeasurementInPeriod 获取 [start, end] 内测得的测量组
func (c *WithingsClient) GetMeasurementInPeriod(ctx context.Context, start, end time.Time, types []models.MeasurementType) ([]models.MeasurementGroup, error) {
	return c.getMeasurements(ctx, types, map[string]string{
		"startdate": epoch(start),
		"enddate":   epoch(end),
	})
}

// GetSleep 获取 [start, end] 内的睡眠区间；fields 为 nil 时由服务端决定返回的序列
func (c *WithingsClient) GetSleep(ctx context.Context, start, end time.Time, fields []models.SleepDataField) ([]models.SleepSeries, error) {
	form := map[string]string{
		"action":    "get",
		"startdate": epoch(start),
		"enddate":   epoch(end),
	}
	if fields != nil {
		form["data_fields"] = joinFields(fields)
	}
	body, err := c.request(ctx, "v2/sleep", form)
	if err != nil {
		return nil, err
	}
	return decodeList(body, "series", c.decoder.DecodeSleepSeries)
}

func (c *WithingsClient) getSleepSummary(ctx context.Context, fields []models.SleepSummaryDataField, form map[string]string) ([]models.SleepSummary, error) {
	form["action"] = "getsummary"
	if fields != nil {
		form["data_fields"] = joinFields(fields)
	}
	body, err := c.request(ctx, "v2/sleep", form)
	if err != nil {
		return nil, err
	}
	return decodeList(body, "series", c.decoder.DecodeSleepSummary)
}

// GetSleepSummarySince 获取 since 之后更新过的睡眠汇总
func (c *WithingsClient) GetSleepSummarySince(ctx context.Context, since time.Time, fields []models.SleepSummaryDataField) ([]models.SleepSummary, error) {
	return c.getSleepSummary(ctx, fields, map[string]string{"lastupdate": epoch(since)})
}

// GetSleepSummaryInPeriod 获取日期区间内的睡眠汇总（含首尾）
func (c *WithingsClient) GetSleepSummaryInPeriod(ctx context.Context, start, end models.Date, fields []models.SleepSummaryDataField) ([]models.SleepSummary, error) {
	return c.getSleepSummary(ctx, fields, map[string]string{
		"startdateymd": start.String(),
		"enddateymd":   end.String(),
	})
}

func (c *WithingsClient) getActivities(ctx context.Context, fields []models.ActivityDataField, form map[string]string) ([]models.Activity, error) {
	form["action"] = "getactivity"
	if fields != nil {
		form["data_fields"] = joinFields(fields)
	}
	body, err := c.request(ctx, "v2/measure", form)
	if err != nil {
		return nil, err
	}
	return decodeList(body, "activities", c.decoder.DecodeActivity)
}

// GetActivitiesSince 获取 since 之后更新过的每日活动
func (c *WithingsClient) GetActivitiesSince(ctx context.Context, since time.Time, fields []models.ActivityDataField) ([]models.Activity, error) {
	return c.getActivities(ctx, fields, map[string]string{"lastupdate": epoch(since)})
}

// GetActivitiesInPeriod 获取日期区间内的每日活动
func (c *WithingsClient) GetActivitiesInPeriod(ctx context.Context, start, end models.Date, fields []models.ActivityDataField) ([]models.Activity, error) {
	return c.getActivities(ctx, fields, map[string]string{
		"startdateymd": start.String(),
		"enddateymd":   end.String(),
	})
}

func (c *WithingsClient) getWorkouts(ctx context.Context, fields []models.WorkoutDataField, form map[string]string) ([]models.Workout, error) {
	form["action"] = "getworkouts"
	if fields != nil {
		form["data_fields"] = joinFields(fields)
	}
	body, err := c.request(ctx, "v2/measure", form)
	if err != nil {
		return nil, err
	}
	return decodeList(body, "series", c.decoder.DecodeWorkout)
}

// GetWorkoutsSince 获取 since 之后更新过的运动记录
func (c *WithingsClient) GetWorkoutsSince(ctx context.Context, since time.Time, fields []models.WorkoutDataField) ([]models.Workout, error) {
	return c.getWorkouts(ctx, fields, map[string]string{"lastupdate": epoch(since)})
}

// GetWorkoutsInPeriod 获取日期区间内的运动记录
func (c *WithingsClient) GetWorkoutsInPeriod(ctx context.Context, start, end models.Date, fields []models.WorkoutDataField) ([]models.Workout, error) {
	return c.getWorkouts(ctx, fields, map[string]string{
		"startdateymd": start.String(),
		"enddateymd":   end.String(),
	})
}

// SubscribeNotification 订阅某类通知到 callbackURL
func (c *WithingsClient) SubscribeNotification(ctx context.Context, callbackURL string, category models.NotificationCategory) error {
	_, err := c.request(ctx, "notify", map[string]string{
		"action":      "subscribe",
		"callbackurl": callbackURL,
		"appli":       strconv.Itoa(int(category)),
	})
	return err
}

// ListNotificationConfigurations 列出已订阅的通知；category 为 UNKNOWN 时列出全部
func (c *WithingsClient) ListNotificationConfigurations(ctx context.Context, category models.NotificationCategory) ([]models.NotificationConfiguration, error) {
	form := map[string]string{"action": "list"}
	if category != models.NotificationUnknown {
		form["appli"] = strconv.Itoa(int(category))
	}
	body, err := c.request(ctx, "notify", form)
	if err != nil {
		return nil, err
	}
	return decodeList(body, "profiles", c.decoder.DecodeNotificationConfiguration)
}

// RevokeNotificationConfigurations 取消 callbackURL 上某类通知的订阅
func (c *WithingsClient) RevokeNotificationConfigurations(ctx context.Context, callbackURL string, category models.NotificationCategory) error {
	_, err := c.request(ctx, "notify", map[string]string{
		"action":      "revoke",
		"callbackurl": callbackURL,
		"appli":       strconv.Itoa(int(category)),
	})
	return err
}
