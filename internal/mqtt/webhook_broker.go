package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"owl-withings/internal/aggregator"
	"owl-withings/internal/models"
	"owl-withings/internal/store"
)

// MeasurementFetcher 按时间段拉取测量组，由 service.WithingsClient 实现
type MeasurementFetcher interface {
	GetMeasurementInPeriod(ctx context.Context, start, end time.Time, types []models.MeasurementType) ([]models.MeasurementGroup, error)
}

// Publisher 发布消息
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// Subscriber 订阅主题
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
}

// SnapshotMessage 发布到快照主题的消息
type SnapshotMessage struct {
	UserID       int64                      `json:"user_id"`
	Category     string                     `json:"category"`
	StartDate    time.Time                  `json:"start_date"`
	EndDate      time.Time                  `json:"end_date"`
	GroupCount   int                        `json:"group_count"`
	Measurements []aggregator.SnapshotEntry `json:"measurements"`
}

// WebhookBroker 消费转发到 MQTT 的 Withings webhook，
// 对测量类通知拉取对应时间段的数据，聚合为最新值快照后发布
type WebhookBroker struct {
	fetcher       MeasurementFetcher
	publisher     Publisher
	kv            store.KVStore // 可选，保存每个用户最近一次快照
	decoder       *models.Decoder
	snapshotTopic string
	logger        *zap.Logger
	ctx           context.Context
}

// NewWebhookBroker 创建 Webhook Broker；kv 为 nil 时不缓存快照
func NewWebhookBroker(
	fetcher MeasurementFetcher,
	publisher Publisher,
	kv store.KVStore,
	snapshotTopic string,
	logger *zap.Logger,
) *WebhookBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookBroker{
		fetcher:       fetcher,
		publisher:     publisher,
		kv:            kv,
		decoder:       models.NewDecoder(logger),
		snapshotTopic: snapshotTopic,
		logger:        logger,
		ctx:           context.Background(),
	}
}

// SnapshotKey 用户最近一次快照的缓存键
func SnapshotKey(userID int64) string {
	return fmt.Sprintf("withings:snapshot:%d", userID)
}

// Start 订阅 webhook 主题
func (b *WebhookBroker) Start(ctx context.Context, sub Subscriber, topic string) error {
	b.ctx = ctx
	if err := sub.Subscribe(topic, 1, b.HandleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	b.logger.Info("Webhook broker started",
		zap.String("topic", topic),
		zap.String("snapshot_topic", b.snapshotTopic),
	)
	return nil
}

// HandleMessage 处理一条 webhook 消息
// 负载可以是原始表单（userid=..&appli=..）或 JSON 对象
func (b *WebhookBroker) HandleMessage(topic string, payload []byte) error {
	call, err := b.decodeCall(payload)
	if err != nil {
		return fmt.Errorf("failed to decode webhook call: %w", err)
	}

	types := models.MeasurementTypesForCategory(call.Category)
	if len(types) == 0 {
		b.logger.Debug("Ignoring non-measurement webhook",
			zap.String("topic", topic),
			zap.Int64("user_id", call.UserID),
			zap.String("category", call.Category.String()),
		)
		return nil
	}

	groups, err := b.fetcher.GetMeasurementInPeriod(b.ctx, call.StartDate, call.EndDate, types)
	if err != nil {
		return fmt.Errorf("failed to fetch measurements: %w", err)
	}

	msg := SnapshotMessage{
		UserID:       call.UserID,
		Category:     call.Category.String(),
		StartDate:    call.StartDate,
		EndDate:      call.EndDate,
		GroupCount:   len(groups),
		Measurements: aggregator.Entries(aggregator.AggregateMeasurements(groups)),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	out := fmt.Sprintf("%s/%d", b.snapshotTopic, call.UserID)
	if err := b.publisher.Publish(out, 1, false, data); err != nil {
		return err
	}
	if b.kv != nil {
		if err := b.kv.Set(b.ctx, SnapshotKey(call.UserID), string(data), 0); err != nil {
			b.logger.Warn("Failed to cache snapshot", zap.Int64("user_id", call.UserID), zap.Error(err))
		}
	}

	b.logger.Info("Published measurement snapshot",
		zap.String("topic", out),
		zap.Int64("user_id", call.UserID),
		zap.Int("group_count", len(groups)),
		zap.Int("measurement_count", len(msg.Measurements)),
	)
	return nil
}

func (b *WebhookBroker) decodeCall(payload []byte) (models.WebhookCall, error) {
	trimmed := bytes.TrimSpace(payload)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return models.WebhookCall{}, err
		}
		return b.decoder.DecodeWebhookCall(raw)
	}
	form, err := url.ParseQuery(string(trimmed))
	if err != nil {
		return models.WebhookCall{}, err
	}
	return b.decoder.DecodeWebhookForm(form)
}
