package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// TokenKey 某个 Withings 应用的 token 缓存键
func TokenKey(clientID string) string {
	return "withings:token:" + clientID
}

// LoadToken 读取缓存的 token；不存在时返回 ErrCacheMiss
func LoadToken(ctx context.Context, kv KVStore, key string) (*oauth2.Token, error) {
	val, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(val), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached token: %w", err)
	}
	return &token, nil
}

// SaveToken 写入 token，TTL 取到过期时间为止
// refresh token 比 access token 活得久，所以过期的 token 也保留一天
func SaveToken(ctx context.Context, kv KVStore, key string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	var ttl time.Duration
	if !token.Expiry.IsZero() {
		ttl = time.Until(token.Expiry) + 24*time.Hour
		if ttl < time.Minute {
			ttl = time.Minute
		}
	}
	return kv.Set(ctx, key, string(data), ttl)
}

// CachedTokenSource 先读 Redis 中的 token，失效时向 base 取新 token 并回写
// 多个进程共享同一个 key 时，只有缓存失效的那一个会去刷新
type CachedTokenSource struct {
	ctx    context.Context
	kv     KVStore
	key    string
	base   oauth2.TokenSource
	logger *zap.Logger

	mu sync.Mutex
}

// NewCachedTokenSource 创建带缓存的 TokenSource
func NewCachedTokenSource(ctx context.Context, kv KVStore, key string, base oauth2.TokenSource, logger *zap.Logger) *CachedTokenSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTokenSource{ctx: ctx, kv: kv, key: key, base: base, logger: logger}
}

// Token 实现 oauth2.TokenSource
func (s *CachedTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, err := LoadToken(s.ctx, s.kv, s.key)
	switch {
	case err == nil && cached.Valid():
		return cached, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		s.logger.Warn("Failed to read cached token", zap.String("key", s.key), zap.Error(err))
	}

	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if err := SaveToken(s.ctx, s.kv, s.key, token); err != nil {
		s.logger.Warn("Failed to cache token", zap.String("key", s.key), zap.Error(err))
	}
	return token, nil
}
