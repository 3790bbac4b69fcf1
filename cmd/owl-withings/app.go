package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"owl-withings/internal/config"
	"owl-withings/internal/service"
	"owl-withings/internal/store"
)

type contextKey int

const appContextKey contextKey = iota

// app 命令共享的依赖，按需创建
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer

	redis *redis.Client
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	return &app{cfg: cfg, logger: logger, out: os.Stdout}
}

func ctxGetApp(ctx context.Context) *app {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(appContextKey).(*app)
	return a
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func (a *app) transport() service.Transport {
	return service.NewRestyTransport(a.cfg.Withings.APIHost, a.cfg.Withings.RequestTimeout)
}

func (a *app) oauthConfig() service.OAuthConfig {
	return service.OAuthConfig{
		ClientID:     a.cfg.Withings.ClientID,
		ClientSecret: a.cfg.Withings.ClientSecret,
		RedirectURL:  a.cfg.Withings.RedirectURL,
	}
}

func (a *app) authenticator() *service.Authenticator {
	return service.NewAuthenticator(a.transport(), a.oauthConfig(), a.logger)
}

func (a *app) kvStore(ctx context.Context) (*store.RedisKVStore, error) {
	if a.redis == nil {
		a.redis = store.NewRedisClient(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	}
	kv := store.NewRedisKVStore(a.redis)
	if err := kv.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return kv, nil
}

// tokenSource 选择 token 来源：
// 开启缓存时以 Redis 中的 token 为准，否则使用环境变量里的 token；
// 配置了 client id 和 refresh token 时过期后自动刷新
func (a *app) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	w := a.cfg.Withings
	var initial *oauth2.Token
	if w.AccessToken != "" || w.RefreshToken != "" {
		initial = &oauth2.Token{AccessToken: w.AccessToken, RefreshToken: w.RefreshToken, TokenType: "Bearer"}
	}

	if !a.cfg.TokenCacheEnabled {
		if initial == nil {
			return nil, errors.New("no access token configured: set WITHINGS_ACCESS_TOKEN")
		}
		if w.ClientID == "" || w.RefreshToken == "" {
			return oauth2.StaticTokenSource(initial), nil
		}
		return a.authenticator().TokenSource(ctx, initial), nil
	}

	kv, err := a.kvStore(ctx)
	if err != nil {
		return nil, err
	}
	key := store.TokenKey(w.ClientID)
	cached, err := store.LoadToken(ctx, kv, key)
	switch {
	case err == nil:
		initial = cached
	case !errors.Is(err, store.ErrCacheMiss):
		a.logger.Warn("Failed to read cached token", zap.String("key", key), zap.Error(err))
	}
	if initial == nil {
		return nil, errors.New("no token cached or configured: run exchange-code or set WITHINGS_ACCESS_TOKEN")
	}
	return store.NewCachedTokenSource(ctx, kv, key, a.authenticator().TokenSource(ctx, initial), a.logger), nil
}

func (a *app) client(ctx context.Context) (*service.WithingsClient, error) {
	tokens, err := a.tokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewWithingsClient(a.transport(), tokens, a.logger), nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
