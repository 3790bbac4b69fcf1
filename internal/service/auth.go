package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"owl-withings/internal/models"
)

// Withings OAuth2 端点
var withingsEndpoint = oauth2.Endpoint{
	AuthURL:  "https://account.withings.com/oauth2_user/authorize2",
	TokenURL: DefaultAPIHost + "/v2/oauth2",
}

// OAuthConfig 应用在 Withings 开发者后台登记的信息
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c OAuthConfig) oauth2Config(scopes []models.AuthScope) *oauth2.Config {
	names := make([]string, len(scopes))
	for i, s := range scopes {
		names[i] = string(s)
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint:     withingsEndpoint,
		// Withings 的 scope 以逗号分隔，而 oauth2 默认用空格拼接
		Scopes: []string{strings.Join(names, ",")},
	}
}

// AuthorizeURL 生成用户授权页面地址
func AuthorizeURL(cfg OAuthConfig, state string, scopes ...models.AuthScope) string {
	return cfg.oauth2Config(scopes).AuthCodeURL(state)
}

// Authenticator 通过 v2/oauth2 换取和刷新 access token
// Withings 的 token 接口不是标准 OAuth2 响应（外层有 status/body），不能直接用 oauth2.Config.Exchange
type Authenticator struct {
	client *WithingsClient
	config OAuthConfig
	now    func() time.Time
}

// NewAuthenticator 创建 Authenticator
func NewAuthenticator(transport Transport, cfg OAuthConfig, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		client: NewWithingsClient(transport, nil, logger),
		config: cfg,
		now:    time.Now,
	}
}

// Exchange 用授权码换取 token
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.requestToken(ctx, map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": a.config.RedirectURL,
	})
}

// Refresh 用 refresh token 换取新的 token
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return a.requestToken(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

// TokenSource 返回自动刷新的 TokenSource，token 过期前一直复用
func (a *Authenticator) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(token, &refreshSource{ctx: ctx, auth: a, refreshToken: token.RefreshToken})
}

func (a *Authenticator) requestToken(ctx context.Context, form map[string]string) (*oauth2.Token, error) {
	form["action"] = "requesttoken"
	form["client_id"] = a.config.ClientID
	form["client_secret"] = a.config.ClientSecret
	body, err := a.client.post(ctx, "v2/oauth2", form, map[string]string{
		"User-Agent": "owl-withings/" + Version,
		"Accept":     "application/json",
	})
	if err != nil {
		return nil, err
	}
	obj, err := parseObject(body)
	if err != nil {
		return nil, err
	}

	var raw struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
		Scope        string `json:"scope"`
		TokenType    string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, connectionError("malformed token response", err)
	}
	if raw.AccessToken == "" {
		return nil, &models.MissingFieldError{Entity: "token", Key: "access_token"}
	}

	token := &oauth2.Token{
		AccessToken:  raw.AccessToken,
		TokenType:    raw.TokenType,
		RefreshToken: raw.RefreshToken,
	}
	if raw.ExpiresIn > 0 {
		token.Expiry = a.now().Add(time.Duration(raw.ExpiresIn) * time.Second)
	}
	return token.WithExtra(map[string]any{
		"userid": obj["userid"],
		"scope":  raw.Scope,
	}), nil
}

// refreshSource 每次被调用都刷新一次；外层 ReuseTokenSource 负责缓存
type refreshSource struct {
	ctx          context.Context
	auth         *Authenticator
	refreshToken string
}

func (s *refreshSource) Token() (*oauth2.Token, error) {
	if s.refreshToken == "" {
		return nil, fmt.Errorf("token expired and no refresh token available")
	}
	token, err := s.auth.Refresh(s.ctx, s.refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if token.RefreshToken != "" {
		s.refreshToken = token.RefreshToken
	}
	return token, nil
}
