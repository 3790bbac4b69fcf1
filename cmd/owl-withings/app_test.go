package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"owl-withings/internal/config"
	"owl-withings/internal/store"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{}
	cfg.Withings.APIHost = "http://127.0.0.1:1"
	cfg.Withings.RequestTimeout = time.Second
	a := newApp(cfg, zap.NewNop())
	t.Cleanup(a.close)
	return a
}

func TestApp_TokenSource_Static(t *testing.T) {
	a := newTestApp(t)
	a.cfg.Withings.AccessToken = "static-token"

	ts, err := a.tokenSource(context.Background())
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "static-token", tok.AccessToken)
}

func TestApp_TokenSource_Missing(t *testing.T) {
	a := newTestApp(t)
	_, err := a.tokenSource(context.Background())
	assert.Error(t, err)
}

func TestApp_TokenSource_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newTestApp(t)
	a.cfg.TokenCacheEnabled = true
	a.cfg.Redis.Addr = mr.Addr()
	a.cfg.Withings.ClientID = "cid"

	ctx := context.Background()
	_, err := a.tokenSource(ctx)
	require.Error(t, err, "nothing cached and nothing configured")

	kv, err := a.kvStore(ctx)
	require.NoError(t, err)
	cached := &oauth2.Token{AccessToken: "cached-token", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, store.SaveToken(ctx, kv, store.TokenKey("cid"), cached))

	ts, err := a.tokenSource(ctx)
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "cached-token", tok.AccessToken)
}

func TestApp_PrintJSON(t *testing.T) {
	a := newTestApp(t)
	var buf bytes.Buffer
	a.out = &buf

	require.NoError(t, a.printJSON(map[string]int{"steps": 42}))
	assert.JSONEq(t, `{"steps": 42}`, buf.String())
}
