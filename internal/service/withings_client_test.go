package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"owl-withings/internal/models"
)

// fakeAPI 记录收到的请求并返回预设响应
type fakeAPI struct {
	mu          sync.Mutex
	requests    []*http.Request
	forms       []url.Values
	contentType string
	response    string
	delay       time.Duration
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.forms = append(f.forms, r.PostForm)

	ct, body, delay := f.contentType, f.response, f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if ct == "" {
		ct = "application/json;charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	_, _ = io.WriteString(w, body)
}

// respond 替换后续请求的响应
func (f *fakeAPI) respond(contentType, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentType = contentType
	f.response = body
}

func (f *fakeAPI) lastForm() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[len(f.forms)-1]
}

func (f *fakeAPI) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, api *fakeAPI) *WithingsClient {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "token-123"})
	return NewWithingsClient(NewRestyTransport(server.URL, time.Second), tokens, zap.NewNop())
}

func ok(body string) string {
	return `{"status":0,"body":` + body + `}`
}

func TestWithingsClient_GetDevices(t *testing.T) {
	api := &fakeAPI{response: ok(`{"devices":[
		{"type":"Scale","battery":"low","model":"Body Cardio","model_id":6,"deviceid":"a","hash_deviceid":"ha","first_session_date":null,"last_session_date":null},
		{"type":"Sleep Monitor","battery":"high","model":"Aura Sensor V2","model_id":63,"deviceid":"b","hash_deviceid":"hb"}
	]}`)}
	client := newTestClient(t, api)

	devices, err := client.GetDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, models.DeviceModelBodyCardio, devices[0].Model)
	assert.Equal(t, models.DeviceBatteryLow, devices[0].Battery)

	req := api.lastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v2/user", req.URL.Path)
	assert.Equal(t, "Bearer token-123", req.Header.Get("Authorization"))
	assert.Equal(t, "owl-withings/"+Version, req.Header.Get("User-Agent"))
	assert.Contains(t, req.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
	assert.Equal(t, "getdevice", api.lastForm().Get("action"))
}

func TestWithingsClient_GetGoals(t *testing.T) {
	api := &fakeAPI{response: ok(`{"goals":[]}`)}
	client := newTestClient(t, api)

	goals, err := client.GetGoals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Goals{}, goals)
	assert.Equal(t, "getgoals", api.lastForm().Get("action"))
}

func TestWithingsClient_GetMeasurementInPeriod(t *testing.T) {
	api := &fakeAPI{response: ok(`{"updatetime":1700000100,"timezone":"UTC","measuregrps":[
		{"grpid":9007199254740993,"attrib":17,"date":1700000000,"created":1700000001,"modified":1700000002,"category":1,
		 "deviceid":"d","hash_deviceid":"h","measures":[{"value":7000,"type":1,"unit":-2}]}
	]}`)}
	client := newTestClient(t, api)

	start := time.Unix(1699990000, 0)
	end := time.Unix(1700090000, 0)
	groups, err := client.GetMeasurementInPeriod(context.Background(), start, end,
		[]models.MeasurementType{models.MeasurementTypeWeight, models.MeasurementTypeFatRatio})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(9007199254740993), groups[0].GroupID)
	assert.Equal(t, models.AttributionGuidedConditions, groups[0].Attribution)
	assert.Equal(t, 70.0, groups[0].Measurements[0].Value)

	form := api.lastForm()
	assert.Equal(t, "/measure", api.lastRequest().URL.Path)
	assert.Equal(t, "getmeas", form.Get("action"))
	assert.Equal(t, "1,6", form.Get("meastypes"))
	assert.Equal(t, "1699990000", form.Get("startdate"))
	assert.Equal(t, "1700090000", form.Get("enddate"))
	assert.False(t, form.Has("lastupdate"))
}

func TestWithingsClient_GetMeasurementSince_NoTypeFilter(t *testing.T) {
	api := &fakeAPI{response: ok(`{"measuregrps":[]}`)}
	client := newTestClient(t, api)

	groups, err := client.GetMeasurementSince(context.Background(), time.Unix(1700000000, 0), nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, "1700000000", api.lastForm().Get("lastupdate"))
	assert.False(t, api.lastForm().Has("meastypes"))
}

func TestWithingsClient_SleepAndSummary(t *testing.T) {
	api := &fakeAPI{response: ok(`{"series":[{"startdate":1,"enddate":2,"state":1,"hash_deviceid":"h","hr":{"1":60}}],"more":false,"offset":0}`)}
	client := newTestClient(t, api)

	series, err := client.GetSleep(context.Background(), time.Unix(1, 0), time.Unix(2, 0),
		[]models.SleepDataField{models.SleepDataHeartRate, models.SleepDataSnoring})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "/v2/sleep", api.lastRequest().URL.Path)
	assert.Equal(t, "get", api.lastForm().Get("action"))
	assert.Equal(t, "hr,snoring", api.lastForm().Get("data_fields"))

	api.respond("", ok(`{"series":[{"startdate":1,"enddate":2,"date":"2023-11-14","hash_deviceid":"h","data":{"sleep_score":70}}]}`))
	start, _ := models.ParseDate("2023-11-13")
	end, _ := models.ParseDate("2023-11-14")
	summaries, err := client.GetSleepSummaryInPeriod(context.Background(), start, end, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 70, *summaries[0].SleepScore)

	form := api.lastForm()
	assert.Equal(t, "getsummary", form.Get("action"))
	assert.Equal(t, "2023-11-13", form.Get("startdateymd"))
	assert.Equal(t, "2023-11-14", form.Get("enddateymd"))
	assert.False(t, form.Has("data_fields"))
}

func TestWithingsClient_ActivitiesAndWorkouts(t *testing.T) {
	api := &fakeAPI{response: ok(`{"activities":[{"date":"2023-11-14","brand":1,"is_tracker":true,"steps":10,"distance":8.5,
		"elevation":1,"soft":1,"moderate":1,"intense":1,"active":3,"calories":1.5,"totalcalories":1500,"modified":1700000000}]}`)}
	client := newTestClient(t, api)

	activities, err := client.GetActivitiesSince(context.Background(), time.Unix(100, 0),
		[]models.ActivityDataField{models.ActivitySteps})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityOriginWithings, activities[0].Origin)
	assert.Equal(t, "/v2/measure", api.lastRequest().URL.Path)
	assert.Equal(t, "getactivity", api.lastForm().Get("action"))
	assert.Equal(t, "steps", api.lastForm().Get("data_fields"))

	api.respond("", ok(`{"series":[{"id":1,"category":1,"attrib":0,"startdate":1,"enddate":2,"date":"2023-11-14","data":{"steps":100}}]}`))
	workouts, err := client.GetWorkoutsSince(context.Background(), time.Unix(100, 0), nil)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, models.WorkoutWalk, workouts[0].Category)
	assert.Equal(t, "getworkouts", api.lastForm().Get("action"))
}

func TestWithingsClient_Notifications(t *testing.T) {
	api := &fakeAPI{response: ok(`{}`)}
	client := newTestClient(t, api)

	require.NoError(t, client.SubscribeNotification(context.Background(), "https://example.com/cb", models.NotificationWeight))
	form := api.lastForm()
	assert.Equal(t, "/notify", api.lastRequest().URL.Path)
	assert.Equal(t, "subscribe", form.Get("action"))
	assert.Equal(t, "https://example.com/cb", form.Get("callbackurl"))
	assert.Equal(t, "1", form.Get("appli"))

	api.respond("", ok(`{"profiles":[{"appli":1,"callbackurl":"https://example.com/cb","comment":"c","expires":2147483647}]}`))
	configs, err := client.ListNotificationConfigurations(context.Background(), models.NotificationUnknown)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, models.NotificationWeight, configs[0].Category)
	assert.False(t, api.lastForm().Has("appli"))

	api.respond("", ok(`{}`))
	require.NoError(t, client.RevokeNotificationConfigurations(context.Background(), "https://example.com/cb", models.NotificationSleep))
	assert.Equal(t, "revoke", api.lastForm().Get("action"))
	assert.Equal(t, "44", api.lastForm().Get("appli"))
}

func TestWithingsClient_StatusError(t *testing.T) {
	api := &fakeAPI{response: `{"status":601,"error":"Too many request"}`}
	client := newTestClient(t, api)

	_, err := client.GetDevices(context.Background())
	require.ErrorIs(t, err, ErrTooManyRequests)
	assert.Contains(t, err.Error(), "Too many request")

	api.respond("", `{"error":"no status"}`)
	_, err = client.GetDevices(context.Background())
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestWithingsClient_NonJSONResponse(t *testing.T) {
	api := &fakeAPI{contentType: "text/html", response: "<html>maintenance</html>"}
	client := newTestClient(t, api)

	_, err := client.GetGoals(context.Background())
	require.ErrorIs(t, err, ErrConnection)

	api.respond("application/json", `{"status":0,`)
	_, err = client.GetGoals(context.Background())
	require.ErrorIs(t, err, ErrConnection)
}

func TestWithingsClient_Timeout(t *testing.T) {
	api := &fakeAPI{response: ok(`{"devices":[]}`), delay: 300 * time.Millisecond}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})
	client := NewWithingsClient(NewRestyTransport(server.URL, 50*time.Millisecond), tokens, zap.NewNop())

	_, err := client.GetDevices(context.Background())
	require.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "timeout")
}

func TestWithingsClient_MissingListKey(t *testing.T) {
	api := &fakeAPI{response: ok(`{"more":false}`)}
	client := newTestClient(t, api)

	_, err := client.GetWorkoutsSince(context.Background(), time.Unix(0, 0), nil)
	var mf *models.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "series", mf.Key)
}

func TestWithingsClient_TokenError(t *testing.T) {
	client := NewWithingsClient(&fakeTransport{}, failingTokens{}, nil)
	_, err := client.GetDevices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

type failingTokens struct{}

func (failingTokens) Token() (*oauth2.Token, error) {
	return nil, assert.AnError
}

// fakeTransport 不经过网络的 Transport
type fakeTransport struct {
	resp *TransportResponse
	err  error
	path string
	form map[string]string
}

func (f *fakeTransport) PostForm(_ context.Context, path string, form, _ map[string]string) (*TransportResponse, error) {
	f.path = path
	f.form = form
	return f.resp, f.err
}

func TestWithingsClient_TransportErrorBecomesConnectionError(t *testing.T) {
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})
	client := NewWithingsClient(&fakeTransport{err: io.ErrUnexpectedEOF}, tokens, nil)

	_, err := client.GetGoals(context.Background())
	require.ErrorIs(t, err, ErrConnection)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWithingsClient_DecodeErrorSurfaces(t *testing.T) {
	body, _ := json.Marshal(map[string]any{
		"status": 0,
		"body":   map[string]any{"measuregrps": []any{map[string]any{"attrib": 0}}},
	})
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"})
	transport := &fakeTransport{resp: &TransportResponse{StatusCode: 200, ContentType: "application/json", Body: body}}
	client := NewWithingsClient(transport, tokens, nil)

	_, err := client.GetMeasurementSince(context.Background(), time.Unix(0, 0), nil)
	require.ErrorIs(t, err, models.ErrMissingField)
	assert.Equal(t, "measure", transport.path)
}
