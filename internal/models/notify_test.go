package models

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNotificationConfiguration(t *testing.T) {
	d, logs := newObservedDecoder()

	cfg, err := d.DecodeNotificationConfiguration(mustMap(t, `{
		"appli": 44,
		"callbackurl": "https://example.com/withings",
		"comment": "owl",
		"expires": 2147483647
	}`))
	require.NoError(t, err)
	assert.Equal(t, NotificationSleep, cfg.Category)
	assert.Equal(t, "https://example.com/withings", cfg.CallbackURL)
	assert.Equal(t, "owl", cfg.Comment)
	require.NotNil(t, cfg.Expires)
	assert.Equal(t, time.Unix(2147483647, 0).UTC(), *cfg.Expires)
	assert.Equal(t, 0, logs.Len())

	cfg, err = d.DecodeNotificationConfiguration(mustMap(t, `{"appli": 3, "callbackurl": "u", "comment": "c"}`))
	require.NoError(t, err)
	assert.Equal(t, NotificationUnknown, cfg.Category)
	assert.Nil(t, cfg.Expires)
	assert.Equal(t, 1, logs.Len())
}

func TestDecodeWebhookCall(t *testing.T) {
	d, _ := newObservedDecoder()

	call, err := d.DecodeWebhookCall(mustMap(t, `{"userid": 1234, "appli": 1, "startdate": 1700000000, "enddate": 1700000060}`))
	require.NoError(t, err)
	assert.Equal(t, WebhookCall{
		UserID:    1234,
		Category:  NotificationWeight,
		StartDate: time.Unix(1700000000, 0).UTC(),
		EndDate:   time.Unix(1700000060, 0).UTC(),
	}, call)
}

func TestDecodeWebhookForm(t *testing.T) {
	d, _ := newObservedDecoder()

	form, err := url.ParseQuery("userid=1234&appli=4&startdate=1700000000&enddate=1700000060")
	require.NoError(t, err)
	call, err := d.DecodeWebhookForm(form)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), call.UserID)
	assert.Equal(t, NotificationPressure, call.Category)

	form.Del("enddate")
	_, err = d.DecodeWebhookForm(form)
	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "enddate", mf.Key)

	form.Set("enddate", "soon")
	_, err = d.DecodeWebhookForm(form)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestMeasurementTypesForCategory(t *testing.T) {
	assert.Len(t, MeasurementTypesForCategory(NotificationWeight), 10)
	assert.Contains(t, MeasurementTypesForCategory(NotificationWeight), MeasurementTypeWeight)
	assert.Equal(t, []MeasurementType{
		MeasurementTypeTemperature,
		MeasurementTypeBodyTemperature,
		MeasurementTypeSkinTemperature,
	}, MeasurementTypesForCategory(NotificationTemperature))
	assert.Contains(t, MeasurementTypesForCategory(NotificationPressure), MeasurementTypeSpO2)
	assert.Empty(t, MeasurementTypesForCategory(NotificationSleep))
}

func TestServices(t *testing.T) {
	s := ServiceMeasureGetMeas | ServiceSleepGetSummary
	assert.True(t, s.Has(ServiceMeasureGetMeas))
	assert.False(t, s.Has(ServiceHeartList))
	assert.Equal(t, Services(256), ServiceHeartList)
	assert.Equal(t, "MEASURE_GET_MEAS|SLEEP_V2_GET_SUMMARY", s.String())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
	assert.True(t, d.Before(Date{Year: 2024, Month: time.March, Day: 1}))
	assert.False(t, d.IsZero())

	_, err = ParseDate("2023-02-29")
	require.Error(t, err)

	var back Date
	require.NoError(t, back.UnmarshalText([]byte("2023-11-14")))
	assert.Equal(t, DateOf(time.Date(2023, 11, 14, 23, 0, 0, 0, time.UTC)), back)
}
