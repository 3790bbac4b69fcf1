package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"owl-withings/internal/models"
)

func TestMeasurementWorkbook(t *testing.T) {
	torso := models.PositionTorso
	groups := []models.MeasurementGroup{
		{
			GroupID:     2,
			Attribution: models.AttributionDeviceEntryForUser,
			TakenAt:     time.Unix(1700000600, 0).UTC(),
			Category:    models.GroupCategoryReal,
			DeviceID:    "dev",
			Measurements: []models.Measurement{
				{Type: models.MeasurementTypeWeight, Value: 70.5},
				{Type: models.MeasurementTypeMuscleMass, Value: 3.2, Position: &torso},
			},
		},
		{
			GroupID:      1,
			Attribution:  models.AttributionDeviceEntryForUser,
			TakenAt:      time.Unix(1700000000, 0).UTC(),
			Category:     models.GroupCategoryReal,
			DeviceID:     "dev",
			Measurements: []models.Measurement{{Type: models.MeasurementTypeWeight, Value: 71}},
		},
	}

	data, err := MeasurementWorkbook(groups)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Measurements", "Latest"}, f.GetSheetList())

	rows, err := f.GetRows("Measurements")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, MeasurementsHeader, rows[0])
	assert.Equal(t, []string{"2", "2023-11-14 22:23:20", "DEVICE_ENTRY_FOR_USER", "REAL", "dev", "WEIGHT", "", "70.5"}, rows[1])
	assert.Equal(t, "TORSO", rows[2][6])

	latest, err := f.GetRows("Latest")
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, []string{"WEIGHT", "", "70.5"}, latest[1])
	assert.Equal(t, []string{"MUSCLE_MASS", "TORSO", "3.2"}, latest[2])
}

func TestMeasurementWorkbook_Empty(t *testing.T) {
	data, err := MeasurementWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Measurements")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
