package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"owl-withings/internal/aggregator"
	"owl-withings/internal/models"
)

const (
	measurementsSheet = "Measurements"
	latestSheet       = "Latest"
)

// MeasurementsHeader 明细表表头，每个读数一行
var MeasurementsHeader = []string{
	"Group ID",
	"Taken At",
	"Attribution",
	"Category",
	"Device ID",
	"Type",
	"Position",
	"Value",
}

// LatestHeader 最新值表表头
var LatestHeader = []string{
	"Type",
	"Position",
	"Value",
}

// MeasurementWorkbook 生成测量数据 Excel：明细表 + 聚合后的最新值表
func MeasurementWorkbook(groups []models.MeasurementGroup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range []string{measurementsSheet, latestSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	// 删除默认的 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(measurementsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to locate sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, measurementsSheet, MeasurementsHeader, headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, g := range groups {
		for _, m := range g.Measurements {
			values := []any{
				g.GroupID,
				g.TakenAt.UTC().Format(time.DateTime),
				g.Attribution.String(),
				g.Category.String(),
				g.DeviceID,
				m.Type.String(),
				positionLabel(m.Position),
				m.Value,
			}
			if err := writeRow(f, measurementsSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	if err := writeHeader(f, latestSheet, LatestHeader, headerStyle); err != nil {
		return nil, err
	}
	for i, e := range aggregator.Entries(aggregator.AggregateMeasurements(groups)) {
		if err := writeRow(f, latestSheet, i+2, []any{e.TypeName, positionLabel(e.Position), e.Value}); err != nil {
			return nil, err
		}
	}

	for _, sheet := range []string{measurementsSheet, latestSheet} {
		// 冻结表头
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("failed to freeze panes: %w", err)
		}
	}
	if err := f.SetColWidth(measurementsSheet, "A", "H", 20); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func positionLabel(p *models.MeasurementPosition) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
