package httpapi

import (
	"fmt"
	"time"

	"silent-sos/internal/models"

	"github.com/xuri/excelize/v2"
)

// AlertExportHeader 导出表头
var AlertExportHeader = []string{
	"Alert ID",
	"Session ID",
	"Camera ID",
	"Distress Label",
	"Risk",
	"Confidence",
	"Onset (s)",
	"Status",
	"Created At",
	"Acknowledged At",
}

var alertColumnWidths = []float64{10, 38, 15, 15, 12, 12, 12, 15, 22, 22}

const alertSheetName = "Alerts"

// GenerateAlertExport 生成报警历史 Excel 文件，records 为空时只有表头
func GenerateAlertExport(records []models.AlertRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(alertSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FDE9E7"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range AlertExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(alertSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(alertSheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(alertSheetName, name, name, alertColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}

		acknowledged := ""
		if rec.AcknowledgedAt != nil {
			acknowledged = rec.AcknowledgedAt.UTC().Format(time.RFC3339)
		}
		row := []any{
			rec.ID,
			rec.SessionID,
			rec.CameraID,
			rec.DistressLabel,
			string(rec.Risk),
			rec.Confidence,
			rec.OnsetTimestampSeconds,
			string(rec.Status),
			rec.CreatedAt.UTC().Format(time.RFC3339),
			acknowledged,
		}
		if err := f.SetSheetRow(alertSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}
