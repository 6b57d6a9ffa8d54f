package report

import (
	"bytes"
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

const (
	sheetName   = "Sheet1"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []interface{}{"Employee ID", "Employee", "Total Hours", "Overtime"}

// FileName returns the download name of the workbook for a date range.
func FileName(dateRange model.DateRange) string {
	return fmt.Sprintf("timesheets_%s_%s.xlsx", dateRange.From, dateRange.To)
}

// NewWorkbook lays out one row per timesheet under a bold header, followed by a totals row.
func NewWorkbook(ctx context.Context, dateRange model.DateRange, timesheets []model.Timesheet) (*bytes.Buffer, error) {
	contextLogger := log.WithContext(ctx)
	f := excelize.NewFile()

	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "D", 14)

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		contextLogger.WithError(err).Errorf("Unable to create column style")
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Timesheets %s to %s", dateRange.From, dateRange.To)); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A2", &headers); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "D2", boldStyle); err != nil {
		contextLogger.WithError(err).Errorf("Unable to set cell style")
		return nil, err
	}

	row := 3
	var totalHours, overtime float64
	for _, ts := range timesheets {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{ts.ID, ts.Name, ts.TotalHours, ts.Overtime}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			contextLogger.WithError(err).Errorf("Unable to write row %d", row)
			return nil, err
		}
		totalHours += ts.TotalHours
		overtime += ts.Overtime
		row++
	}

	totals := []interface{}{"", "Total", roundTenth(totalHours), roundTenth(overtime)}
	totalsCell := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(sheetName, totalsCell, &totals); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, totalsCell, fmt.Sprintf("D%d", row), boldStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		contextLogger.WithError(err).Error("Unable to write workbook")
		return nil, err
	}
	return buf, nil
}

// summed tenths drift in float arithmetic
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
