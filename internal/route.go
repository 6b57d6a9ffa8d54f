package internal

import (
	"bytes"
	"context"
	"net/http"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/attendance"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/config"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

type TimesheetAPIHandler interface {
	GetTimesheets(ctx context.Context, overrides attendance.Overrides, dateRange model.DateRange) ([]model.Timesheet, error)
	ExportTimesheets(ctx context.Context, overrides attendance.Overrides, dateRange model.DateRange) (*bytes.Buffer, error)
	EmailTimesheetReport(ctx context.Context, dateRange model.DateRange) error
	DefaultRange() model.DateRange
}

func Routes(handler TimesheetAPIHandler) []config.Route {
	return []config.Route{
		{
			Path:    "/timesheets",
			Method:  http.MethodGet,
			Handler: TimesheetsHandler(handler),
		},
		{
			Path:    "/timesheets/export",
			Method:  http.MethodGet,
			Handler: ExportHandler(handler),
		},
		{
			Path:    "/timesheets/report",
			Method:  http.MethodPost,
			Handler: ReportHandler(handler),
		},
	}
}
