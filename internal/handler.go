package internal

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/attendance"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/report"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/util"
)

const (
	headerBaseURL   = "x-api-base-url"
	headerAPIKey    = "x-api-key"
	headerKeyHeader = "x-api-key-header"
	headerCompanyID = "x-company-id"
)

// TimesheetsHandler returns the normalised timesheets for the requested range as JSON
func TimesheetsHandler(handler TimesheetAPIHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)

		dateRange, err := parseDateRange(req)
		if err != nil {
			contextLogger.WithError(err).Info("rejected timesheets request")
			util.WithError(err.Error(), http.StatusBadRequest, res)
			return
		}

		timesheets, err := handler.GetTimesheets(ctx, overridesFromRequest(req), dateRange)
		if err != nil {
			contextLogger.WithError(err).Error("Failed to fetch timesheets")
			util.WithError(err.Error(), http.StatusInternalServerError, res)
			return
		}
		util.WithBodyAndStatus(timesheets, http.StatusOK, res)
	}
}

// ExportHandler streams the timesheets for the requested range as an xlsx download
func ExportHandler(handler TimesheetAPIHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)

		dateRange, err := parseDateRange(req)
		if err != nil {
			contextLogger.WithError(err).Info("rejected export request")
			util.WithError(err.Error(), http.StatusBadRequest, res)
			return
		}

		workbook, err := handler.ExportTimesheets(ctx, overridesFromRequest(req), dateRange)
		if err != nil {
			contextLogger.WithError(err).Error("Failed to export timesheets")
			util.WithError(err.Error(), http.StatusInternalServerError, res)
			return
		}

		res.Header().Set("Content-Type", report.ContentType)
		res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(dateRange)))
		res.Header().Set("Content-Length", strconv.Itoa(workbook.Len()))
		res.WriteHeader(http.StatusOK)
		if _, err := workbook.WriteTo(res); err != nil {
			contextLogger.WithError(err).Error("Failed to write workbook to response")
		}
	}
}

// ReportHandler emails the timesheet report. Without from/to the configured default range is used.
func ReportHandler(handler TimesheetAPIHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)

		dateRange := handler.DefaultRange()
		q := req.URL.Query()
		if q.Get("from") != "" || q.Get("to") != "" {
			var err error
			dateRange, err = parseDateRange(req)
			if err != nil {
				util.WithError(err.Error(), http.StatusBadRequest, res)
				return
			}
		}

		if err := handler.EmailTimesheetReport(ctx, dateRange); err != nil {
			contextLogger.WithError(err).Error("Failed to send the timesheet report")
			util.WithError(err.Error(), http.StatusInternalServerError, res)
			return
		}
		util.WithBodyAndStatus(map[string]string{"from": dateRange.From, "to": dateRange.To}, http.StatusOK, res)
	}
}

func parseDateRange(req *http.Request) (model.DateRange, error) {
	q := req.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		return model.DateRange{}, fmt.Errorf("query parameters from and to are required (YYYY-MM-DD)")
	}

	// a from after to is an empty range and is left to the attendance API
	if _, err := time.Parse(dateLayout, from); err != nil {
		return model.DateRange{}, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", from)
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		return model.DateRange{}, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", to)
	}
	return model.DateRange{From: from, To: to}, nil
}

func overridesFromRequest(req *http.Request) attendance.Overrides {
	return attendance.Overrides{
		BaseURL:      req.Header.Get(headerBaseURL),
		APIKey:       req.Header.Get(headerAPIKey),
		APIKeyHeader: req.Header.Get(headerKeyHeader),
		TenantID:     req.Header.Get(headerCompanyID),
	}
}
