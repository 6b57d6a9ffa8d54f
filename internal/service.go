package internal

import (
	"bytes"
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/attendance"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/report"
)

const dateLayout = "2006-01-02"

type ReportMailer interface {
	SendTimesheetReport(ctx context.Context, dateRange model.DateRange, timesheets []model.Timesheet, workbook []byte) error
}

type Service struct {
	client           attendance.ClientInterface
	authDefaults     model.AuthConfig
	mailer           ReportMailer
	defaultRangeDays int
	now              func() time.Time
}

func NewService(c attendance.ClientInterface, defaults model.AuthConfig, mailer ReportMailer, defaultRangeDays int) *Service {
	if defaultRangeDays <= 0 {
		defaultRangeDays = 30
	}
	return &Service{
		client:           c,
		authDefaults:     defaults,
		mailer:           mailer,
		defaultRangeDays: defaultRangeDays,
		now:              time.Now,
	}
}

// GetTimesheets resolves credentials for this call, fetches every summary in the range and normalises them
func (service Service) GetTimesheets(ctx context.Context, overrides attendance.Overrides, dateRange model.DateRange) ([]model.Timesheet, error) {
	ctxLogger := log.WithContext(ctx)

	cfg, err := attendance.ResolveConfig(overrides, service.authDefaults)
	if err != nil {
		ctxLogger.WithError(err).Error("could not resolve attendance API configuration")
		return nil, err
	}

	summaries, err := service.client.FetchAll(ctx, cfg, dateRange)
	if err != nil {
		ctxLogger.WithError(err).Errorf("failed to fetch attendance summaries from %s to %s", dateRange.From, dateRange.To)
		return nil, err
	}

	ctxLogger.Infof("Fetched %d attendance summaries", len(summaries))
	return attendance.ToTimesheets(summaries), nil
}

// ExportTimesheets returns the timesheets for the range as an xlsx workbook
func (service Service) ExportTimesheets(ctx context.Context, overrides attendance.Overrides, dateRange model.DateRange) (*bytes.Buffer, error) {
	timesheets, err := service.GetTimesheets(ctx, overrides, dateRange)
	if err != nil {
		return nil, err
	}
	return report.NewWorkbook(ctx, dateRange, timesheets)
}

// EmailTimesheetReport emails the workbook for the range using the process wide credentials
func (service Service) EmailTimesheetReport(ctx context.Context, dateRange model.DateRange) error {
	ctxLogger := log.WithContext(ctx)

	timesheets, err := service.GetTimesheets(ctx, attendance.Overrides{}, dateRange)
	if err != nil {
		return err
	}

	workbook, err := report.NewWorkbook(ctx, dateRange, timesheets)
	if err != nil {
		return err
	}

	if err := service.mailer.SendTimesheetReport(ctx, dateRange, timesheets, workbook.Bytes()); err != nil {
		ctxLogger.WithError(err).Error("failed to email the timesheet report")
		return err
	}
	return nil
}

// DefaultRange returns the configured number of days ending today
func (service Service) DefaultRange() model.DateRange {
	today := service.now()
	return model.DateRange{
		From: today.AddDate(0, 0, -(service.defaultRangeDays - 1)).Format(dateLayout),
		To:   today.Format(dateLayout),
	}
}
