package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

type Mailer struct {
	emailClient sesiface.SESAPI
	emailTo     string
	emailFrom   string
}

func NewMailer(ec sesiface.SESAPI, emailTo string, emailFrom string) *Mailer {
	return &Mailer{
		emailClient: ec,
		emailTo:     emailTo,
		emailFrom:   emailFrom,
	}
}

// SendTimesheetReport emails the workbook as an attachment through SES.
func (m *Mailer) SendTimesheetReport(ctx context.Context, dateRange model.DateRange, timesheets []model.Timesheet, workbook []byte) error {
	contextLogger := log.WithContext(ctx)
	if m.emailFrom == "" {
		return &model.ConfigurationError{Field: "EMAIL_FROM"}
	}
	recipients := populateEmailRecipients(m.emailTo)
	if len(recipients) == 0 {
		return &model.ConfigurationError{Field: "EMAIL_TO"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.emailFrom)
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, aws.StringValue(r))
	}
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", fmt.Sprintf("Report: Timesheets %s to %s", dateRange.From, dateRange.To))
	msg.SetBody("text/plain", summaryText(dateRange, timesheets))
	msg.Attach(FileName(dateRange), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(workbook)
		return err
	}))

	var emailRaw bytes.Buffer
	if _, err := msg.WriteTo(&emailRaw); err != nil {
		contextLogger.WithError(err).Error("Error when writing email data")
		return err
	}

	emailParams := ses.SendRawEmailInput{
		Source:     aws.String(m.emailFrom),
		RawMessage: &ses.RawMessage{Data: emailRaw.Bytes()},
	}
	emailParams.SetDestinations(recipients)

	if _, err := m.emailClient.SendRawEmailWithContext(ctx, &emailParams); err != nil {
		contextLogger.WithError(err).Error("Error when sending email")
		return fmt.Errorf("failed to send timesheet report: %w", err)
	}
	contextLogger.Infof("Timesheet report sent to %d recipients", len(recipients))
	return nil
}

func summaryText(dateRange model.DateRange, timesheets []model.Timesheet) string {
	var totalHours, overtime float64
	for _, ts := range timesheets {
		totalHours += ts.TotalHours
		overtime += ts.Overtime
	}
	return fmt.Sprintf("Timesheets from %s to %s.\nEmployees: %d\nTotal hours: %.1f\nOvertime: %.1f\nPlease check attached report for details.",
		dateRange.From, dateRange.To, len(timesheets), totalHours, overtime)
}

func populateEmailRecipients(emailTo string) []*string {
	var emailRecipients []*string
	for _, recipient := range strings.Split(emailTo, ",") {
		if r := strings.TrimSpace(recipient); r != "" {
			emailRecipients = append(emailRecipients, aws.String(r))
		}
	}
	return emailRecipients
}
