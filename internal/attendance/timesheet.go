package attendance

import (
	"math"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

// ToTimesheet converts minute totals to hours rounded half away from zero to one decimal.
func ToTimesheet(summary AttendanceSummary) model.Timesheet {
	return model.Timesheet{
		ID:         summary.EmployeeID,
		Name:       summary.EmployeeName,
		TotalHours: minutesToHours(summary.TotalWorkMinutes),
		Overtime:   minutesToHours(summary.OvertimeMinutes),
	}
}

func ToTimesheets(summaries []AttendanceSummary) []model.Timesheet {
	timesheets := make([]model.Timesheet, 0, len(summaries))
	for _, s := range summaries {
		timesheets = append(timesheets, ToTimesheet(s))
	}
	return timesheets
}

func minutesToHours(minutes *float64) float64 {
	if minutes == nil {
		return 0
	}
	return math.Round(*minutes/60*10) / 10
}
