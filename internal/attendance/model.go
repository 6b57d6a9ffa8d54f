package attendance

// AttendanceSummary is one employee row as returned by the attendance API.
// The minute totals are optional upstream.
type AttendanceSummary struct {
	EmployeeID       int64    `json:"employee_id"`
	EmployeeName     string   `json:"employee_name"`
	TotalWorkMinutes *float64 `json:"total_work_minutes,omitempty"`
	OvertimeMinutes  *float64 `json:"overtime_minutes,omitempty"`
}

type envelopeKind int

const (
	envelopeUnrecognised envelopeKind = iota
	envelopeBare
	envelopeWrapped
)

// Envelope is one decoded page: a bare array, or an object with data and an optional total.
// Any other shape decodes to an unrecognised envelope with no items.
type Envelope struct {
	Kind  envelopeKind
	Items []AttendanceSummary
	Total *int
}
