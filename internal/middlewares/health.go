package middlewares

import (
	"net/http"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/util"
)

// RuntimeHealthCheck reports that the process is up. It does not call the attendance API.
func RuntimeHealthCheck() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WithBodyAndStatus("All OK", http.StatusOK, w)
	}
}
