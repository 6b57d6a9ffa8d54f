package auth

import (
	"net/http"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/config"
)

type TokenResetter interface {
	InvalidateAll() int
}

func Route(resetter TokenResetter) (route config.Route) {
	route = config.Route{
		Path:    "/auth/token",
		Method:  http.MethodDelete,
		Handler: ResetTokensHandler(resetter),
	}

	return route
}
