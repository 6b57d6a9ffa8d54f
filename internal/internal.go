package internal

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/service/ses/sesiface"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/attendance"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/auth"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/config"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/customhttp"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/middlewares"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/report"
)

// StatusRoute health check route
func StatusRoute() (route config.Route) {
	route = config.Route{
		Path:    "/health",
		Method:  http.MethodGet,
		Handler: middlewares.RuntimeHealthCheck(),
	}
	return route
}

type ServerConfig interface {
	Version() string
	HTTPCommand() customhttp.HTTPCommand
	AuthDefaults() model.AuthConfig
	TokenSafetyMargin() time.Duration
	SummariesPath() string
	PerPage() int
	MaxPages() int
	DefaultRangeDays() int
	EmailClient() sesiface.SESAPI
	EmailTo() string
	EmailFrom() string
}

func SetupServer(cfg ServerConfig) *config.Server {
	basePath := ""
	if cfg.Version() != "" {
		basePath = fmt.Sprintf("/%v", cfg.Version())
	}

	tokenStore := auth.NewTokenStore(
		auth.NewAuthService(cfg.HTTPCommand()),
		auth.WithSafetyMargin(cfg.TokenSafetyMargin()),
	)
	client := attendance.NewClient(cfg.HTTPCommand(), tokenStore,
		attendance.WithSummariesPath(cfg.SummariesPath()),
		attendance.WithPerPage(cfg.PerPage()),
		attendance.WithMaxPages(cfg.MaxPages()),
	)
	mailer := report.NewMailer(cfg.EmailClient(), cfg.EmailTo(), cfg.EmailFrom())
	service := NewService(client, cfg.AuthDefaults(), mailer, cfg.DefaultRangeDays())

	server := config.NewServer(config.WithMiddleware(middlewares.RequestID)).
		WithRoutes(
			"", StatusRoute(),
		).
		WithRoutes(
			basePath,
			append(Routes(service), auth.Route(tokenStore))...,
		)
	return server
}
