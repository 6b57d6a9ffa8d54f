package config

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/customhttp"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

type ApplicationConfig struct {
	envValues   *envConfig
	scheme      model.Scheme
	httpCommand customhttp.HTTPCommand
	emailClient sesiface.SESAPI
}

// Version returns application version
func (cfg *ApplicationConfig) Version() string {
	return cfg.envValues.Version
}

// ServerPort returns the port no to listen for requests
func (cfg *ApplicationConfig) ServerPort() int {
	return cfg.envValues.ServerPort
}

// LogLevel returns the configured logrus level name
func (cfg *ApplicationConfig) LogLevel() string {
	return cfg.envValues.LogLevel
}

// HTTPCommand returns the outbound HTTP client shared by the API clients
func (cfg *ApplicationConfig) HTTPCommand() customhttp.HTTPCommand {
	return cfg.httpCommand
}

// AuthDefaults returns the process wide credentials used when a request brings none
func (cfg *ApplicationConfig) AuthDefaults() model.AuthConfig {
	return model.AuthConfig{
		BaseURL:     cfg.envValues.BaseURL,
		Scheme:      cfg.scheme,
		APIKey:      cfg.envValues.APIKey,
		KeyID:       cfg.envValues.APIKeyID,
		KeyHeader:   cfg.envValues.APIKeyHeader,
		TokenHeader: cfg.envValues.TokenHeader,
		TokenPath:   cfg.envValues.TokenPath,
		TokenTTL:    time.Duration(cfg.envValues.TokenTTLSeconds) * time.Second,
		TenantID:    cfg.envValues.CompanyID,
	}
}

// TokenSafetyMargin returns how long before expiry an issued token is refreshed
func (cfg *ApplicationConfig) TokenSafetyMargin() time.Duration {
	return time.Duration(cfg.envValues.SafetyMarginSeconds) * time.Second
}

// SummariesPath returns the path of the attendance summaries endpoint
func (cfg *ApplicationConfig) SummariesPath() string {
	return cfg.envValues.SummariesPath
}

// PerPage returns the page size requested from the attendance API
func (cfg *ApplicationConfig) PerPage() int {
	return cfg.envValues.PerPage
}

// MaxPages returns the pagination ceiling
func (cfg *ApplicationConfig) MaxPages() int {
	return cfg.envValues.MaxPages
}

// DefaultRangeDays returns the length of the report range used when none is given
func (cfg *ApplicationConfig) DefaultRangeDays() int {
	return cfg.envValues.DefaultRangeDays
}

// EmailClient returns the ses client with config
func (cfg *ApplicationConfig) EmailClient() sesiface.SESAPI {
	return cfg.emailClient
}

// EmailTo returns the to email address
func (cfg *ApplicationConfig) EmailTo() string {
	return cfg.envValues.EmailTo
}

// EmailFrom returns the From email address
func (cfg *ApplicationConfig) EmailFrom() string {
	return cfg.envValues.EmailFrom
}

// NewApplicationConfig loads config values from environment and initialises config
func NewApplicationConfig() (*ApplicationConfig, error) {
	envValues := NewEnvironmentConfig()
	scheme, err := model.ParseScheme(envValues.AuthScheme)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewSession(aws.NewConfig().WithRegion(envValues.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return &ApplicationConfig{
		envValues:   envValues,
		scheme:      scheme,
		httpCommand: NewHTTPCommand(time.Duration(envValues.ClientTimeoutSeconds) * time.Second),
		emailClient: ses.New(sess),
	}, nil
}

// NewHTTPCommand returns the HTTP client
func NewHTTPCommand(timeout time.Duration) customhttp.HTTPCommand {
	httpCommand := customhttp.New(
		customhttp.WithHTTPClient(&http.Client{Timeout: timeout}),
		customhttp.WithRequestLogging(),
	).Build()

	return httpCommand
}
