package blackbox

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"

	"github.com/syrilster/attendance-timesheet-dashboard/internal"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/config"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/customhttp"
	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

const (
	baseURL      = "https://hrmos.test/api/v1"
	summariesURL = baseURL + "/attendance_summaries"
	tokenURL     = baseURL + "/authentication/token"
)

type stubConfig struct {
	auth model.AuthConfig
}

func (s stubConfig) Version() string { return "v1" }

func (s stubConfig) HTTPCommand() customhttp.HTTPCommand {
	return config.NewHTTPCommand(5 * time.Second)
}

func (s stubConfig) AuthDefaults() model.AuthConfig   { return s.auth }
func (s stubConfig) TokenSafetyMargin() time.Duration { return time.Minute }
func (s stubConfig) SummariesPath() string            { return "/attendance_summaries" }
func (s stubConfig) PerPage() int                     { return 2 }
func (s stubConfig) MaxPages() int                    { return 10 }
func (s stubConfig) DefaultRangeDays() int            { return 30 }
func (s stubConfig) EmailClient() sesiface.SESAPI     { return nil }
func (s stubConfig) EmailTo() string                  { return "" }
func (s stubConfig) EmailFrom() string                { return "" }

// entrypoint for test
func TestApiSuite(t *testing.T) {
	suite.Run(t, new(apiSuite))
}

type apiSuite struct {
	suite.Suite
}

func (a *apiSuite) SetupSuite() {
	// block all HTTP requests
	httpmock.Activate()
}

func (a *apiSuite) TearDownTest() {
	// remove any mocks after each test
	httpmock.Reset()
}

func (a *apiSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (a *apiSuite) serve(cfg stubConfig, req *http.Request) *httptest.ResponseRecorder {
	res := httptest.NewRecorder()
	internal.SetupServer(cfg).Handler().ServeHTTP(res, req)
	return res
}

func pagedResponder(pages map[int]string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		page, _ := strconv.Atoi(req.URL.Query().Get("page"))
		body, ok := pages[page]
		if !ok {
			body = `{"data":[]}`
		}
		return httpmock.NewStringResponse(http.StatusOK, body), nil
	}
}

func (a *apiSuite) Test_HealthCheck() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	res := a.serve(stubConfig{}, req)

	a.Require().Equal(http.StatusOK, res.Code)
	a.Require().NotEmpty(res.Header().Get("X-Request-Id"))
}

func (a *apiSuite) Test_TimesheetsAcrossPages() {
	httpmock.RegisterResponder(http.MethodGet, summariesURL, pagedResponder(map[int]string{
		1: `{"data":[{"employee_id":1,"employee_name":"Sato","total_work_minutes":480,"overtime_minutes":30},
		             {"employee_id":2,"employee_name":"Suzuki","total_work_minutes":450}],"total":3}`,
		2: `{"data":[{"employee_id":3,"employee_name":"Tanaka","total_work_minutes":125}],"total":3}`,
	}))

	cfg := stubConfig{auth: model.AuthConfig{BaseURL: baseURL, Scheme: model.SchemeStaticKey, APIKey: "static-key"}}
	req := httptest.NewRequest(http.MethodGet, "/v1/timesheets?from=2024-03-01&to=2024-03-31", nil)
	res := a.serve(cfg, req)

	a.Require().Equal(http.StatusOK, res.Code, res.Body.String())
	var timesheets []model.Timesheet
	a.Require().NoError(json.Unmarshal(res.Body.Bytes(), &timesheets))
	a.Require().Equal([]model.Timesheet{
		{ID: 1, Name: "Sato", TotalHours: 8, Overtime: 0.5},
		{ID: 2, Name: "Suzuki", TotalHours: 7.5, Overtime: 0},
		{ID: 3, Name: "Tanaka", TotalHours: 2.1, Overtime: 0},
	}, timesheets)
	a.Require().Equal(2, httpmock.GetTotalCallCount())
}

func (a *apiSuite) Test_IssuedTokenRefreshedOnce() {
	issued := 0
	httpmock.RegisterResponder(http.MethodPost, tokenURL, func(req *http.Request) (*http.Response, error) {
		issued++
		return httpmock.NewStringResponse(http.StatusOK, fmt.Sprintf(`{"token":"token-%d","expires_in":3600}`, issued)), nil
	})
	httpmock.RegisterResponder(http.MethodGet, summariesURL, func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Token") != "token-2" {
			return httpmock.NewStringResponse(http.StatusUnauthorized, `{"message":"expired"}`), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, `[{"employee_id":9,"employee_name":"Ito","total_work_minutes":60}]`), nil
	})

	cfg := stubConfig{auth: model.AuthConfig{BaseURL: baseURL, Scheme: model.SchemeIssuedToken, APIKey: "secret"}}
	req := httptest.NewRequest(http.MethodGet, "/v1/timesheets?from=2024-03-01&to=2024-03-31", nil)
	res := a.serve(cfg, req)

	a.Require().Equal(http.StatusOK, res.Code, res.Body.String())
	a.Require().JSONEq(`[{"id":9,"name":"Ito","totalHours":1,"overtime":0}]`, res.Body.String())
	a.Require().Equal(2, issued)
}

func (a *apiSuite) Test_UpstreamFailure() {
	httpmock.RegisterResponder(http.MethodGet, summariesURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "maintenance"))

	cfg := stubConfig{auth: model.AuthConfig{BaseURL: baseURL, Scheme: model.SchemeStaticKey, APIKey: "static-key"}}
	req := httptest.NewRequest(http.MethodGet, "/v1/timesheets?from=2024-03-01&to=2024-03-31", nil)
	res := a.serve(cfg, req)

	a.Require().Equal(http.StatusInternalServerError, res.Code)
	a.Require().JSONEq(`{"message":"attendance API error 503: maintenance"}`, res.Body.String())
}

func (a *apiSuite) Test_MissingConfigurationMakesNoCalls() {
	req := httptest.NewRequest(http.MethodGet, "/v1/timesheets?from=2024-03-01&to=2024-03-31", nil)
	res := a.serve(stubConfig{}, req)

	a.Require().Equal(http.StatusInternalServerError, res.Code)
	a.Require().Contains(res.Body.String(), "configuration error")
	a.Require().Equal(0, httpmock.GetTotalCallCount())
}

func (a *apiSuite) Test_ResetTokens() {
	req := httptest.NewRequest(http.MethodDelete, "/v1/auth/token", nil)
	res := a.serve(stubConfig{}, req)

	a.Require().Equal(http.StatusNoContent, res.Code)
}
