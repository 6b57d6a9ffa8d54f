package config

import (
	"os"
	"strconv"
)

type envConfig struct {
	LogLevel             string
	ServerPort           int
	Version              string
	BaseURL              string
	APIKey               string
	APIKeyID             string
	AuthScheme           string
	APIKeyHeader         string
	TokenHeader          string
	TokenPath            string
	TokenTTLSeconds      int
	SafetyMarginSeconds  int
	CompanyID            string
	SummariesPath        string
	PerPage              int
	MaxPages             int
	ClientTimeoutSeconds int
	DefaultRangeDays     int
	AWSRegion            string
	EmailTo              string
	EmailFrom            string
}

func NewEnvironmentConfig() *envConfig {
	return &envConfig{
		LogLevel:             getEnvString("LOG_LEVEL", "INFO"),
		ServerPort:           getEnvInt("SERVER_PORT", 8080),
		Version:              getEnvString("VERSION", ""),
		BaseURL:              getEnvString("HRMOS_API_BASE_URL", ""),
		APIKey:               getEnvString("HRMOS_API_KEY", ""),
		APIKeyID:             getEnvString("HRMOS_API_KEY_ID", ""),
		AuthScheme:           getEnvString("HRMOS_AUTH_SCHEME", "X-API-KEY"),
		APIKeyHeader:         getEnvString("HRMOS_API_KEY_HEADER", "X-API-KEY"),
		TokenHeader:          getEnvString("HRMOS_TOKEN_HEADER", "X-Token"),
		TokenPath:            getEnvString("HRMOS_TOKEN_PATH", "/authentication/token"),
		TokenTTLSeconds:      getEnvInt("HRMOS_TOKEN_TTL_SECONDS", 3000),
		SafetyMarginSeconds:  getEnvInt("HRMOS_TOKEN_SAFETY_MARGIN_SECONDS", 60),
		CompanyID:            getEnvString("HRMOS_COMPANY_ID", ""),
		SummariesPath:        getEnvString("HRMOS_SUMMARIES_PATH", "/attendance_summaries"),
		PerPage:              getEnvInt("HRMOS_PER_PAGE", 100),
		MaxPages:             getEnvInt("HRMOS_MAX_PAGES", 5000),
		ClientTimeoutSeconds: getEnvInt("HTTP_CLIENT_TIMEOUT_SECONDS", 10),
		DefaultRangeDays:     getEnvInt("DEFAULT_RANGE_DAYS", 30),
		AWSRegion:            getEnvString("AWS_REGION", "ap-southeast-2"),
		EmailTo:              getEnvString("EMAIL_TO", ""),
		EmailFrom:            getEnvString("EMAIL_FROM", ""),
	}
}

// helper function to read an environment or return a default value
func getEnvString(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

// helper function to read an environment or return a default value
func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(getEnvString(key, strconv.Itoa(defaultVal)))
	if err == nil {
		return val
	}

	return defaultVal
}
