package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string
	RedisURL    string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	MetaVerifyToken   string
	MetaAccessToken   string
	MetaPhoneNumberID string
	MetaAppSecret     string

	ChassisAPIBaseURL string
	ChassisAPIKey     string

	TranslateAPIURL string
	TranslateAPIKey string

	AdminToken  string
	SalesAgents []string

	WorkerConcurrency int
	UpstreamTimeout   time.Duration

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	LeadsNotifyEmail string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		MetaVerifyToken:   getEnv("META_VERIFY_TOKEN", ""),
		MetaAccessToken:   getEnv("META_ACCESS_TOKEN", ""),
		MetaPhoneNumberID: getEnv("META_PHONE_NUMBER_ID", ""),
		MetaAppSecret:     getEnv("META_APP_SECRET", ""),

		ChassisAPIBaseURL: getEnv("CHASSIS_API_BASE_URL", ""),
		ChassisAPIKey:     getEnv("CHASSIS_API_KEY", ""),

		TranslateAPIURL: getEnv("TRANSLATE_API_URL", ""),
		TranslateAPIKey: getEnv("TRANSLATE_API_KEY", ""),

		AdminToken:  getEnv("ADMIN_TOKEN", "admin-token"),
		SalesAgents: splitCSV(getEnv("SALES_AGENTS", "agent1,agent2,agent3")),

		WorkerConcurrency: mustInt(getEnv("WORKER_CONCURRENCY", "10")),
		UpstreamTimeout:   mustDuration(getEnv("UPSTREAM_TIMEOUT", "10s")),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Car Parts Desk"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		LeadsNotifyEmail: getEnv("LEADS_NOTIFY_EMAIL", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 10
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 10 * time.Second
	}
	if cfg.EmailEnabled() && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP is configured")
	}

	return cfg, nil
}

// OpenAIEnabled reports whether the model completion provider is configured.
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// WhatsAppEnabled reports whether outbound sends are configured.
func (c *Config) WhatsAppEnabled() bool {
	return c.MetaAccessToken != "" && c.MetaPhoneNumberID != ""
}

// ChassisAPIEnabled reports whether the external parts provider is configured.
func (c *Config) ChassisAPIEnabled() bool {
	return c.ChassisAPIBaseURL != ""
}

// TranslateEnabled reports whether the translation provider is configured.
func (c *Config) TranslateEnabled() bool {
	return c.TranslateAPIURL != ""
}

// EmailEnabled reports whether lead notification emails are configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.LeadsNotifyEmail != ""
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
