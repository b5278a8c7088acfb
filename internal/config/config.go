package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"holmes/internal/validation"
)

// Default channels watched for alert messages.
var defaultMonitoredChannels = []string{
	"C08T82KB0M7", // main incidents channel
	"C09EB37M4HE",
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string // debug, info, warn, error

	// Server
	ServerAddr   string
	RateLimitMax int    // requests per minute per IP on the HTTP transport
	RedisURL     string // optional limiter storage, e.g. "redis://localhost:6379/0"

	// Slack
	SlackBotToken      string // xoxb-...
	SlackSigningSecret string
	SlackAppToken      string // xapp-..., enables Socket Mode
	SlackDebug         bool

	// Alert monitoring
	MonitoredChannels   []string
	AllowDirectMessages bool // treat DMs with the bot as monitored (handy for testing triggers)

	// Dispatch
	DispatchTimeout     time.Duration // budget for the Slack calls of one event
	HealthCheckInterval time.Duration // auth.test probe period, 0 disables

	// Directory file with dashboards, contacts and channels
	ConfigFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ServerAddr:   getEnv("SERVER_ADDR", ":3000"),
		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 300),
		RedisURL:     getEnv("REDIS_URL", ""),

		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		SlackAppToken:      getEnv("SLACK_APP_TOKEN", ""),
		SlackDebug:         getEnv("SLACK_DEBUG", "") != "",

		MonitoredChannels:   parseChannels(getEnv("MONITORED_CHANNELS", strings.Join(defaultMonitoredChannels, ","))),
		AllowDirectMessages: getEnvBool("ALLOW_DIRECT_MESSAGES", true),

		DispatchTimeout:     getEnvDuration("DISPATCH_TIMEOUT", 10*time.Second),
		HealthCheckInterval: getEnvDuration("HEALTH_CHECK_INTERVAL", time.Minute),

		ConfigFile: getEnv("CONFIG_FILE", "holmes.yaml"),
	}
}

// Validate reports configuration that would keep the bot from talking to Slack.
func (c *Config) Validate() error {
	var errs []error
	if c.SlackBotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	if c.SlackSigningSecret == "" && !c.IsSocketMode() {
		errs = append(errs, errors.New("SLACK_SIGNING_SECRET is required in HTTP mode"))
	}
	if c.SlackAppToken != "" && !strings.HasPrefix(c.SlackAppToken, "xapp-") {
		errs = append(errs, errors.New("SLACK_APP_TOKEN must start with xapp-"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// parseChannels splits a comma-separated list, dropping anything that is not a
// Slack conversation ID.
func parseChannels(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if validation.ValidateChannelID(id) {
			out = append(out, id)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsSocketMode returns true if an app-level token is configured.
func (c *Config) IsSocketMode() bool {
	return c.SlackAppToken != ""
}
