// Package config loads the service configuration from the environment (and an optional .env file)
// into a typed struct that is validated once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration passed explicitly to every component.
type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	CORSOrigins []string
	JWTSecret   string

	LLM       LLMConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
}

// LLMConfig configures the text-generation backend (any OpenAI-compatible chat completions API).
type LLMConfig struct {
	APIURL      string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	// Timeout is how long a caller waits for the backend before giving up on it.
	Timeout time.Duration
}

// RateLimitConfig bounds generation requests per identity. Disabled when RedisURL is empty.
type RateLimitConfig struct {
	RedisURL          string
	RequestsPerMinute int
}

// Enabled reports whether a Redis backed limiter should be installed.
func (r RateLimitConfig) Enabled() bool {
	return r.RedisURL != "" && r.RequestsPerMinute > 0
}

type TracingConfig struct {
	Enabled        bool
	Endpoint       string
	SampleRate     float64
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// defaultOrigins are always allowed; FRONTEND_URL adds more.
var defaultOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Load reads configuration from environment variables.
// Returns an error naming every required variable that is not set.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Aliases kept for deployments configured for the Groq backend.
	_ = v.BindEnv("llm_api_key", "LLM_API_KEY", "GROQ_API_KEY")
	_ = v.BindEnv("llm_model", "LLM_MODEL", "GROQ_MODEL_NAME")
	_ = v.BindEnv("llm_api_url", "LLM_API_URL", "GROQ_API_URL")

	cfg := &Config{
		Port:        v.GetString("port"),
		GinMode:     v.GetString("gin_mode"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		DatabaseURL: v.GetString("database_url"),
		CORSOrigins: append(append([]string{}, defaultOrigins...), splitCSV(v.GetString("frontend_url"))...),
		JWTSecret:   v.GetString("jwt_secret"),
		LLM: LLMConfig{
			APIURL:      v.GetString("llm_api_url"),
			APIKey:      v.GetString("llm_api_key"),
			Model:       v.GetString("llm_model"),
			MaxTokens:   v.GetInt("llm_max_tokens"),
			Temperature: v.GetFloat64("llm_temperature"),
			Timeout:     v.GetDuration("llm_timeout"),
		},
		RateLimit: RateLimitConfig{
			RedisURL:          v.GetString("redis_url"),
			RequestsPerMinute: v.GetInt("rate_limit_per_minute"),
		},
		Tracing: TracingConfig{
			Enabled:        v.GetBool("tracing_enabled"),
			Endpoint:       v.GetString("otlp_endpoint"),
			SampleRate:     v.GetFloat64("trace_sample_rate"),
			ServiceName:    v.GetString("service_name"),
			ServiceVersion: v.GetString("service_version"),
			Environment:    v.GetString("app_env"),
		},
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.LLM.APIKey == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.LLM.Timeout <= 0 {
		return nil, fmt.Errorf("LLM_TIMEOUT must be positive, got %s", cfg.LLM.Timeout)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("llm_api_url", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("llm_model", "llama-3.1-8b-instant")
	v.SetDefault("llm_max_tokens", 4000)
	v.SetDefault("llm_temperature", 0.7)
	v.SetDefault("llm_timeout", "45s")

	v.SetDefault("rate_limit_per_minute", 5)

	v.SetDefault("tracing_enabled", false)
	v.SetDefault("otlp_endpoint", "localhost:4317")
	v.SetDefault("trace_sample_rate", 1.0)
	v.SetDefault("service_name", "tripplanner")
	v.SetDefault("service_version", "dev")
	v.SetDefault("app_env", "development")
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
