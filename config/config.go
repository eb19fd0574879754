package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration of the report service and CLI
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Summarizer SummarizerConfig `json:"summarizer" yaml:"summarizer"`
	Report     ReportConfig     `json:"report" yaml:"report"`

	// Debug output in the logs
	EnableDetailedLogging bool `json:"enable_detailed_logging" yaml:"enable_detailed_logging"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`
	MaxUploadMB  int           `json:"max_upload_mb" yaml:"max_upload_mb"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

// SummarizerConfig selects and configures the summarization service
type SummarizerConfig struct {
	URL         string        `json:"url" yaml:"url"`
	APIToken    string        `json:"api_token" yaml:"api_token"`
	GenAIAPIKey string        `json:"genai_api_key" yaml:"genai_api_key"`
	GenAIModel  string        `json:"genai_model" yaml:"genai_model"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// ReportConfig holds report defaults
type ReportConfig struct {
	ScaleMax     float64 `json:"scale_max" yaml:"scale_max"`
	ShareBaseURL string  `json:"share_base_url" yaml:"share_base_url"`
}

// DefaultConfig is used for every value not set in the file or the environment
var DefaultConfig = Config{
	Server: ServerConfig{
		Addr:         ":8080",
		MaxUploadMB:  20,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	},
	Summarizer: SummarizerConfig{
		GenAIModel: "gemini-2.0-flash",
		Timeout:    60 * time.Second,
	},
	Report: ReportConfig{
		ScaleMax:     5,
		ShareBaseURL: "http://localhost:8080/report",
	},
}

// Load builds the configuration: defaults, then the YAML file (path, or
// REPORT_CONFIG_FILE when path is empty), then .env and the environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig

	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	if path == "" {
		path = os.Getenv("REPORT_CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", cfg.Server.MaxUploadMB)

	cfg.Summarizer.URL = getEnv("SUMMARIZER_URL", cfg.Summarizer.URL)
	cfg.Summarizer.APIToken = getEnv("SUMMARIZER_TOKEN", cfg.Summarizer.APIToken)
	cfg.Summarizer.GenAIAPIKey = getEnv("GENAI_API_KEY", cfg.Summarizer.GenAIAPIKey)
	cfg.Summarizer.GenAIModel = getEnv("GENAI_MODEL", cfg.Summarizer.GenAIModel)
	cfg.Summarizer.Timeout = getEnvDuration("SUMMARIZER_TIMEOUT", cfg.Summarizer.Timeout)

	cfg.Report.ScaleMax = getEnvFloat("SCALE_MAX", cfg.Report.ScaleMax)
	cfg.Report.ShareBaseURL = getEnv("SHARE_BASE_URL", cfg.Report.ShareBaseURL)

	cfg.EnableDetailedLogging = getEnvBool("DETAILED_LOGGING", cfg.EnableDetailedLogging)
}

// Validate checks values that would break the service
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is empty"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max upload size must be positive, got %d", c.Server.MaxUploadMB))
	}
	if c.Summarizer.Timeout < 0 {
		errs = append(errs, fmt.Errorf("summarizer timeout must not be negative, got %v", c.Summarizer.Timeout))
	}
	if c.Report.ScaleMax <= 0 {
		errs = append(errs, fmt.Errorf("scale maximum must be positive, got %v", c.Report.ScaleMax))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
