package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"REPORT_CONFIG_FILE", "SERVER_ADDR", "MAX_UPLOAD_MB", "SUMMARIZER_URL", "SUMMARIZER_TOKEN",
	"GENAI_API_KEY", "GENAI_MODEL", "SUMMARIZER_TIMEOUT", "SCALE_MAX", "SHARE_BASE_URL", "DETAILED_LOGGING",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
server:
  addr: ":9090"
  max_upload_mb: 5
summarizer:
  url: "http://summarizer.local/v1/summarize"
  timeout: 30s
report:
  scale_max: 10
enable_detailed_logging: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "unset keys keep their defaults")
	assert.Equal(t, "http://summarizer.local/v1/summarize", cfg.Summarizer.URL)
	assert.Equal(t, 30*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.Summarizer.GenAIModel)
	assert.Equal(t, 10.0, cfg.Report.ScaleMax)
	assert.True(t, cfg.EnableDetailedLogging)
}

func TestLoadFileFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPORT_CONFIG_FILE", writeConfigFile(t, "report:\n  share_base_url: https://reports.example.com/view\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://reports.example.com/view", cfg.Report.ShareBaseURL)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "server:\n  addr: \":9090\"\nreport:\n  scale_max: 10\n")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("SCALE_MAX", "7")
	t.Setenv("SUMMARIZER_TIMEOUT", "5s")
	t.Setenv("GENAI_API_KEY", "key")
	t.Setenv("DETAILED_LOGGING", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 7.0, cfg.Report.ScaleMax)
	assert.Equal(t, 5*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, "key", cfg.Summarizer.GenAIAPIKey)
	assert.True(t, cfg.EnableDetailedLogging)
}

func TestInvalidEnvironmentValuesAreIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("SUMMARIZER_TIMEOUT", "soon")
	t.Setenv("DETAILED_LOGGING", "maybe")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig.Server.MaxUploadMB, cfg.Server.MaxUploadMB)
	assert.Equal(t, DefaultConfig.Summarizer.Timeout, cfg.Summarizer.Timeout)
	assert.False(t, cfg.EnableDetailedLogging)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfigFile(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())

	cfg := DefaultConfig
	cfg.Server.Addr = ""
	cfg.Server.MaxUploadMB = 0
	cfg.Report.ScaleMax = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address is empty")
	assert.Contains(t, err.Error(), "max upload size")
	assert.Contains(t, err.Error(), "scale maximum")
}
