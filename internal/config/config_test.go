package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	for _, e := range []string{"INVESTMODEL_API_PORT", "INVESTMODEL_LOGGING_LEVEL", "INVESTMODEL_ENGINE_SEED"} {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Engine defaults
	if cfg.Engine.DefaultIterations != 1000 {
		t.Errorf("Engine.DefaultIterations: got %d, want 1000", cfg.Engine.DefaultIterations)
	}
	if cfg.Engine.MaxIterations != 100000 {
		t.Errorf("Engine.MaxIterations: got %d, want 100000", cfg.Engine.MaxIterations)
	}
	if cfg.Engine.Workers != 0 {
		t.Errorf("Engine.Workers: got %d, want 0", cfg.Engine.Workers)
	}
	if cfg.Engine.Seed != 0 {
		t.Errorf("Engine.Seed: got %d, want 0", cfg.Engine.Seed)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}
	if cfg.API.RequestTimeoutSec != 60 {
		t.Errorf("API.RequestTimeoutSec: got %d, want 60", cfg.API.RequestTimeoutSec)
	}
	if cfg.API.RateLimitRPS != 5 {
		t.Errorf("API.RateLimitRPS: got %f, want 5", cfg.API.RateLimitRPS)
	}
	if cfg.API.RateLimitBurst != 10 {
		t.Errorf("API.RateLimitBurst: got %d, want 10", cfg.API.RateLimitBurst)
	}

	// Logging / output defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format: got %q, want %q", cfg.Output.Format, "text")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("INVESTMODEL_API_PORT", "9191")
	t.Setenv("INVESTMODEL_ENGINE_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 9191 {
		t.Errorf("API.Port: got %d, want 9191", cfg.API.Port)
	}
	if cfg.Engine.Seed != 42 {
		t.Errorf("Engine.Seed: got %d, want 42", cfg.Engine.Seed)
	}
}

// ── LoadFromFile ──

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
engine:
  default_iterations: 2500
  workers: 4
  seed: 7
api:
  port: 9090
  rate_limit_rps: 20
logging:
  level: "debug"
  format: "json"
output:
  format: "yaml"
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Engine.DefaultIterations != 2500 {
		t.Errorf("Engine.DefaultIterations: got %d, want 2500", cfg.Engine.DefaultIterations)
	}
	if cfg.Engine.Workers != 4 {
		t.Errorf("Engine.Workers: got %d, want 4", cfg.Engine.Workers)
	}
	if cfg.Engine.Seed != 7 {
		t.Errorf("Engine.Seed: got %d, want 7", cfg.Engine.Seed)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.API.RateLimitRPS != 20 {
		t.Errorf("API.RateLimitRPS: got %f, want 20", cfg.API.RateLimitRPS)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host should keep its default, got %q", cfg.API.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format: got %q, want %q", cfg.Output.Format, "yaml")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "output:\n  format: \"xml\"\n")
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected an error for output.format xml")
	}
}

// ── Validate ──

func validConfig() Config {
	return Config{
		Engine:  EngineConfig{DefaultIterations: 1000, MaxIterations: 100000},
		API:     APIConfig{Port: 8080},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Output:  OutputConfig{Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"json logging", func(c *Config) { c.Logging.Format = "json" }, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
		{"zero port", func(c *Config) { c.API.Port = 0 }, "api.port"},
		{"port too large", func(c *Config) { c.API.Port = 70000 }, "api.port"},
		{"iterations above max", func(c *Config) { c.Engine.DefaultIterations = 200000 }, "default_iterations"},
		{"negative workers", func(c *Config) { c.Engine.Workers = -1 }, "engine.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// ── SaveToFile ──

func TestSaveToFileRoundTrip(t *testing.T) {
	cfg := validConfig()
	cfg.API.Host = "127.0.0.1"
	cfg.API.CORSOrigins = []string{"http://example.test"}
	cfg.Engine.Seed = 99

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveToFile(&cfg, path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if got.API.Host != "127.0.0.1" || got.Engine.Seed != 99 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if len(got.API.CORSOrigins) != 1 || got.API.CORSOrigins[0] != "http://example.test" {
		t.Errorf("CORSOrigins: got %v", got.API.CORSOrigins)
	}
}

// ── Sources ──

func TestSources(t *testing.T) {
	path := writeConfig(t, "api:\n  port: 9090\n")
	t.Setenv("INVESTMODEL_LOGGING_LEVEL", "debug")

	statuses, err := Sources(path)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	bySource := map[string]SettingStatus{}
	for _, s := range statuses {
		bySource[s.Key] = s
	}

	if s := bySource["api.port"]; s.Source != SourceConfig || s.Value != "9090" {
		t.Errorf("api.port: got %+v, want config/9090", s)
	}
	if s := bySource["logging.level"]; s.Source != SourceEnv || s.Value != "debug" {
		t.Errorf("logging.level: got %+v, want env/debug", s)
	}
	if s := bySource["output.format"]; s.Source != SourceDefault {
		t.Errorf("output.format: got %q, want %q", s.Source, SourceDefault)
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("api.rate_limit_rps"); got != "INVESTMODEL_API_RATE_LIMIT_RPS" {
		t.Errorf("EnvVar: got %q", got)
	}
}

// ── homeDir ──

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() should not return empty string")
	}
}

func TestSettingSourceConstants(t *testing.T) {
	if string(SourceEnv) != "env" || string(SourceConfig) != "config" || string(SourceDefault) != "default" {
		t.Errorf("unexpected source constants: %q %q %q", SourceEnv, SourceConfig, SourceDefault)
	}
}
