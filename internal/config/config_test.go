package config

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidConfigPath     = "testdata/invalid_config.yaml"
	malformedConfigPath   = "testdata/malformed_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg    = "expected no error, got %v"
	expectedNonNilConfig  = "expected non-nil config"
	appName               = "trade-log-tracker"
	developmentEnv        = "development"
	testAppName           = "test-app"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != appName {
		t.Errorf("expected app name '%s', got '%s'", appName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Analytics.StartingFund != 50000 {
		t.Errorf("expected starting fund 50000, got %v", cfg.Analytics.StartingFund)
	}
	if len(cfg.Analytics.DateLayouts) != 2 {
		t.Errorf("expected 2 date layouts, got %d", len(cfg.Analytics.DateLayouts))
	}
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigMalformed tests handling of unparseable YAML
func TestLoadConfigMalformed(t *testing.T) {
	if _, err := Load(malformedConfigPath); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("TRADE_LOG_TRACKER_APP_NAME", testAppName)
	t.Setenv("TRADE_LOG_TRACKER_ANALYTICS_STARTING_FUND", "1234.5")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Analytics.StartingFund != 1234.5 {
		t.Errorf("expected starting fund 1234.5 from environment, got %v", cfg.Analytics.StartingFund)
	}
}

// TestLoadWithDefaultsExpansion tests ${VAR} expansion merged over defaults
func TestLoadWithDefaultsExpansion(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "expanded-app")
	t.Setenv("TEST_STARTING_FUND", "2500")

	cfg, err := LoadWithDefaults(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.App.Name != "expanded-app" {
		t.Errorf("expected expanded app name, got '%s'", cfg.App.Name)
	}
	if cfg.Analytics.StartingFund != 2500 {
		t.Errorf("expected expanded starting fund 2500, got %v", cfg.Analytics.StartingFund)
	}
	if cfg.Analytics.PLBins != 80 || cfg.Server.Port != 8080 {
		t.Errorf("expected defaults for unset fields, got pl_bins=%d port=%d", cfg.Analytics.PLBins, cfg.Server.Port)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults alone form a valid config
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("expected default metrics path, got '%s'", cfg.Metrics.Path)
	}
}

// TestValidateInvalidConfig tests that every violated rule is reported
func TestValidateInvalidConfig(t *testing.T) {
	cfg, err := Load(invalidConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"Environment", "LogLevel", "Port", "DateLayouts"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected error to mention '%s', got: %v", field, err)
		}
	}
}

// TestValidateCrossField tests the rules spanning several sections
func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "fund below minimum",
			mutate: func(c *Config) { c.Analytics.StartingFund = 5 },
			want:   "min_starting_fund",
		},
		{
			name:   "rate without burst",
			mutate: func(c *Config) { c.Server.UploadBurst = 0 },
			want:   "upload_burst",
		},
		{
			name: "duplicate watch",
			mutate: func(c *Config) {
				c.Watches = []WatchConfig{
					{Name: "main", Source: "demo", Schedule: "@every 1m"},
					{Name: "main", Source: "demo", Schedule: "*/5 * * * *"},
				}
			},
			want: "more than once",
		},
		{
			name: "debug in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.App.LogLevel = "debug"
			},
			want: "debug",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing '%s', got %v", tt.want, err)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := Default()
	if !cfg.IsDevelopment() || cfg.IsStaging() || cfg.IsProduction() {
		t.Errorf("expected development environment, got '%s'", cfg.App.Environment)
	}
	if cfg.ListenAddress() != ":8080" {
		t.Errorf("expected listen address :8080, got %s", cfg.ListenAddress())
	}
	if cfg.SessionTTL().Hours() != 1 {
		t.Errorf("expected one hour session TTL, got %s", cfg.SessionTTL())
	}
}

// TestValidateWatchSchedule tests the cronspec rule
func TestValidateWatchSchedule(t *testing.T) {
	cfg := Default()
	cfg.Watches = []WatchConfig{{Name: "main", Source: "demo", Schedule: "every so often"}}

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "Schedule") {
		t.Errorf("expected schedule validation error, got %v", err)
	}

	cfg.Watches[0].Schedule = "@every 10m"
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

func TestNewValidatorRegistersTags(t *testing.T) {
	if _, err := NewValidator(); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

func TestRegisterValidationsReportsFailure(t *testing.T) {
	err := registerValidations(validator.New(), map[string]validator.Func{"": validateLogLevel})
	if err == nil {
		t.Fatal("expected registration of an empty tag to fail")
	}
	if !strings.Contains(err.Error(), "failed to register") {
		t.Errorf("unexpected error: %v", err)
	}
}
