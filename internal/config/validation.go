package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

var customValidations = map[string]validator.Func{
	"environment": validateEnvironment,
	"loglevel":    validateLogLevel,
	"datelayouts": validateDateLayouts,
	"cronspec":    validateCronSpec,
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	v := validator.New()
	if err := registerValidations(v, customValidations); err != nil {
		return nil, err
	}
	return &CustomValidator{validator: v}, nil
}

func registerValidations(v *validator.Validate, fns map[string]validator.Func) error {
	for tag, fn := range fns {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv, err := NewValidator()
	if err != nil {
		return err
	}
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateDateLayouts checks that every layout round-trips a reference date
func validateDateLayouts(fl validator.FieldLevel) bool {
	layouts, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	ref := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	for _, layout := range layouts {
		if strings.TrimSpace(layout) == "" {
			return false
		}
		parsed, err := time.Parse(layout, ref.Format(layout))
		if err != nil || parsed.Year() != ref.Year() || parsed.Month() != ref.Month() || parsed.Day() != ref.Day() {
			return false
		}
	}
	return true
}

// validateCronSpec accepts standard five-field specs and @every descriptors
func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Analytics.StartingFund < cfg.Analytics.MinStartingFund {
		return fmt.Errorf("analytics starting_fund %.2f is below min_starting_fund %.2f",
			cfg.Analytics.StartingFund, cfg.Analytics.MinStartingFund)
	}

	if cfg.Server.UploadRatePerSecond > 0 && cfg.Server.UploadBurst == 0 {
		return fmt.Errorf("server upload_burst must be positive when upload_rate_per_second is set")
	}

	seen := make(map[string]bool, len(cfg.Watches))
	for _, w := range cfg.Watches {
		if seen[w.Name] {
			return fmt.Errorf("watch name %q is used more than once", w.Name)
		}
		seen[w.Name] = true
	}

	if cfg.IsProduction() && cfg.App.LogLevel == "debug" {
		return fmt.Errorf("production environment must not log at debug level")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "cronspec":
			errMsg += fmt.Sprintf("- Field '%s' is not a valid cron schedule: %v\n", field, value)
		case "datelayouts":
			errMsg += fmt.Sprintf("- Field '%s' contains an unusable date layout: %v\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
