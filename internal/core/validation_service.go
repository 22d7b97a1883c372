package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// ValidationService performs offline validation of publisher configuration.
// No network calls; the service URL is checked for shape only.
type ValidationService struct{}

// NewValidationService creates a ValidationService.
func NewValidationService() *ValidationService {
	return &ValidationService{}
}

// ValidateGlobal checks the global configuration and returns one message per
// problem found. An empty slice means the config is valid.
func (s *ValidationService) ValidateGlobal(cfg *types.GlobalConfig) []string {
	var problems []string

	if strings.TrimSpace(cfg.ConnectionTimeout) != "" {
		if err := ValidatePositiveInteger(cfg.ConnectionTimeout); err != nil {
			problems = append(problems, fmt.Sprintf("connection_timeout: %v", err))
		}
	}

	if cfg.ServiceURL != "" {
		u, err := url.Parse(cfg.ServiceURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("service_url: %q is not an absolute URL", cfg.ServiceURL))
		}
	}

	switch cfg.CheckPolicies {
	case "", SettingEnableNew, SettingEnableAll:
	default:
		problems = append(problems, fmt.Sprintf("check_policies: %q is not one of %q, %q or blank",
			cfg.CheckPolicies, SettingEnableNew, SettingEnableAll))
	}

	if cfg.OverrideProxySettings {
		if strings.TrimSpace(cfg.ProxyHost) == "" {
			problems = append(problems, "proxy_host: required when override_proxy_settings is enabled")
		}
		if strings.TrimSpace(cfg.ProxyPort) != "" {
			if _, err := strconv.Atoi(cfg.ProxyPort); err != nil {
				problems = append(problems, fmt.Sprintf("proxy_port: %q is not a number", cfg.ProxyPort))
			}
		}
	}

	return problems
}

// ValidateJob checks a job configuration and returns one message per problem.
func (s *ValidationService) ValidateJob(cfg *types.JobConfig) []string {
	var problems []string

	switch cfg.CheckPolicies {
	case "", SettingGlobal, SettingEnableNew, SettingEnableAll:
	default:
		problems = append(problems, fmt.Sprintf("check_policies: %q is not one of %q, %q, %q or blank",
			cfg.CheckPolicies, SettingGlobal, SettingEnableNew, SettingEnableAll))
	}

	if cfg.RequesterEmail != "" && !strings.Contains(cfg.RequesterEmail, "@") {
		problems = append(problems, fmt.Sprintf("requester_email: %q is not an email address", cfg.RequesterEmail))
	}

	for _, pattern := range splitPatterns(cfg.LibIncludes + " " + cfg.LibExcludes) {
		if strings.Contains(pattern, "**") {
			problems = append(problems, fmt.Sprintf("lib pattern %q: recursive ** globs are not supported, match by file name instead", pattern))
		}
	}

	return problems
}

// ValidatePositiveInteger checks that a configured string is a positive
// integer. Used for the connection timeout form field.
func ValidatePositiveInteger(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%q is not a number", value)
	}
	if n <= 0 {
		return fmt.Errorf("%d is not a positive integer", n)
	}
	return nil
}
