package tui

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/DecoyJoe/whitesource-plugin/internal/core"
	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

func check(err error) {
	if err != nil {
		fmt.Println("Aborted.")
		os.Exit(1)
	}
}

// RunSetupWizard launches the interactive wizard for the global publisher
// configuration. Existing values are offered as defaults.
func RunSetupWizard(existing types.GlobalConfig) *types.GlobalConfig {
	cfg := existing

	err := huh.NewInput().
		Title("Service URL").
		Placeholder("https://saas.whitesourcesoftware.com").
		Description("Base URL of the compliance service").
		Value(&cfg.ServiceURL).
		Validate(ValidateServiceURL).
		Run()
	check(err)

	err = huh.NewInput().
		Title("Organization API Token").
		Description("Issued by the organization's service account. Leave empty to configure per job.").
		Value(&cfg.APIToken).
		Run()
	check(err)

	err = huh.NewSelect[string]().
		Title("Check Policies").
		Description("Which libraries should be checked against organization policies").
		Options(
			huh.NewOption("Disabled", ""),
			huh.NewOption("New libraries only", core.SettingEnableNew),
			huh.NewOption("All libraries", core.SettingEnableAll),
		).
		Value(&cfg.CheckPolicies).
		Run()
	check(err)

	err = huh.NewConfirm().
		Title("Fail build on service errors?").
		Description("Policy rejections always fail the build; this flag additionally fails on network or service errors.").
		Value(&cfg.FailOnError).
		Run()
	check(err)

	if cfg.ConnectionTimeout == "" {
		cfg.ConnectionTimeout = fmt.Sprintf("%d", core.DefaultConnectionTimeout)
	}
	err = huh.NewInput().
		Title("Connection Timeout (seconds)").
		Value(&cfg.ConnectionTimeout).
		Validate(core.ValidatePositiveInteger).
		Run()
	check(err)

	err = huh.NewConfirm().
		Title("Override proxy settings?").
		Description("When disabled, the ambient HTTPS_PROXY/HTTP_PROXY environment is used.").
		Value(&cfg.OverrideProxySettings).
		Run()
	check(err)

	if cfg.OverrideProxySettings {
		err = huh.NewInput().
			Title("Proxy Host").
			Value(&cfg.ProxyHost).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("proxy host cannot be empty")
				}
				return nil
			}).
			Run()
		check(err)

		err = huh.NewInput().Title("Proxy Port").Value(&cfg.ProxyPort).Validate(ValidateOptionalPort).Run()
		check(err)

		err = huh.NewInput().Title("Proxy User").Value(&cfg.ProxyUserName).Run()
		check(err)

		err = huh.NewInput().Title("Proxy Password").Password(true).Value(&cfg.ProxyPassword).Run()
		check(err)
	}

	return &cfg
}

// ValidateServiceURL checks that a wizard-entered service URL is absolute.
// Blank is allowed (the publisher then skips with an informational log).
func ValidateServiceURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}

// ValidateOptionalPort checks that a wizard-entered proxy port is blank or a
// positive integer.
func ValidateOptionalPort(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return core.ValidatePositiveInteger(s)
}
