package core

import (
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// AmbientProxy is the outbound proxy declared by the host environment
// (HTTPS_PROXY / HTTP_PROXY), as opposed to an explicit per-install override.
type AmbientProxy struct {
	Host     string // may still carry a URL scheme; stripped during resolution
	Port     int
	UserName string
	Password string
}

// LookupAmbientProxy reads the host environment's proxy declaration. Returns
// nil when the environment declares no proxy.
func LookupAmbientProxy() *AmbientProxy {
	raw := ""
	for _, key := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy"} {
		if v := os.Getenv(key); v != "" {
			raw = v
			break
		}
	}
	if raw == "" {
		return nil
	}

	ambient := &AmbientProxy{Host: raw}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		ambient.Host = u.Hostname()
		if p := u.Port(); p != "" {
			ambient.Port, _ = strconv.Atoi(p)
		}
		if u.User != nil {
			ambient.UserName = u.User.Username()
			ambient.Password, _ = u.User.Password()
		}
	}
	return ambient
}

// IsProxyConfigured reports whether outbound service calls go through a proxy:
// either the explicit override is enabled or the ambient environment declares
// one.
func IsProxyConfigured(global *types.GlobalConfig, ambient *AmbientProxy) bool {
	return global.OverrideProxySettings || ambient != nil
}

// ResolveProxy derives the effective proxy settings for one run. Returns nil
// when no proxy is configured. When the override is enabled its fields win
// entirely; otherwise the ambient declaration is used. A URL scheme in the
// host is stripped; a host that fails to parse as a URL is kept as-is.
func ResolveProxy(global *types.GlobalConfig, ambient *AmbientProxy) *types.ProxySettings {
	if !IsProxyConfigured(global, ambient) {
		return nil
	}

	var settings types.ProxySettings
	if global.OverrideProxySettings {
		settings.Host = global.ProxyHost
		if strings.TrimSpace(global.ProxyPort) != "" {
			settings.Port, _ = strconv.Atoi(global.ProxyPort)
		}
		settings.UserName = global.ProxyUserName
		settings.Password = global.ProxyPassword
	} else {
		settings.Host = ambient.Host
		settings.Port = ambient.Port
		settings.UserName = ambient.UserName
		settings.Password = ambient.Password
	}

	settings.Host = stripScheme(settings.Host)
	return &settings
}

// stripScheme removes a URL scheme from a proxy host, keeping only the host
// component. Parse failures keep the raw value.
func stripScheme(host string) string {
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host
	}
	return u.Hostname()
}
