package core

import (
	"strconv"
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// DefaultConnectionTimeout is the fallback service connection timeout in
// seconds when no valid value is configured.
const DefaultConnectionTimeout = 60

// ResolveEffectiveConfig merges job-level overrides over global defaults into
// the resolved scalar settings for one pipeline run. Job-level values win when
// non-blank. The proxy field is resolved separately (see ResolveProxy).
func ResolveEffectiveConfig(job *types.JobConfig, global *types.GlobalConfig, proxy *types.ProxySettings) types.EffectiveConfig {
	token := global.APIToken
	if strings.TrimSpace(job.APIToken) != "" {
		token = job.APIToken
	}

	return types.EffectiveConfig{
		APIToken:          token,
		ServiceURL:        global.ServiceURL,
		ConnectionTimeout: ParseConnectionTimeout(global.ConnectionTimeout),
		FailOnError:       global.FailOnError,
		Proxy:             proxy,
	}
}

// ParseConnectionTimeout parses a configured timeout string into effective
// seconds. Non-numeric or non-positive values fall back to the default.
func ParseConnectionTimeout(configured string) int {
	n, err := strconv.Atoi(strings.TrimSpace(configured))
	if err != nil || n <= 0 {
		return DefaultConnectionTimeout
	}
	return n
}
