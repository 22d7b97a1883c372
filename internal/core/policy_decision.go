package core

import (
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// Policy check settings as persisted in job and global configuration. The
// job-level value may also be blank, which defers to the global setting.
const (
	SettingGlobal    = "global"
	SettingEnableNew = "enableNew"
	SettingEnableAll = "enableAll"
)

// ResolvePolicyCheck merges the job-level and global policy-check settings
// into one effective mode. Pure function, no I/O.
//
// If the job setting is blank or "global", the global setting decides
// entirely; otherwise the job setting wins. At the winning level:
//   - "enableAll" yields PolicyCheckAll and checkAllLibraries=true
//   - "enableNew" yields PolicyCheckNewOnly
//   - anything else yields PolicyCheckDisabled
func ResolvePolicyCheck(jobSetting, globalSetting string) (types.PolicyCheckMode, bool) {
	winning := jobSetting
	if strings.TrimSpace(jobSetting) == "" || jobSetting == SettingGlobal {
		winning = globalSetting
	}

	switch winning {
	case SettingEnableAll:
		return types.PolicyCheckAll, true
	case SettingEnableNew:
		return types.PolicyCheckNewOnly, false
	default:
		return types.PolicyCheckDisabled, false
	}
}
