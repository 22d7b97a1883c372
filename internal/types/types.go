package types

// GlobalConfig holds the organization-wide publisher settings, persisted once
// per installation and shared by every job.
type GlobalConfig struct {
	ServiceURL        string `yaml:"service_url"`
	APIToken          string `yaml:"api_token"`
	CheckPolicies     string `yaml:"check_policies"`
	FailOnError       bool   `yaml:"fail_on_error"`
	ConnectionTimeout string `yaml:"connection_timeout"` // seconds, validated as positive integer

	OverrideProxySettings bool   `yaml:"override_proxy_settings"`
	ProxyHost             string `yaml:"proxy_host"`
	ProxyPort             string `yaml:"proxy_port"`
	ProxyUserName         string `yaml:"proxy_username"`
	ProxyPassword         string `yaml:"proxy_password"`
}

// JobConfig holds per-job overrides. Non-blank values win over GlobalConfig.
type JobConfig struct {
	CheckPolicies  string `yaml:"check_policies"` // "global", "enableNew", "enableAll" or blank
	APIToken       string `yaml:"api_token"`
	Product        string `yaml:"product"`
	ProductVersion string `yaml:"product_version"`
	ProjectToken   string `yaml:"project_token"`
	RequesterEmail string `yaml:"requester_email"`

	// Generic builds: glob patterns selecting library files in the workspace.
	LibIncludes string `yaml:"lib_includes"`
	LibExcludes string `yaml:"lib_excludes"`

	// Multi-module builds.
	ModuleProjectToken string            `yaml:"module_project_token"`
	ModuleTokens       map[string]string `yaml:"module_tokens"`
	ModulesToInclude   string            `yaml:"modules_to_include"`
	ModulesToExclude   string            `yaml:"modules_to_exclude"`
	IgnoreAggregators  bool              `yaml:"ignore_aggregator_modules"`
}

// EffectiveConfig is the resolved scalar configuration for one pipeline run,
// built once by merging job overrides over global defaults.
type EffectiveConfig struct {
	APIToken          string
	ServiceURL        string
	ConnectionTimeout int // seconds
	FailOnError       bool
	Proxy             *ProxySettings // nil when no proxy is configured
}

// ProxySettings holds resolved outbound proxy settings.
type ProxySettings struct {
	Host     string
	Port     int
	UserName string
	Password string
}

// PolicyCheckMode is the effective policy-check strictness for one run.
type PolicyCheckMode int

const (
	PolicyCheckDisabled PolicyCheckMode = iota
	PolicyCheckNewOnly
	PolicyCheckAll
)

func (m PolicyCheckMode) String() string {
	switch m {
	case PolicyCheckNewOnly:
		return "check-new-only"
	case PolicyCheckAll:
		return "check-all"
	default:
		return "disabled"
	}
}

// Coordinates identify a project or dependency on the compliance service.
type Coordinates struct {
	GroupID    string `json:"groupId,omitempty"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version,omitempty"`
}

// DependencyInfo is a single detected open-source component.
type DependencyInfo struct {
	GroupID    string `json:"groupId,omitempty"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version,omitempty"`
	SHA1       string `json:"sha1,omitempty"`
	Type       string `json:"type,omitempty"`
	SystemPath string `json:"systemPath,omitempty"`
}

// ProjectInfo is the open-source usage record for one project (module) in a
// build. A build produces one ProjectInfo per module.
type ProjectInfo struct {
	Coordinates  Coordinates      `json:"coordinates"`
	ProjectToken string           `json:"projectToken,omitempty"`
	Dependencies []DependencyInfo `json:"dependencies"`
}

// RejectedLibrary is a component flagged by the policy check as violating an
// organization rule.
type RejectedLibrary struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	SHA1       string `json:"sha1,omitempty"`
	PolicyName string `json:"policyName,omitempty"`
}

// ComplianceVerdict is the result of a policy check.
type ComplianceVerdict struct {
	Organization      string            `json:"organization"`
	RejectedLibraries []RejectedLibrary `json:"rejectedLibraries"`
}

// HasRejections reports whether any component was rejected. Any rejection
// blocks the subsequent inventory update.
func (v *ComplianceVerdict) HasRejections() bool {
	return len(v.RejectedLibraries) > 0
}

// InventoryUpdateResult is the result of a successful inventory update.
// Purely informational; carries no control-flow meaning.
type InventoryUpdateResult struct {
	Organization    string   `json:"organization"`
	CreatedProjects []string `json:"createdProjects"`
	UpdatedProjects []string `json:"updatedProjects"`
}

// BuildOutcome classifies how the host build record should be affected by a
// pipeline run. Computed once per run, applied by the CLI adapter, discarded.
type BuildOutcome int

const (
	// OutcomeContinue leaves the build result unchanged.
	OutcomeContinue BuildOutcome = iota
	// OutcomeFailed marks the build failed unconditionally (policy rejection
	// or unsupported build kind).
	OutcomeFailed
	// OutcomeConditionalFailure marks the build failed because a service or
	// infrastructure error occurred while fail-on-error was enabled.
	OutcomeConditionalFailure
)

func (o BuildOutcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeConditionalFailure:
		return "failed-on-error"
	default:
		return "continue"
	}
}

// BuildKind identifies the kind of build the publisher runs after.
type BuildKind string

const (
	// BuildKindMultiModule is a build producing one BOM per module.
	BuildKindMultiModule BuildKind = "multi-module"
	// BuildKindGeneric is a free-form build scanned by glob patterns.
	BuildKindGeneric BuildKind = "generic"
	// BuildKindLegacyMultiModule is the unsupported legacy kind; the publisher
	// logs and skips it without failing the build.
	BuildKindLegacyMultiModule BuildKind = "legacy-multi-module"
)

// BuildContext describes the host build run the publisher is attached to.
type BuildContext struct {
	PriorSucceeded bool
	Kind           BuildKind
	ProjectName    string // display name of the job/project
	BuildNumber    int
	WorkspaceDir   string
	ReportDir      string // destination for the policy check report artifact
}
