package core

import (
	"path/filepath"
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// OSSInfoExtractor collects open-source usage records from a finished build's
// workspace. One implementation exists per supported build kind.
type OSSInfoExtractor interface {
	Extract() ([]types.ProjectInfo, error)
}

// TopLevelNamer is implemented by extractors that can derive a top-level
// project name from the build, used as the product identifier when no product
// is configured.
type TopLevelNamer interface {
	TopMostProjectName() string
}

// ExtractorFactory selects the extractor for a build kind. Injected into the
// orchestrator so tests can substitute fakes. An unrecognized kind yields an
// UnsupportedBuildKindError.
type ExtractorFactory func(bctx types.BuildContext, job *types.JobConfig, log BuildLog) (OSSInfoExtractor, error)

// NewExtractorForKind is the default ExtractorFactory.
func NewExtractorForKind(bctx types.BuildContext, job *types.JobConfig, log BuildLog) (OSSInfoExtractor, error) {
	switch bctx.Kind {
	case types.BuildKindMultiModule:
		return NewMultiModuleExtractor(bctx.WorkspaceDir, job, log), nil
	case types.BuildKindGeneric:
		return NewGenericExtractor(bctx.WorkspaceDir, bctx.ProjectName, job, log), nil
	default:
		return nil, &UnsupportedBuildKindError{Kind: string(bctx.Kind)}
	}
}

// splitPatterns splits a comma or whitespace separated filter string into
// individual patterns. Blank entries are dropped.
func splitPatterns(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	patterns := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			patterns = append(patterns, f)
		}
	}
	return patterns
}

// matchAny reports whether the workspace-relative path or its base name
// matches any of the patterns. Malformed patterns never match.
func matchAny(patterns []string, relPath string) bool {
	base := filepath.Base(relPath)
	for _, p := range patterns {
		if ok, err := filepath.Match(p, relPath); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}
