package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/DecoyJoe/whitesource-plugin/internal/purl"
	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// BOMFileName is the per-module CycloneDX document a multi-module build leaves
// in each module directory.
const BOMFileName = "bom.json"

// MultiModuleExtractor collects open-source usage from a multi-module build.
// Every module directory is expected to contain a CycloneDX BOM; each BOM
// becomes one ProjectInfo. Module include/exclude filters apply to module
// names, and aggregator modules (BOMs declaring no components of their own)
// can be skipped.
type MultiModuleExtractor struct {
	workspaceDir string
	includes     []string
	excludes     []string
	moduleTokens map[string]string
	topToken     string
	ignoreAggr   bool
	log          BuildLog

	topMostName string // set during Extract
}

// NewMultiModuleExtractor creates a MultiModuleExtractor for one build run.
func NewMultiModuleExtractor(workspaceDir string, job *types.JobConfig, log BuildLog) *MultiModuleExtractor {
	if log == nil {
		log = SilentBuildLog{}
	}
	return &MultiModuleExtractor{
		workspaceDir: workspaceDir,
		includes:     splitPatterns(job.ModulesToInclude),
		excludes:     splitPatterns(job.ModulesToExclude),
		moduleTokens: job.ModuleTokens,
		topToken:     job.ModuleProjectToken,
		ignoreAggr:   job.IgnoreAggregators,
		log:          log,
	}
}

// Extract walks the workspace for per-module BOM documents and converts each
// into a ProjectInfo.
func (e *MultiModuleExtractor) Extract() ([]types.ProjectInfo, error) {
	bomPaths, err := e.findBOMs()
	if err != nil {
		return nil, fmt.Errorf("scan workspace for module BOMs: %w", err)
	}

	var inventory []types.ProjectInfo
	for i, bomPath := range bomPaths {
		bom, err := readBOM(bomPath)
		if err != nil {
			return nil, fmt.Errorf("read module BOM %s: %w", bomPath, err)
		}

		moduleName := moduleNameOf(bom, bomPath)
		if i == 0 {
			// findBOMs sorts shallowest first; the first BOM belongs to the
			// top-level module.
			e.topMostName = moduleName
		}

		if len(e.includes) > 0 && !matchAny(e.includes, moduleName) {
			e.log.Info("Skipping module %s (not included)", moduleName)
			continue
		}
		if matchAny(e.excludes, moduleName) {
			e.log.Info("Skipping module %s (excluded)", moduleName)
			continue
		}

		deps := componentDependencies(bom)
		if e.ignoreAggr && len(deps) == 0 {
			e.log.Info("Skipping aggregator module %s", moduleName)
			continue
		}

		project := types.ProjectInfo{
			Coordinates:  moduleCoordinates(bom, moduleName),
			ProjectToken: e.tokenFor(moduleName, i == 0),
			Dependencies: deps,
		}
		inventory = append(inventory, project)
	}

	return inventory, nil
}

// TopMostProjectName returns the top-level module name discovered during
// Extract. Empty before Extract is called.
func (e *MultiModuleExtractor) TopMostProjectName() string {
	return e.topMostName
}

// tokenFor resolves the project token for a module: the per-module map wins,
// the top-level module falls back to the configured module project token.
func (e *MultiModuleExtractor) tokenFor(moduleName string, topLevel bool) string {
	if token, ok := e.moduleTokens[moduleName]; ok && token != "" {
		return token
	}
	if topLevel {
		return e.topToken
	}
	return ""
}

// findBOMs returns all module BOM paths under the workspace, ordered
// shallowest first so the top-level module sorts ahead of its children.
func (e *MultiModuleExtractor) findBOMs() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(e.workspaceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == BOMFileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		di := strings.Count(paths[i], string(filepath.Separator))
		dj := strings.Count(paths[j], string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
	return paths, nil
}

// readBOM decodes a CycloneDX JSON document.
func readBOM(path string) (*cdx.BOM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bom cdx.BOM
	if err := cdx.NewBOMDecoder(f, cdx.BOMFileFormatJSON).Decode(&bom); err != nil {
		return nil, err
	}
	return &bom, nil
}

// moduleNameOf derives the module name from BOM metadata, falling back to the
// BOM's directory name.
func moduleNameOf(bom *cdx.BOM, bomPath string) string {
	if bom.Metadata != nil && bom.Metadata.Component != nil && bom.Metadata.Component.Name != "" {
		return bom.Metadata.Component.Name
	}
	return filepath.Base(filepath.Dir(bomPath))
}

// moduleCoordinates derives service coordinates from BOM metadata.
func moduleCoordinates(bom *cdx.BOM, moduleName string) types.Coordinates {
	coords := types.Coordinates{ArtifactID: moduleName}
	if bom.Metadata != nil && bom.Metadata.Component != nil {
		coords.GroupID = bom.Metadata.Component.Group
		coords.Version = bom.Metadata.Component.Version
	}
	return coords
}

// componentDependencies converts BOM components into dependency records.
func componentDependencies(bom *cdx.BOM) []types.DependencyInfo {
	if bom.Components == nil {
		return nil
	}

	deps := make([]types.DependencyInfo, 0, len(*bom.Components))
	for _, comp := range *bom.Components {
		dep := types.DependencyInfo{
			GroupID:    comp.Group,
			ArtifactID: comp.Name,
			Version:    comp.Version,
			Type:       string(comp.Type),
		}
		// Some generators leave group/version blank and only fill the purl.
		if (dep.GroupID == "" || dep.Version == "") && comp.PackageURL != "" {
			if parsed, err := purl.Parse(comp.PackageURL); err == nil {
				if dep.GroupID == "" {
					dep.GroupID = parsed.Namespace
				}
				if dep.Version == "" {
					dep.Version = parsed.Version
				}
				if dep.ArtifactID == "" {
					dep.ArtifactID = parsed.Name
				}
			}
		}
		if comp.Hashes != nil {
			for _, h := range *comp.Hashes {
				if h.Algorithm == cdx.HashAlgoSHA1 {
					dep.SHA1 = h.Value
					break
				}
			}
		}
		deps = append(deps, dep)
	}
	return deps
}
