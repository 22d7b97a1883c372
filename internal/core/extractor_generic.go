package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
	spdxjson "github.com/spdx/tools-golang/json"
	"github.com/spdx/tools-golang/spdx/v2/common"
)

// GenericExtractor collects open-source usage from a free-form build by
// matching workspace files against glob include/exclude patterns. Matched
// SBOM documents (CycloneDX or SPDX JSON) are expanded into their declared
// components; any other matched file becomes a single dependency record with
// its SHA-1 checksum. The whole workspace maps to one project.
type GenericExtractor struct {
	workspaceDir string
	projectName  string
	projectToken string
	includes     []string
	excludes     []string
	log          BuildLog
}

// NewGenericExtractor creates a GenericExtractor for one build run.
func NewGenericExtractor(workspaceDir, projectName string, job *types.JobConfig, log BuildLog) *GenericExtractor {
	if log == nil {
		log = SilentBuildLog{}
	}
	return &GenericExtractor{
		workspaceDir: workspaceDir,
		projectName:  projectName,
		projectToken: job.ProjectToken,
		includes:     splitPatterns(job.LibIncludes),
		excludes:     splitPatterns(job.LibExcludes),
		log:          log,
	}
}

// Extract scans the workspace and builds the single-project inventory. An
// empty include list matches nothing, which the pipeline treats as an empty
// inventory rather than an error.
func (e *GenericExtractor) Extract() ([]types.ProjectInfo, error) {
	if len(e.includes) == 0 {
		e.log.Info("No library include patterns configured.")
		return nil, nil
	}

	var deps []types.DependencyInfo
	err := filepath.WalkDir(e.workspaceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(e.workspaceDir, path)
		if err != nil {
			return err
		}
		if !matchAny(e.includes, rel) || matchAny(e.excludes, rel) {
			return nil
		}

		fileDeps, err := e.dependenciesFromFile(path, rel)
		if err != nil {
			return err
		}
		deps = append(deps, fileDeps...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan workspace: %w", err)
	}

	if len(deps) == 0 {
		return nil, nil
	}

	return []types.ProjectInfo{{
		Coordinates:  types.Coordinates{ArtifactID: e.projectName},
		ProjectToken: e.projectToken,
		Dependencies: deps,
	}}, nil
}

// dependenciesFromFile converts one matched file into dependency records.
func (e *GenericExtractor) dependenciesFromFile(path, rel string) ([]types.DependencyInfo, error) {
	base := filepath.Base(path)
	switch {
	case base == BOMFileName || strings.HasSuffix(base, ".cdx.json"):
		bom, err := readBOM(path)
		if err != nil {
			return nil, fmt.Errorf("read CycloneDX document %s: %w", rel, err)
		}
		return componentDependencies(bom), nil

	case strings.HasSuffix(base, ".spdx.json"):
		deps, err := readSPDXDependencies(path)
		if err != nil {
			return nil, fmt.Errorf("read SPDX document %s: %w", rel, err)
		}
		return deps, nil

	default:
		dep, err := e.fileDependency(path, rel)
		if err != nil {
			return nil, err
		}
		return []types.DependencyInfo{dep}, nil
	}
}

// fileDependency builds a dependency record for a raw library file.
func (e *GenericExtractor) fileDependency(path, rel string) (types.DependencyInfo, error) {
	checksum, err := fileSHA1(path)
	if err != nil {
		return types.DependencyInfo{}, fmt.Errorf("checksum %s: %w", rel, err)
	}

	return types.DependencyInfo{
		ArtifactID: filepath.Base(path),
		SHA1:       checksum,
		Type:       strings.TrimPrefix(filepath.Ext(path), "."),
		SystemPath: path,
	}, nil
}

// readSPDXDependencies parses an SPDX JSON document into dependency records.
func readSPDXDependencies(path string) ([]types.DependencyInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := spdxjson.Read(f)
	if err != nil {
		return nil, err
	}

	deps := make([]types.DependencyInfo, 0, len(doc.Packages))
	for _, pkg := range doc.Packages {
		if pkg == nil {
			continue
		}
		dep := types.DependencyInfo{
			ArtifactID: pkg.PackageName,
			Version:    pkg.PackageVersion,
		}
		for _, checksum := range pkg.PackageChecksums {
			if checksum.Algorithm == common.SHA1 {
				dep.SHA1 = checksum.Value
				break
			}
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// fileSHA1 computes the hex SHA-1 checksum of a file.
func fileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
