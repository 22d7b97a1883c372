package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// writeBOM writes a minimal CycloneDX JSON document into dir/bom.json.
func writeBOM(t *testing.T, dir, name, group, version string, components string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	doc := fmt.Sprintf(`{
  "bomFormat": "CycloneDX",
  "specVersion": "1.4",
  "version": 1,
  "metadata": {
    "component": {"type": "application", "name": %q, "group": %q, "version": %q}
  },
  "components": [%s]
}`, name, group, version, components)
	if err := os.WriteFile(filepath.Join(dir, BOMFileName), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
}

const junitComponent = `{"type": "library", "group": "junit", "name": "junit", "version": "4.13",
  "hashes": [{"alg": "SHA-1", "content": "da39a3ee5e6b4b0d3255bfef95601890afd80709"}]}`

// TestMultiModuleExtract verifies one ProjectInfo per module BOM with the
// top-level module sorted first.
func TestMultiModuleExtract(t *testing.T) {
	ws := t.TempDir()
	writeBOM(t, ws, "parent", "com.acme", "1.0.0", junitComponent)
	writeBOM(t, filepath.Join(ws, "child"), "child-module", "com.acme", "1.0.0",
		`{"type": "library", "group": "org.slf4j", "name": "slf4j-api", "version": "1.7.30"}`)

	e := NewMultiModuleExtractor(ws, &types.JobConfig{}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(inventory) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(inventory))
	}
	if inventory[0].Coordinates.ArtifactID != "parent" {
		t.Errorf("expected top-level module first, got %q", inventory[0].Coordinates.ArtifactID)
	}
	if e.TopMostProjectName() != "parent" {
		t.Errorf("expected top-most name parent, got %q", e.TopMostProjectName())
	}
	if inventory[0].Coordinates.GroupID != "com.acme" || inventory[0].Coordinates.Version != "1.0.0" {
		t.Errorf("unexpected coordinates: %+v", inventory[0].Coordinates)
	}

	deps := inventory[0].Dependencies
	if len(deps) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(deps))
	}
	if deps[0].GroupID != "junit" || deps[0].ArtifactID != "junit" || deps[0].Version != "4.13" {
		t.Errorf("unexpected dependency: %+v", deps[0])
	}
	if deps[0].SHA1 != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Errorf("expected SHA-1 carried over, got %q", deps[0].SHA1)
	}
}

// TestMultiModuleExtract_PurlFallback verifies group and version are
// recovered from the package URL when the generator left them blank.
func TestMultiModuleExtract_PurlFallback(t *testing.T) {
	ws := t.TempDir()
	writeBOM(t, ws, "app", "", "", `{"type": "library", "name": "guava", "purl": "pkg:maven/com.google.guava/guava@31.1-jre"}`)

	e := NewMultiModuleExtractor(ws, &types.JobConfig{}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	dep := inventory[0].Dependencies[0]
	if dep.GroupID != "com.google.guava" {
		t.Errorf("expected group from purl, got %q", dep.GroupID)
	}
	if dep.Version != "31.1-jre" {
		t.Errorf("expected version from purl, got %q", dep.Version)
	}
}

// TestMultiModuleExtract_Filters verifies include/exclude filtering on
// module names.
func TestMultiModuleExtract_Filters(t *testing.T) {
	ws := t.TempDir()
	writeBOM(t, ws, "parent", "com.acme", "1.0", junitComponent)
	writeBOM(t, filepath.Join(ws, "core"), "core", "com.acme", "1.0", junitComponent)
	writeBOM(t, filepath.Join(ws, "legacy"), "legacy", "com.acme", "1.0", junitComponent)

	t.Run("includes", func(t *testing.T) {
		e := NewMultiModuleExtractor(ws, &types.JobConfig{ModulesToInclude: "core,parent"}, nil)
		inventory, err := e.Extract()
		if err != nil {
			t.Fatal(err)
		}
		if len(inventory) != 2 {
			t.Fatalf("expected 2 projects, got %d", len(inventory))
		}
	})

	t.Run("excludes", func(t *testing.T) {
		e := NewMultiModuleExtractor(ws, &types.JobConfig{ModulesToExclude: "legacy"}, nil)
		inventory, err := e.Extract()
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range inventory {
			if p.Coordinates.ArtifactID == "legacy" {
				t.Error("excluded module present in inventory")
			}
		}
	})

	t.Run("excluded top module still names product", func(t *testing.T) {
		e := NewMultiModuleExtractor(ws, &types.JobConfig{ModulesToExclude: "parent"}, nil)
		if _, err := e.Extract(); err != nil {
			t.Fatal(err)
		}
		if e.TopMostProjectName() != "parent" {
			t.Errorf("expected top-most name parent, got %q", e.TopMostProjectName())
		}
	})
}

// TestMultiModuleExtract_IgnoreAggregators verifies BOMs without components
// are skipped when the flag is set.
func TestMultiModuleExtract_IgnoreAggregators(t *testing.T) {
	ws := t.TempDir()
	writeBOM(t, ws, "aggregator", "com.acme", "1.0", "")
	writeBOM(t, filepath.Join(ws, "lib"), "lib", "com.acme", "1.0", junitComponent)

	e := NewMultiModuleExtractor(ws, &types.JobConfig{IgnoreAggregators: true}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 1 || inventory[0].Coordinates.ArtifactID != "lib" {
		t.Errorf("expected only lib in inventory, got %+v", inventory)
	}

	e = NewMultiModuleExtractor(ws, &types.JobConfig{}, nil)
	inventory, err = e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 2 {
		t.Errorf("without the flag expected both modules, got %d", len(inventory))
	}
}

// TestMultiModuleExtract_Tokens verifies the per-module token map wins and
// the top-level module falls back to the module project token.
func TestMultiModuleExtract_Tokens(t *testing.T) {
	ws := t.TempDir()
	writeBOM(t, ws, "parent", "com.acme", "1.0", junitComponent)
	writeBOM(t, filepath.Join(ws, "core"), "core", "com.acme", "1.0", junitComponent)

	job := &types.JobConfig{
		ModuleProjectToken: "top-token",
		ModuleTokens:       map[string]string{"core": "core-token"},
	}
	e := NewMultiModuleExtractor(ws, job, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]types.ProjectInfo{}
	for _, p := range inventory {
		byName[p.Coordinates.ArtifactID] = p
	}
	if byName["parent"].ProjectToken != "top-token" {
		t.Errorf("expected top-level fallback token, got %q", byName["parent"].ProjectToken)
	}
	if byName["core"].ProjectToken != "core-token" {
		t.Errorf("expected per-module token, got %q", byName["core"].ProjectToken)
	}
}

// TestMultiModuleExtract_NoBOMs verifies an empty workspace yields an empty
// inventory, not an error.
func TestMultiModuleExtract_NoBOMs(t *testing.T) {
	e := NewMultiModuleExtractor(t.TempDir(), &types.JobConfig{}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(inventory) != 0 {
		t.Errorf("expected empty inventory, got %d projects", len(inventory))
	}
}

// TestMultiModuleExtract_CorruptBOM verifies a malformed document is a hard
// error.
func TestMultiModuleExtract_CorruptBOM(t *testing.T) {
	ws := t.TempDir()
	if err := os.WriteFile(filepath.Join(ws, BOMFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewMultiModuleExtractor(ws, &types.JobConfig{}, nil)
	if _, err := e.Extract(); err == nil {
		t.Error("expected error for a corrupt BOM")
	}
}

// TestMultiModuleExtract_NameFallsBackToDir verifies the directory name is
// used when BOM metadata names no component.
func TestMultiModuleExtract_NameFallsBackToDir(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, "unnamed-module")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	doc := `{"bomFormat": "CycloneDX", "specVersion": "1.4", "version": 1, "components": [` + junitComponent + `]}`
	if err := os.WriteFile(filepath.Join(dir, BOMFileName), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewMultiModuleExtractor(ws, &types.JobConfig{}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 1 || inventory[0].Coordinates.ArtifactID != "unnamed-module" {
		t.Errorf("expected directory name fallback, got %+v", inventory)
	}
}
