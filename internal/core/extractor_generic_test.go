package core

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

func writeWorkspaceFile(t *testing.T, ws, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(ws, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestGenericExtract_NoIncludes verifies an empty include list yields a nil
// inventory rather than an error.
func TestGenericExtract_NoIncludes(t *testing.T) {
	ws := t.TempDir()
	writeWorkspaceFile(t, ws, "lib/foo.jar", []byte("jar bytes"))

	e := NewGenericExtractor(ws, "app", &types.JobConfig{}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if inventory != nil {
		t.Errorf("expected nil inventory, got %+v", inventory)
	}
}

// TestGenericExtract_PlainFiles verifies matched library files become
// checksummed dependency records in a single project.
func TestGenericExtract_PlainFiles(t *testing.T) {
	ws := t.TempDir()
	content := []byte("jar bytes")
	path := writeWorkspaceFile(t, ws, "lib/foo.jar", content)
	writeWorkspaceFile(t, ws, "lib/skip.txt", []byte("not a library"))

	job := &types.JobConfig{LibIncludes: "*.jar", ProjectToken: "proj-token"}
	e := NewGenericExtractor(ws, "app", job, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(inventory) != 1 {
		t.Fatalf("expected single project, got %d", len(inventory))
	}
	project := inventory[0]
	if project.Coordinates.ArtifactID != "app" || project.ProjectToken != "proj-token" {
		t.Errorf("unexpected project identity: %+v", project)
	}
	if len(project.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(project.Dependencies))
	}

	dep := project.Dependencies[0]
	sum := sha1.Sum(content)
	if dep.SHA1 != hex.EncodeToString(sum[:]) {
		t.Errorf("unexpected checksum %q", dep.SHA1)
	}
	if dep.ArtifactID != "foo.jar" || dep.Type != "jar" || dep.SystemPath != path {
		t.Errorf("unexpected dependency record: %+v", dep)
	}
}

// TestGenericExtract_Excludes verifies exclude patterns drop matched files.
func TestGenericExtract_Excludes(t *testing.T) {
	ws := t.TempDir()
	writeWorkspaceFile(t, ws, "lib/keep.jar", []byte("a"))
	writeWorkspaceFile(t, ws, "lib/test-helper.jar", []byte("b"))

	job := &types.JobConfig{LibIncludes: "*.jar", LibExcludes: "test-*.jar"}
	e := NewGenericExtractor(ws, "app", job, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 1 || len(inventory[0].Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %+v", inventory)
	}
	if inventory[0].Dependencies[0].ArtifactID != "keep.jar" {
		t.Errorf("expected keep.jar, got %q", inventory[0].Dependencies[0].ArtifactID)
	}
}

// TestGenericExtract_CycloneDXExpansion verifies a matched CycloneDX
// document expands into its declared components.
func TestGenericExtract_CycloneDXExpansion(t *testing.T) {
	ws := t.TempDir()
	writeBOM(t, ws, "app", "com.acme", "1.0", junitComponent)

	job := &types.JobConfig{LibIncludes: BOMFileName}
	e := NewGenericExtractor(ws, "app", job, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 1 || len(inventory[0].Dependencies) != 1 {
		t.Fatalf("expected 1 expanded dependency, got %+v", inventory)
	}
	dep := inventory[0].Dependencies[0]
	if dep.GroupID != "junit" || dep.ArtifactID != "junit" {
		t.Errorf("unexpected dependency: %+v", dep)
	}
}

// TestGenericExtract_SPDXExpansion verifies a matched SPDX JSON document
// expands into its declared packages.
func TestGenericExtract_SPDXExpansion(t *testing.T) {
	ws := t.TempDir()
	spdxDoc := `{
  "spdxVersion": "SPDX-2.3",
  "dataLicense": "CC0-1.0",
  "SPDXID": "SPDXRef-DOCUMENT",
  "name": "app-sbom",
  "documentNamespace": "https://example.com/spdx/app-sbom",
  "creationInfo": {"created": "2026-01-01T00:00:00Z", "creators": ["Tool: sbom-tool"]},
  "packages": [
    {
      "name": "libfoo",
      "SPDXID": "SPDXRef-Package-libfoo",
      "versionInfo": "1.2.3",
      "downloadLocation": "NOASSERTION",
      "checksums": [{"algorithm": "SHA1", "checksumValue": "cafebabe"}]
    }
  ]
}`
	writeWorkspaceFile(t, ws, "sbom.spdx.json", []byte(spdxDoc))

	job := &types.JobConfig{LibIncludes: "*.spdx.json"}
	e := NewGenericExtractor(ws, "app", job, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if len(inventory) != 1 || len(inventory[0].Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %+v", inventory)
	}
	dep := inventory[0].Dependencies[0]
	if dep.ArtifactID != "libfoo" || dep.Version != "1.2.3" || dep.SHA1 != "cafebabe" {
		t.Errorf("unexpected dependency: %+v", dep)
	}
}

// TestGenericExtract_NoMatches verifies patterns that match nothing yield a
// nil inventory.
func TestGenericExtract_NoMatches(t *testing.T) {
	ws := t.TempDir()
	writeWorkspaceFile(t, ws, "readme.md", []byte("docs"))

	e := NewGenericExtractor(ws, "app", &types.JobConfig{LibIncludes: "*.jar"}, nil)
	inventory, err := e.Extract()
	if err != nil {
		t.Fatal(err)
	}
	if inventory != nil {
		t.Errorf("expected nil inventory, got %+v", inventory)
	}
}
