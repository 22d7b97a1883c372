package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchOptions configures the development watch loop.
type WatchOptions struct {
	WorkspaceDir  string
	JobConfigPath string // re-run also when the job config changes; optional
}

// Watch observes the workspace's BOM and SBOM documents (and optionally the
// job config file) and invokes callback after each change. Used as a local
// development loop to re-check policies while a build is being tuned; the CI
// pipeline itself never watches.
func (p *PipelineOrchestrator) Watch(opts WatchOptions, callback func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := sbomDirs(opts.WorkspaceDir)
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	if opts.JobConfigPath != "" {
		if err := watcher.Add(filepath.Dir(opts.JobConfigPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", opts.JobConfigPath, err)
		}
	}

	p.log.Info("Watching %s for dependency changes...", opts.WorkspaceDir)

	// Debounce rapid changes
	var debounceTimer *time.Timer
	const debounceDelay = 1 * time.Second

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !watchRelevant(event, opts.JobConfigPath) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				p.log.Info("Detected change to %s", filepath.Base(event.Name))
				if err := callback(); err != nil {
					p.log.Error("Re-check failed: %v", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.Error("Watch error: %v", err)
		}
	}
}

// watchRelevant filters events down to SBOM documents and the job config.
func watchRelevant(event fsnotify.Event, jobConfigPath string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	if jobConfigPath != "" && event.Name == jobConfigPath {
		return true
	}
	base := filepath.Base(event.Name)
	return base == BOMFileName || strings.HasSuffix(base, ".cdx.json") || strings.HasSuffix(base, ".spdx.json")
}

// sbomDirs lists every directory under the workspace containing an SBOM
// document, plus the workspace root.
func sbomDirs(workspaceDir string) ([]string, error) {
	seen := map[string]bool{workspaceDir: true}
	dirs := []string{workspaceDir}

	err := filepath.WalkDir(workspaceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		base := d.Name()
		if base == BOMFileName || strings.HasSuffix(base, ".cdx.json") || strings.HasSuffix(base, ".spdx.json") {
			dir := filepath.Dir(path)
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
