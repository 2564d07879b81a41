package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fractus/interpreter-go/pkg/driver"
)

// resolveFractusHome returns $FRACTUS_HOME, defaulting to ~/.fractus.
func resolveFractusHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("FRACTUS_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve FRACTUS_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".fractus"), nil
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

// loadLockfileFor reads fractus.lock beside the manifest. A missing lockfile
// yields an empty one so path-only projects need none.
func loadLockfileFor(manifest *driver.Manifest) (*driver.Lockfile, error) {
	lockPath := driver.LockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	switch {
	case err == nil:
		return lock, nil
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lock.Path = lockPath
		return lock, nil
	default:
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
}

// describeProject renders the manifest's name, version and authors for
// command headers.
func describeProject(m *driver.Manifest) string {
	desc := m.Name
	if m.Version != "" {
		desc += " " + m.Version
	}
	if len(m.Authors) > 0 {
		desc += " by " + strings.Join(m.Authors, ", ")
	}
	return desc
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.ContainsAny(arg, `/\`) || strings.Contains(arg, string(os.PathSeparator)) {
		return true
	}
	if filepath.Ext(arg) == driver.SourceExt {
		return true
	}
	return strings.HasPrefix(arg, ".")
}
