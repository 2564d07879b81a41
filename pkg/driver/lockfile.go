package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName sits next to fractus.yml and pins fetched git suites.
const LockfileName = "fractus.lock"

// Lockfile models the fractus.lock contents.
type Lockfile struct {
	Path      string
	Project   string
	Generated string
	Tool      string
	Suites    []*LockedSuite
}

// LockedSuite records one fetched suite: the pinned version names its cache
// directory, Source is "git+URL@commit".
type LockedSuite struct {
	Name     string
	Version  string
	Source   string
	Checksum string
}

// NewLockfile constructs an empty lockfile for the named project.
func NewLockfile(project, tool string) *Lockfile {
	return &Lockfile{
		Project:   sanitizeSegment(project),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Suites:    []*LockedSuite{},
	}
}

// LockfilePath is where the lockfile for m lives.
func LockfilePath(m *Manifest) string {
	return filepath.Join(m.Dir(), LockfileName)
}

// LoadLockfile parses fractus.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile, falling back to lock.Path when path
// is empty.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the entry for the named suite, or nil.
func (l *Lockfile) Find(name string) *LockedSuite {
	if l == nil {
		return nil
	}
	name = sanitizeSegment(name)
	for _, s := range l.Suites {
		if s != nil && s.Name == name {
			return s
		}
	}
	return nil
}

// Upsert replaces the entry with the same name or appends a new one. It
// reports whether the lockfile changed.
func (l *Lockfile) Upsert(entry *LockedSuite) bool {
	if entry == nil {
		return false
	}
	if existing := l.Find(entry.Name); existing != nil {
		if *existing == *entry {
			return false
		}
		*existing = *entry
		return true
	}
	l.Suites = append(l.Suites, entry)
	return true
}

func (l *Lockfile) normalize() {
	l.Project = sanitizeSegment(l.Project)
	l.Tool = strings.TrimSpace(l.Tool)
	sort.SliceStable(l.Suites, func(i, j int) bool {
		return l.Suites[i].Name < l.Suites[j].Name
	})
}

func (l *Lockfile) toDisk() lockfileDisk {
	suites := make([]lockfileSuite, 0, len(l.Suites))
	for _, s := range l.Suites {
		if s == nil {
			continue
		}
		suites = append(suites, lockfileSuite{
			Name:     s.Name,
			Version:  s.Version,
			Source:   s.Source,
			Checksum: s.Checksum,
		})
	}
	return lockfileDisk{
		Project:   l.Project,
		Generated: l.Generated,
		Tool:      l.Tool,
		Suites:    suites,
	}
}

type lockfileDisk struct {
	Project   string          `yaml:"project"`
	Generated string          `yaml:"generated"`
	Tool      string          `yaml:"tool"`
	Suites    []lockfileSuite `yaml:"suites"`
}

type lockfileSuite struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Project:   sanitizeSegment(d.Project),
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
		Suites:    make([]*LockedSuite, 0, len(d.Suites)),
	}
	for _, s := range d.Suites {
		lock.Suites = append(lock.Suites, &LockedSuite{
			Name:     sanitizeSegment(s.Name),
			Version:  strings.TrimSpace(s.Version),
			Source:   strings.TrimSpace(s.Source),
			Checksum: strings.TrimSpace(s.Checksum),
		})
	}
	lock.normalize()
	return lock
}
