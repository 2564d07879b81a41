package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file searched for by FindManifest.
const ManifestFileName = "fractus.yml"

// Manifest represents the parsed contents of fractus.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Authors     []string
	Targets     map[string]*TargetSpec
	TargetOrder []string
	Suites      map[string]*SuiteSpec
	SuiteOrder  []string

	collisions []string
}

// TargetSpec names a program to run and, optionally, the file fed to read().
type TargetSpec struct {
	Name         string
	OriginalName string
	Main         string
	Stdin        string
}

// SuiteSpec locates a directory of YAML fixture files, either inside the
// project or in a git repository pinned by rev, tag or branch.
type SuiteSpec struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Dir    string
}

// IsGit reports whether the suite is fetched from a repository.
func (s *SuiteSpec) IsGit() bool { return s != nil && s.Git != "" }

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ErrManifestNotFound is returned by FindManifest when no fractus.yml exists
// in the start directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: fractus.yml not found")

// FindManifest walks up from start looking for fractus.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// LoadManifest parses fractus.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir is the directory containing the manifest; relative paths resolve
// against it.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// Resolve turns a manifest-relative path into an absolute one.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(rel))
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	errs.Issues = append(errs.Issues, m.collisions...)
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", target.OriginalName))
		} else if !strings.HasSuffix(target.Main, SourceExt) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q main must be a %s file", target.OriginalName, SourceExt))
		}
	}
	for _, name := range m.SuiteOrder {
		for _, issue := range m.Suites[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suites.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SuiteSpec) validate() []string {
	var errs []string
	switch {
	case s.Path == "" && s.Git == "":
		errs = append(errs, "must specify path or git")
	case s.Path != "" && s.Git != "":
		errs = append(errs, "path suites cannot also specify git")
	}
	pins := 0
	for _, v := range []string{s.Rev, s.Tag, s.Branch} {
		if v != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "specify at most one of rev, tag or branch")
	}
	if s.Git == "" && (pins > 0 || s.Dir != "") {
		errs = append(errs, "rev, tag, branch and dir apply only to git suites")
	}
	return errs
}

// ErrNoTarget is returned when the manifest defines no targets.
var ErrNoTarget = errors.New("manifest: no targets defined")

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil || len(m.TargetOrder) == 0 {
		return nil, ErrNoTarget
	}
	return m.Targets[m.TargetOrder[0]], nil
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.Targets[sanitizeSegment(name)]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(m.Targets[key].OriginalName, name) {
			return m.Targets[key], true
		}
	}
	return nil, false
}

var unsafeSegment = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// sanitizeSegment lowercases s and collapses anything outside [a-z0-9_]
// into underscores.
func sanitizeSegment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = unsafeSegment.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

type manifestFile struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Authors stringList `yaml:"authors"`
	Targets targetMap  `yaml:"targets"`
	Suites  suiteMap   `yaml:"suites"`
}

type targetYAML struct {
	Main  string `yaml:"main"`
	Stdin string `yaml:"stdin"`
}

type suiteYAML struct {
	Path   string `yaml:"path"`
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Dir    string `yaml:"dir"`
}

// targetMap keeps entries in document order so the first target is the
// default. A scalar value is shorthand for `main:`.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	tm.items = nil
	return decodeOrdered(value, "targets", func(key string, node *yaml.Node) error {
		entry := new(targetYAML)
		if node.Kind == yaml.ScalarNode {
			entry.Main = node.Value
		} else {
			if err := checkKeys(node, "main", "stdin"); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
			if err := node.Decode(entry); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		}
		tm.items = append(tm.items, targetMapEntry{name: key, spec: entry})
		return nil
	})
}

// suiteMap keeps entries in document order. A scalar value is shorthand for
// `path:`.
type suiteMap struct {
	items []suiteMapEntry
}

type suiteMapEntry struct {
	name string
	spec *suiteYAML
}

func (sm *suiteMap) UnmarshalYAML(value *yaml.Node) error {
	sm.items = nil
	return decodeOrdered(value, "suites", func(key string, node *yaml.Node) error {
		entry := new(suiteYAML)
		if node.Kind == yaml.ScalarNode {
			entry.Path = node.Value
		} else {
			if err := checkKeys(node, "path", "git", "rev", "tag", "branch", "dir"); err != nil {
				return fmt.Errorf("manifest: suite %q: %w", key, err)
			}
			if err := node.Decode(entry); err != nil {
				return fmt.Errorf("manifest: suite %q: %w", key, err)
			}
		}
		sm.items = append(sm.items, suiteMapEntry{name: key, spec: entry})
		return nil
	})
}

func decodeOrdered(value *yaml.Node, what string, each func(key string, node *yaml.Node) error) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: %s must be a mapping", what)
	}
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: %s must not use empty keys", what)
		}
		if err := each(key, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// checkKeys rejects mapping keys outside allowed. Node.Decode does not apply
// the top-level decoder's KnownFields setting.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected string or mapping, found %s", node.ShortTag())
	}
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown field %q", key)
		}
	}
	return nil
}

type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:    path,
		Name:    strings.TrimSpace(mf.Name),
		Version: strings.TrimSpace(mf.Version),
		Authors: mf.Authors.Clone(),
		Targets: make(map[string]*TargetSpec, len(mf.Targets.items)),
		Suites:  make(map[string]*SuiteSpec, len(mf.Suites.items)),
	}
	for _, item := range mf.Targets.items {
		sanitized := sanitizeSegment(item.name)
		if other, exists := result.Targets[sanitized]; exists {
			result.collisions = append(result.collisions,
				fmt.Sprintf("targets %q and %q collide after sanitization", other.OriginalName, item.name))
			continue
		}
		result.Targets[sanitized] = &TargetSpec{
			Name:         sanitized,
			OriginalName: item.name,
			Main:         strings.TrimSpace(item.spec.Main),
			Stdin:        strings.TrimSpace(item.spec.Stdin),
		}
		result.TargetOrder = append(result.TargetOrder, sanitized)
	}
	for _, item := range mf.Suites.items {
		if _, exists := result.Suites[item.name]; exists {
			continue
		}
		raw := item.spec
		result.Suites[item.name] = &SuiteSpec{
			Name:   item.name,
			Path:   strings.TrimSpace(raw.Path),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Dir:    strings.TrimSpace(raw.Dir),
		}
		result.SuiteOrder = append(result.SuiteOrder, item.name)
	}
	return result
}
