package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"fractus/interpreter-go/pkg/runtime"
)

// FixtureSuite is one YAML file of program cases with expected outcomes.
type FixtureSuite struct {
	Path        string        `yaml:"-"`
	Description string        `yaml:"description"`
	Cases       []FixtureCase `yaml:"cases"`
}

// FixtureCase runs a single program. Exactly one of Entry (a file relative
// to the suite) or Source (inline text) is set.
type FixtureCase struct {
	Name   string        `yaml:"name"`
	Entry  string        `yaml:"entry"`
	Source string        `yaml:"source"`
	Stdin  string        `yaml:"stdin"`
	Expect FixtureExpect `yaml:"expect"`
}

// FixtureExpect lists what a case must produce. Stdout holds one entry per
// printed line. Error, when set, must be a substring of the diagnostic and
// the case then passes only if the program fails. Globals compares the
// printed form of final global values.
type FixtureExpect struct {
	Stdout  []string          `yaml:"stdout"`
	Error   string            `yaml:"error"`
	Globals map[string]string `yaml:"globals"`
}

// CaseResult is the outcome of running one fixture case.
type CaseResult struct {
	Suite   string
	Name    string
	Passed  bool
	Failure string
}

// LoadFixtureSuite decodes one suite file.
func LoadFixtureSuite(path string) (*FixtureSuite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var suite FixtureSuite
	if err := decoder.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fixtures: %s is empty", path)
		}
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}
	suite.Path = path
	for i, c := range suite.Cases {
		if c.Name == "" {
			suite.Cases[i].Name = fmt.Sprintf("case %d", i+1)
		}
		if (c.Entry == "") == (c.Source == "") {
			return nil, fmt.Errorf("fixtures: %s: case %q must set exactly one of entry or source", path, suite.Cases[i].Name)
		}
	}
	return &suite, nil
}

// LoadFixtureDir loads every .yml/.yaml file under dir, in lexical order.
func LoadFixtureDir(dir string) ([]*FixtureSuite, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixtures: walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	suites := make([]*FixtureSuite, 0, len(paths))
	for _, path := range paths {
		suite, err := LoadFixtureSuite(path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// Run executes every case of the suite.
func (s *FixtureSuite) Run() []CaseResult {
	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		res := CaseResult{Suite: s.Path, Name: c.Name}
		if failure := s.runCase(c); failure != "" {
			res.Failure = failure
		} else {
			res.Passed = true
		}
		results = append(results, res)
	}
	return results
}

func (s *FixtureSuite) runCase(c FixtureCase) string {
	var (
		prog *Program
		err  error
	)
	if c.Entry != "" {
		prog, err = Check(filepath.Join(filepath.Dir(s.Path), filepath.FromSlash(c.Entry)))
	} else {
		prog, err = CheckSource(c.Name, strings.NewReader(c.Source))
	}

	var stdout bytes.Buffer
	var final map[string]runtime.Value
	if err == nil {
		interp, runErr := Run(prog, &stdout, strings.NewReader(c.Stdin))
		err = runErr
		if g := interp.Global(); g != nil {
			final = g.Snapshot()
		}
	}

	if c.Expect.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error containing %q, program succeeded", c.Expect.Error)
		}
		if !strings.Contains(err.Error(), c.Expect.Error) {
			return fmt.Sprintf("error = %q, want it to contain %q", err.Error(), c.Expect.Error)
		}
	} else if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}

	if c.Expect.Stdout != nil {
		got := splitLines(stdout.String())
		if strings.Join(got, "\n") != strings.Join(c.Expect.Stdout, "\n") || len(got) != len(c.Expect.Stdout) {
			return fmt.Sprintf("stdout = %q, want %q", got, c.Expect.Stdout)
		}
	}
	names := make([]string, 0, len(c.Expect.Globals))
	for name := range c.Expect.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		val, ok := final[name]
		if !ok {
			return fmt.Sprintf("global %s not defined", name)
		}
		if got := runtime.Format(val); got != c.Expect.Globals[name] {
			return fmt.Sprintf("global %s = %s, want %s", name, got, c.Expect.Globals[name])
		}
	}
	return ""
}

func splitLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}
