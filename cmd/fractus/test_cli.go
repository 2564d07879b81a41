package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fractus/interpreter-go/pkg/driver"
)

type testSummary struct {
	passed int
	failed int
}

func runTest(args []string) int {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "fractus test: unknown flag %s\n", arg)
			return 1
		}
	}

	dirs, err := resolveTestTargets(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fractus test: %v\n", err)
		return 2
	}

	var suites []*driver.FixtureSuite
	for _, target := range dirs {
		loaded, err := loadTestTarget(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fractus test: %v\n", err)
			return 2
		}
		suites = append(suites, loaded...)
	}
	if len(suites) == 0 {
		fmt.Fprintln(os.Stdout, "fractus test: no fixture suites found")
		return 0
	}

	summary := runFixtureSuites(os.Stdout, suites)
	fmt.Fprintf(os.Stdout, "%d passed, %d failed\n", summary.passed, summary.failed)
	if summary.failed > 0 {
		return 1
	}
	return 0
}

// resolveTestTargets returns the explicit paths, or every suite directory
// declared in the nearest manifest.
func resolveTestTargets(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return nil, fmt.Errorf("no paths given and %s not found", driver.ManifestFileName)
		}
		return nil, err
	}
	if len(manifest.SuiteOrder) == 0 {
		return nil, nil
	}
	lock, err := loadLockfileFor(manifest)
	if err != nil {
		return nil, err
	}
	cacheDir, err := resolveFractusHome()
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(manifest.SuiteOrder))
	for _, name := range manifest.SuiteOrder {
		dir, err := driver.SuiteDir(manifest, manifest.Suites[name], cacheDir, lock)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func loadTestTarget(path string) ([]*driver.FixtureSuite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return driver.LoadFixtureDir(path)
	}
	suite, err := driver.LoadFixtureSuite(path)
	if err != nil {
		return nil, err
	}
	return []*driver.FixtureSuite{suite}, nil
}

func runFixtureSuites(w io.Writer, suites []*driver.FixtureSuite) testSummary {
	var summary testSummary
	cwd, _ := os.Getwd()
	for _, suite := range suites {
		label := suite.Path
		if rel, err := filepath.Rel(cwd, suite.Path); err == nil && !strings.HasPrefix(rel, "..") {
			label = rel
		}
		for _, res := range suite.Run() {
			if res.Passed {
				summary.passed++
				fmt.Fprintf(w, "PASS %s: %s\n", label, res.Name)
				continue
			}
			summary.failed++
			fmt.Fprintf(w, "FAIL %s: %s\n    %s\n", label, res.Name, res.Failure)
		}
	}
	return summary
}
