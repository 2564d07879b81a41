package main

import (
	"fmt"
	"os"
	"strings"

	"fractus/interpreter-go/pkg/driver"
)

func runSuites(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "fractus suites requires a subcommand (fetch)")
		return 1
	}
	switch args[0] {
	case "fetch":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "fractus suites fetch does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runSuitesFetch()
	default:
		fmt.Fprintf(os.Stderr, "unknown suites subcommand %q\n", args[0])
		return 1
	}
}

func runSuitesFetch() int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return 1
	}
	cacheDir, err := resolveFractusHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve FRACTUS_HOME: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Project: %s\n", describeProject(manifest))
	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lockPath := driver.LockfilePath(manifest)
	_, statErr := os.Stat(lockPath)
	lockCreated := os.IsNotExist(statErr)
	lock, err := loadLockfileFor(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	lock.Tool = cliToolVersion

	changed, err := driver.NewSuiteFetcher(cacheDir).FetchAll(manifest, lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch suites: %v\n", err)
		return 1
	}
	for _, name := range manifest.SuiteOrder {
		spec := manifest.Suites[name]
		if !spec.IsGit() {
			fmt.Fprintf(os.Stdout, "%s: local %s\n", name, spec.Path)
			continue
		}
		if entry := lock.Find(name); entry != nil {
			fmt.Fprintf(os.Stdout, "%s: %s\n", name, entry.Source)
		}
	}

	if !changed && !lockCreated {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
		return 0
	}
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
		return 1
	}
	action := "Updated"
	if lockCreated {
		action = "Created"
	}
	fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	return 0
}
