package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name: demo
version: "0.1.0"
authors:
  - Ada
  - Niklaus
targets:
  main:
    main: src/main.fs
    stdin: input.txt
  calc: src/calc.fs
suites:
  local: fixtures
  shared:
    git: https://example.com/fractus-fixtures.git
    tag: v1
    dir: suites
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Name != "demo" || manifest.Version != "0.1.0" {
		t.Fatalf("Name/Version = %q/%q, want demo/0.1.0", manifest.Name, manifest.Version)
	}
	if strings.Join(manifest.Authors, ",") != "Ada,Niklaus" {
		t.Fatalf("Authors unexpected: %#v", manifest.Authors)
	}

	main := manifest.Targets["main"]
	if main == nil || main.Main != "src/main.fs" || main.Stdin != "input.txt" {
		t.Fatalf("main target not parsed: %#v", main)
	}
	if calc := manifest.Targets["calc"]; calc == nil || calc.Main != "src/calc.fs" {
		t.Fatalf("target shorthand not parsed: %#v", calc)
	}
	if got := strings.Join(manifest.TargetOrder, ","); got != "main,calc" {
		t.Fatalf("TargetOrder = %s, want main,calc", got)
	}

	local := manifest.Suites["local"]
	if local == nil || local.Path != "fixtures" || local.IsGit() {
		t.Fatalf("local suite not parsed: %#v", local)
	}
	shared := manifest.Suites["shared"]
	if shared == nil || !shared.IsGit() || shared.Tag != "v1" || shared.Dir != "suites" {
		t.Fatalf("git suite not parsed: %#v", shared)
	}
	if got := strings.Join(manifest.SuiteOrder, ","); got != "local,shared" {
		t.Fatalf("SuiteOrder = %s, want local,shared", got)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, `
name: ""
targets:
  cli: src/main.txt
  empty:
    stdin: in.txt
suites:
  none: {}
  both:
    path: fixtures
    git: https://example.com/x.git
  pinned:
    git: https://example.com/x.git
    tag: v1
    branch: main
  stray:
    path: fixtures
    rev: abc123
`)

	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	msg := err.Error()
	for _, fragment := range []string{
		"name must be provided",
		`target "cli" main must be a .fs file`,
		`target "empty" requires a main entrypoint`,
		"suites.none: must specify path or git",
		"suites.both: path suites cannot also specify git",
		"suites.pinned: specify at most one of rev, tag or branch",
		"suites.stray: rev, tag, branch and dir apply only to git suites",
	} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("validation error missing fragment %q: %s", fragment, msg)
		}
	}
}

func TestLoadManifestUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: demo
targets:
  main:
    main: src/main.fs
    entry: src/other.fs
`)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), `unknown field "entry"`) {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	path = writeManifest(t, `
name: demo
license: MIT
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected error for unknown top-level field")
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestManifestTargetCollision(t *testing.T) {
	path := writeManifest(t, `
name: demo
targets:
  app-server: src/a.fs
  app_server: src/b.fs
`)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "collide after sanitization") {
		t.Fatalf("expected collision error, got %v", err)
	}
}

func TestManifestDefaultTarget(t *testing.T) {
	path := writeManifest(t, `
name: demo
targets:
  app-server: src/app.fs
  Worker: src/worker.fs
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	target, err := manifest.DefaultTarget()
	if err != nil {
		t.Fatalf("DefaultTarget returned error: %v", err)
	}
	if target.OriginalName != "app-server" || target.Name != "app_server" {
		t.Fatalf("DefaultTarget = %q (%q), want app-server (app_server)", target.OriginalName, target.Name)
	}

	if found, ok := manifest.FindTarget("worker"); !ok || found.Main != "src/worker.fs" {
		t.Fatalf("FindTarget(worker) = %#v, %v", found, ok)
	}
	if found, ok := manifest.FindTarget("app-server"); !ok || found != target {
		t.Fatalf("FindTarget(app-server) = %#v, %v", found, ok)
	}
	if _, ok := manifest.FindTarget("missing"); ok {
		t.Fatal("FindTarget(missing) succeeded")
	}
}

func TestManifestDefaultTargetNone(t *testing.T) {
	manifest, err := LoadManifest(writeManifest(t, "name: demo\n"))
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	if _, err := manifest.DefaultTarget(); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("DefaultTarget error = %v, want ErrNoTarget", err)
	}
}

func TestManifestResolve(t *testing.T) {
	path := writeManifest(t, "name: demo\n")
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	want := filepath.Join(filepath.Dir(path), "src", "main.fs")
	if got := manifest.Resolve("src/main.fs"); got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
	abs := filepath.Join(t.TempDir(), "x.fs")
	if got := manifest.Resolve(abs); got != abs {
		t.Fatalf("Resolve(abs) = %q, want %q", got, abs)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestFileName), "name: demo\n")
	child := filepath.Join(root, "src", "nested")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindManifest(child)
	if err != nil {
		t.Fatalf("FindManifest returned error: %v", err)
	}
	if want := filepath.Join(root, ManifestFileName); found != want {
		t.Fatalf("FindManifest = %q, want %q", found, want)
	}

	file := filepath.Join(child, "main.fs")
	writeFile(t, file, "program p; begin end.")
	if found, err := FindManifest(file); err != nil || found != filepath.Join(root, ManifestFileName) {
		t.Fatalf("FindManifest(file) = %q, %v", found, err)
	}
}

func TestFindManifestMissing(t *testing.T) {
	if _, err := FindManifest(t.TempDir()); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("FindManifest error = %v, want ErrManifestNotFound", err)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, strings.TrimPrefix(contents, "\n"))
	return path
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
