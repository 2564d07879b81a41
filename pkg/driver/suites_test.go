package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestLockfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	lock := NewLockfile("Demo App", "fractus test")
	lock.Upsert(&LockedSuite{Name: "zeta", Version: "v1@abc", Source: "git+x@abc", Checksum: "11"})
	lock.Upsert(&LockedSuite{Name: "alpha", Version: "abc", Source: "git+y@abc", Checksum: "22"})
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Project != "demo_app" || loaded.Tool != "fractus test" {
		t.Fatalf("metadata = %q/%q", loaded.Project, loaded.Tool)
	}
	if len(loaded.Suites) != 2 || loaded.Suites[0].Name != "alpha" || loaded.Suites[1].Name != "zeta" {
		t.Fatalf("suites not sorted: %#v", loaded.Suites)
	}
	if got := loaded.Find("zeta"); got == nil || got.Version != "v1@abc" || got.Checksum != "11" {
		t.Fatalf("Find(zeta) = %#v", got)
	}
}

func TestLockfileUpsert(t *testing.T) {
	lock := NewLockfile("demo", "")
	entry := &LockedSuite{Name: "s", Version: "1"}
	if !lock.Upsert(entry) {
		t.Fatal("first Upsert reported no change")
	}
	if lock.Upsert(&LockedSuite{Name: "s", Version: "1"}) {
		t.Fatal("identical Upsert reported a change")
	}
	if !lock.Upsert(&LockedSuite{Name: "s", Version: "2"}) {
		t.Fatal("updated Upsert reported no change")
	}
	if len(lock.Suites) != 1 || lock.Suites[0].Version != "2" {
		t.Fatalf("suites = %#v", lock.Suites)
	}
}

func TestLoadLockfileUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	writeFile(t, path, "project: demo\npackages: []\n")
	if _, err := LoadLockfile(path); err == nil {
		t.Fatal("expected error for unknown lockfile field")
	}
}

func TestSuiteFetcherRev(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "suites", "basic.yml"), fixtureYAML)
	rev := initGitRepo(t, repo)

	cache := filepath.Join(root, "cache")
	fetcher := NewSuiteFetcher(cache)
	spec := &SuiteSpec{Name: "shared", Git: repo, Rev: rev, Dir: "suites"}
	entry, err := fetcher.Fetch(spec)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entry.Version != rev {
		t.Fatalf("Version = %q, want %q", entry.Version, rev)
	}
	if want := fmt.Sprintf("git+%s@%s", repo, rev); entry.Source != want {
		t.Fatalf("Source = %q, want %q", entry.Source, want)
	}
	if len(entry.Checksum) != 64 {
		t.Fatalf("Checksum = %q, want sha256 hex", entry.Checksum)
	}

	checkout := filepath.Join(cache, "suites", "shared", rev)
	if _, err := os.Stat(filepath.Join(checkout, "suites", "basic.yml")); err != nil {
		t.Fatalf("expected checked out suite file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(checkout, ".git")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("checkout kept .git metadata: %v", err)
	}

	again, err := fetcher.Fetch(spec)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if again.Checksum != entry.Checksum {
		t.Fatalf("checksum changed between fetches: %s vs %s", again.Checksum, entry.Checksum)
	}
}

func TestSuiteFetcherReusesShortRevCheckout(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "basic.yml"), fixtureYAML)
	rev := initGitRepo(t, repo)
	short := rev[:7]

	fetcher := NewSuiteFetcher(filepath.Join(root, "cache"))
	spec := &SuiteSpec{Name: "shared", Git: repo, Rev: short}
	entry, err := fetcher.Fetch(spec)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := short + "@" + rev; entry.Version != want {
		t.Fatalf("Version = %q, want %q", entry.Version, want)
	}

	// A second fetch must come from the cache, not a new clone.
	if err := os.RemoveAll(repo); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	again, err := fetcher.Fetch(spec)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if again.Version != entry.Version || again.Source != entry.Source || again.Checksum != entry.Checksum {
		t.Fatalf("second Fetch = %#v, want %#v", again, entry)
	}
}

func TestSuiteFetcherTagAndBranch(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repoDir, "basic.yml"), fixtureYAML)
	rev := initGitRepo(t, repoDir)

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if _, err := repo.CreateTag("v1", head.Hash(), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	fetcher := NewSuiteFetcher(filepath.Join(root, "cache"))
	tagged, err := fetcher.Fetch(&SuiteSpec{Name: "tagged", Git: repoDir, Tag: "v1"})
	if err != nil {
		t.Fatalf("Fetch tag: %v", err)
	}
	if want := "v1@" + rev; tagged.Version != want {
		t.Fatalf("tag Version = %q, want %q", tagged.Version, want)
	}

	branch := head.Name().Short()
	branched, err := fetcher.Fetch(&SuiteSpec{Name: "branched", Git: repoDir, Branch: branch})
	if err != nil {
		t.Fatalf("Fetch branch: %v", err)
	}
	if want := branch + "@" + rev; branched.Version != want {
		t.Fatalf("branch Version = %q, want %q", branched.Version, want)
	}

	unpinned, err := fetcher.Fetch(&SuiteSpec{Name: "head", Git: repoDir})
	if err != nil {
		t.Fatalf("Fetch HEAD: %v", err)
	}
	if unpinned.Version != rev {
		t.Fatalf("HEAD Version = %q, want %q", unpinned.Version, rev)
	}
}

func TestSuiteFetcherBadRevision(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "basic.yml"), fixtureYAML)
	initGitRepo(t, repo)

	fetcher := NewSuiteFetcher(filepath.Join(root, "cache"))
	_, err := fetcher.Fetch(&SuiteSpec{Name: "bad", Git: repo, Tag: "missing"})
	if err == nil || !strings.Contains(err.Error(), "resolve revision refs/tags/missing") {
		t.Fatalf("expected resolve error, got %v", err)
	}
}

func TestFetchAllAndSuiteDir(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "suites", "basic.yml"), fixtureYAML)
	rev := initGitRepo(t, repo)

	project := filepath.Join(root, "project")
	writeFile(t, filepath.Join(project, "fixtures", "local.yml"), fixtureYAML)
	writeFile(t, filepath.Join(project, ManifestFileName), `name: demo
suites:
  local: fixtures
  shared:
    git: `+repo+`
    rev: `+rev+`
    dir: suites
`)
	manifest, err := LoadManifest(filepath.Join(project, ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	cache := filepath.Join(root, "cache")
	lock := NewLockfile(manifest.Name, "test")
	if _, err := SuiteDir(manifest, manifest.Suites["shared"], cache, lock); !errors.Is(err, ErrSuiteNotFetched) {
		t.Fatalf("SuiteDir before fetch error = %v, want ErrSuiteNotFetched", err)
	}

	changed, err := NewSuiteFetcher(cache).FetchAll(manifest, lock)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if !changed || len(lock.Suites) != 1 {
		t.Fatalf("FetchAll changed=%v suites=%#v", changed, lock.Suites)
	}

	local, err := SuiteDir(manifest, manifest.Suites["local"], cache, lock)
	if err != nil || local != filepath.Join(project, "fixtures") {
		t.Fatalf("SuiteDir(local) = %q, %v", local, err)
	}
	shared, err := SuiteDir(manifest, manifest.Suites["shared"], cache, lock)
	if err != nil {
		t.Fatalf("SuiteDir(shared): %v", err)
	}
	suites, err := LoadFixtureDir(shared)
	if err != nil {
		t.Fatalf("LoadFixtureDir: %v", err)
	}
	if len(suites) != 1 {
		t.Fatalf("got %d suites, want 1", len(suites))
	}
	for _, res := range suites[0].Run() {
		if !res.Passed {
			t.Fatalf("%s: %s", res.Name, res.Failure)
		}
	}
}

func TestSanitizePathSegment(t *testing.T) {
	if got := sanitizePathSegment("v1@abc/def"); got != "v1_abc_def" {
		t.Fatalf("sanitizePathSegment = %q, want v1_abc_def", got)
	}
	if got := sanitizePathSegment("  "); got != "head" {
		t.Fatalf("sanitizePathSegment(blank) = %q, want head", got)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Fractus",
			Email: "fractus@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}
