package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrSuiteNotFetched is returned by SuiteDir for a git suite that has no
// lockfile entry or cache checkout yet.
var ErrSuiteNotFetched = errors.New("suites: git suite not fetched")

// SuiteFetcher materialises git-hosted fixture suites under
// CacheDir/suites/<name>/<version>.
type SuiteFetcher struct {
	CacheDir string
}

// NewSuiteFetcher returns a fetcher rooted at cacheDir, or nil when
// cacheDir is empty.
func NewSuiteFetcher(cacheDir string) *SuiteFetcher {
	if cacheDir == "" {
		return nil
	}
	return &SuiteFetcher{CacheDir: cacheDir}
}

// Fetch clones spec.Git, checks out the pinned revision and returns the
// lock entry describing the checkout.
func (f *SuiteFetcher) Fetch(spec *SuiteSpec) (*LockedSuite, error) {
	if f == nil {
		return nil, errors.New("suites: fetcher unavailable")
	}
	if !spec.IsGit() {
		return nil, fmt.Errorf("suites: %q is not a git suite", spec.Name)
	}
	url := strings.TrimSpace(spec.Git)
	baseDir := f.suiteBase(spec.Name)
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return nil, fmt.Errorf("suites: %s: %w", spec.Name, err)
	}
	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, fmt.Errorf("suites: checksum %s: %w", checkoutDir, err)
	}
	return &LockedSuite{
		Name:     sanitizeSegment(spec.Name),
		Version:  version,
		Source:   fmt.Sprintf("git+%s@%s", url, commit),
		Checksum: checksum,
	}, nil
}

// FetchAll fetches every git suite of m and records it in lock, reporting
// whether any entry changed.
func (f *SuiteFetcher) FetchAll(m *Manifest, lock *Lockfile) (bool, error) {
	changed := false
	for _, name := range m.SuiteOrder {
		spec := m.Suites[name]
		if !spec.IsGit() {
			continue
		}
		entry, err := f.Fetch(spec)
		if err != nil {
			return changed, err
		}
		if lock.Upsert(entry) {
			changed = true
		}
	}
	return changed, nil
}

func (f *SuiteFetcher) suiteBase(name string) string {
	return filepath.Join(f.CacheDir, "suites", sanitizeSegment(name))
}

// SuiteDir resolves the directory holding a suite's fixture files. Path
// suites resolve against the manifest; git suites resolve through their
// lockfile entry into the cache.
func SuiteDir(m *Manifest, spec *SuiteSpec, cacheDir string, lock *Lockfile) (string, error) {
	if !spec.IsGit() {
		return m.Resolve(spec.Path), nil
	}
	entry := lock.Find(spec.Name)
	if entry == nil || cacheDir == "" {
		return "", fmt.Errorf("%w: %s (run `fractus suites fetch`)", ErrSuiteNotFetched, spec.Name)
	}
	dir := filepath.Join(cacheDir, "suites", sanitizeSegment(spec.Name), sanitizePathSegment(entry.Version))
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("%w: %s (missing %s)", ErrSuiteNotFetched, spec.Name, dir)
	}
	if spec.Dir != "" {
		dir = filepath.Join(dir, filepath.FromSlash(spec.Dir))
	}
	return dir, nil
}

func ensureGitCheckout(baseDir, url string, spec *SuiteSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor := gitRevisionFromSpec(spec)

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		if version, commit, ok := cachedRevCheckout(baseDir, rev); ok {
			return version, commit, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	// The checkout is fixture data only; drop the repository metadata so the
	// checksum covers suite files alone.
	if err := os.RemoveAll(filepath.Join(tmpDir, ".git")); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

// cachedRevCheckout finds an earlier checkout of rev under baseDir. A full
// hash is stored under its own name; an abbreviated rev is stored as
// gitPinnedVersion(rev, commit), which sanitizes to "<rev>_<commit>".
func cachedRevCheckout(baseDir, rev string) (string, string, bool) {
	seg := sanitizePathSegment(rev)
	if info, err := os.Stat(filepath.Join(baseDir, seg)); err == nil && info.IsDir() {
		return rev, rev, true
	}
	matches, err := filepath.Glob(filepath.Join(baseDir, seg+"_*"))
	if err != nil {
		return "", "", false
	}
	for _, match := range matches {
		commit := strings.TrimPrefix(filepath.Base(match), seg+"_")
		if !plumbing.IsHash(commit) || !strings.HasPrefix(commit, rev) {
			continue
		}
		if info, err := os.Stat(match); err == nil && info.IsDir() {
			return gitPinnedVersion(rev, commit), commit, true
		}
	}
	return "", "", false
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

// gitRevisionFromSpec maps the pin to a revision; an unpinned suite follows
// the remote HEAD.
func gitRevisionFromSpec(spec *SuiteSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), branch
	}
	return plumbing.Revision("HEAD"), ""
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
