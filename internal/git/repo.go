package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// BranchNotFoundError indicates a branch exists neither on origin nor locally
type BranchNotFoundError struct {
	Branch string
}

func (e *BranchNotFoundError) Error() string {
	return "branch not found: " + e.Branch
}

// FileNotFoundError indicates the file is absent from the branch tree
type FileNotFoundError struct {
	Path   string
	Branch string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s not found on %s", e.Path, e.Branch)
}

// Open opens the repository containing path, walking up to the git root
func Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}
	return repo, nil
}

// DetectMainBranch determines if the repo uses "main" or "master"
func DetectMainBranch(repo *git.Repository) string {
	refs, err := repo.References()
	if err != nil {
		return "main"
	}

	found := map[string]bool{}
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		found[ref.Name().String()] = true
		return nil
	})

	// Prefer remote refs, then local ones
	for _, name := range []string{
		"refs/remotes/origin/main",
		"refs/remotes/origin/master",
		"refs/heads/main",
		"refs/heads/master",
	} {
		if found[name] {
			return name[strings.LastIndex(name, "/")+1:]
		}
	}
	return "main"
}

// resolveBranch returns the commit hash of branch, checking origin first
func resolveBranch(repo *git.Repository, branch string) (plumbing.Hash, error) {
	ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err == nil {
		return ref.Hash(), nil
	}

	ref, err = repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err == nil {
		return ref.Hash(), nil
	}
	return plumbing.ZeroHash, &BranchNotFoundError{Branch: branch}
}

// ReadFileAtBranch reads path from the tree of branch without touching the worktree
func ReadFileAtBranch(repo *git.Repository, branch, path string) ([]byte, error) {
	hash, err := resolveBranch(repo, branch)
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}

	file, err := commit.File(strings.TrimPrefix(path, "/"))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, &FileNotFoundError{Path: path, Branch: branch}
		}
		return nil, err
	}

	reader, err := file.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// LocalSource reads repository files from a local checkout
type LocalSource struct {
	RepoPath string
}

// ReadFile reads path at ref. An empty ref uses the main branch.
func (s LocalSource) ReadFile(_ context.Context, path, ref string) ([]byte, error) {
	repo, err := Open(s.RepoPath)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		ref = DetectMainBranch(repo)
	}
	return ReadFileAtBranch(repo, ref, path)
}
