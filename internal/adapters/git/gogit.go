// Package git provides adapters for interacting with local Git repositories.
// This package implements the domain.LocalGitRepository interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
)

// DefaultRemote is the remote used to derive the repository path.
const DefaultRemote = "origin"

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// GoGitRepository implements domain.LocalGitRepository using go-git/v5.
type GoGitRepository struct {
	repo   *git.Repository
	path   string
	remote string
	logger Logger
}

// NewGoGitRepository opens the repository containing path. Parent
// directories are searched for .git, so any path inside a checkout works.
// Returns domain.ErrRepositoryNotFound if no repository is found.
func NewGoGitRepository(path, remote string, log Logger) (*GoGitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, path)
	}
	if remote == "" {
		remote = DefaultRemote
	}

	return &GoGitRepository{
		repo:   repo,
		path:   path,
		remote: remote,
		logger: log,
	}, nil
}

// GetGitContext extracts HEAD SHA, branch name, and repository path.
// Logs a warning if HEAD is detached but continues with empty branch name.
// Returns domain.ErrNoRemote if the remote is not configured.
func (r *GoGitRepository) GetGitContext(ctx context.Context) (*domain.GitContext, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	gitCtx := &domain.GitContext{
		HeadSHA:    head.Hash().String(),
		IsDetached: !head.Name().IsBranch(),
	}

	if head.Name().IsBranch() {
		gitCtx.Branch = head.Name().Short()
	} else {
		r.logger.Warn(ctx, "HEAD is detached; branch name will be empty", map[string]interface{}{
			"head_sha": gitCtx.HeadSHA,
			"path":     r.path,
		})
	}

	remote, err := r.repo.Remote(r.remote)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get remote %q: %w", domain.ErrNoRemote, r.remote, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: remote %q has no URLs configured", domain.ErrNoRemote, r.remote)
	}

	repoPath, err := parseRepoPathFromURL(urls[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRemoteURL, err)
	}
	gitCtx.RepoPath = repoPath

	r.logger.Debug(ctx, "extracted git context", map[string]interface{}{
		"head_sha":    gitCtx.HeadSHA,
		"branch":      gitCtx.Branch,
		"repo_path":   gitCtx.RepoPath,
		"is_detached": gitCtx.IsDetached,
	})

	return gitCtx, nil
}

// ResolveRevision resolves rev (branch, tag, short SHA, HEAD~n, ...) to a
// full commit SHA.
func (r *GoGitRepository) ResolveRevision(ctx context.Context, rev string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rev == "" {
		rev = plumbing.HEAD.String()
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrRevisionNotFound, rev, err)
	}

	r.logger.Debug(ctx, "resolved revision", map[string]interface{}{
		"rev":       rev,
		"commit_id": hash.String(),
	})

	return hash.String(), nil
}

// HasFile reports whether path names a file or directory in the tree of commitID.
func (r *GoGitRepository) HasFile(ctx context.Context, commitID, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	commit, err := r.repo.CommitObject(plumbing.NewHash(commitID))
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", domain.ErrRevisionNotFound, commitID, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return false, fmt.Errorf("failed to get tree for commit %s: %w", commitID, err)
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return true, nil
	}

	_, err = tree.FindEntry(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, object.ErrEntryNotFound), errors.Is(err, object.ErrDirectoryNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up %s in commit %s: %w", path, commitID, err)
	}
}

// Close releases any resources held by the repository.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (r *GoGitRepository) Close() error {
	return nil
}

// Regular expressions for parsing Git remote URLs.
var (
	// urlPattern matches URL-style remotes like:
	// https://github.com/owner/repo.git
	// ssh://git@github.com:22/owner/repo
	// git://gitlab.com/group/subgroup/repo.git
	urlPattern = regexp.MustCompile(
		`^(?:https?|ssh|git)://(?:[^@/]+@)?([^/:]+)(?::[0-9]+)?/((?:[^/]+/)+[^/]+?)(?:\.git)?/?$`,
	)

	// scpPattern matches scp-like SSH remotes like:
	// git@github.com:owner/repo.git
	scpPattern = regexp.MustCompile(`^[^@/]+@([^:/]+):((?:[^/]+/)+[^/]+?)(?:\.git)?$`)
)

// parseRepoPathFromURL extracts host/owner/repo from a Git remote URL:
//   - https://github.com/owner/repo.git -> github.com/owner/repo
//   - git@github.com:owner/repo.git -> github.com/owner/repo
//   - ssh://git@example.com:2222/group/sub/repo -> example.com/group/sub/repo
func parseRepoPathFromURL(url string) (string, error) {
	url = strings.TrimSpace(url)

	if matches := urlPattern.FindStringSubmatch(url); len(matches) == 3 {
		return strings.ToLower(matches[1]) + "/" + matches[2], nil
	}

	if matches := scpPattern.FindStringSubmatch(url); len(matches) == 3 {
		return strings.ToLower(matches[1]) + "/" + matches[2], nil
	}

	return "", fmt.Errorf("unrecognized URL format: %s", url)
}
