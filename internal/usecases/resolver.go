// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
	"github.com/MyCarrier-DevOps/repouri/internal/repouri"
)

// Logger defines the logging interface required by the resolver.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// LocationResolver turns a location in a local checkout into a repo URI
// pinned to a commit, plus the matching pretty blob URL.
type LocationResolver struct {
	gitRepo domain.LocalGitRepository
	baseURL string
	logger  Logger
}

// NewLocationResolver creates a new LocationResolver. baseURL is prefixed to
// blob URLs and may be empty.
func NewLocationResolver(gitRepo domain.LocalGitRepository, baseURL string, log Logger) *LocationResolver {
	return &LocationResolver{
		gitRepo: gitRepo,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log,
	}
}

// Resolve reads the git context, resolves the revision to a commit and
// builds the normalized location with its URI forms.
//
// The revision defaults to the current branch, or to the HEAD commit when
// HEAD is detached. Position and range are dropped when no file is given.
func (r *LocationResolver) Resolve(ctx context.Context, input domain.ResolveInput) (*domain.ResolveOutput, error) {
	gitCtx, err := r.gitRepo.GetGitContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get git context: %w", err)
	}

	r.logger.Debug(ctx, "extracted git context", map[string]interface{}{
		"repo_path":   gitCtx.RepoPath,
		"branch":      gitCtx.Branch,
		"head_sha":    gitCtx.HeadSHA,
		"is_detached": gitCtx.IsDetached,
	})

	rev := input.Rev
	if rev == "" {
		rev = gitCtx.Branch
	}
	if rev == "" {
		rev = gitCtx.HeadSHA
	}

	commitID, err := r.gitRepo.ResolveRevision(ctx, rev)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}

	filePath := strings.TrimPrefix(input.FilePath, "/")
	if input.VerifyFile && filePath != "" {
		ok, err := r.gitRepo.HasFile(ctx, commitID, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", filePath, err)
		}
		if !ok {
			r.logger.Warn(ctx, "file not found at revision", map[string]interface{}{
				"file_path": filePath,
				"commit_id": commitID,
			})
			return nil, fmt.Errorf("%w: %s@%s", domain.ErrFileNotFound, filePath, commitID)
		}
	}

	loc := domain.ParsedRepoURI{
		RepoPath:   gitCtx.RepoPath,
		Rev:        rev,
		CommitID:   commitID,
		FilePath:   filePath,
		ViewState:  input.ViewState,
		RenderMode: input.RenderMode,
	}
	if filePath != "" {
		loc.Position = input.Position
		loc.Range = input.Range
	} else if input.Position != nil || input.Range != nil {
		r.logger.Warn(ctx, "ignoring position without a file path", nil)
	}
	loc = loc.Normalize()

	out := &domain.ResolveOutput{
		Location: loc,
		URI:      repouri.MakeRepoURI(loc),
	}
	if filePath != "" {
		out.BlobURL = r.baseURL + repouri.ToPrettyBlobURL(loc)
	}

	r.logger.Info(ctx, "location resolved", map[string]interface{}{
		"uri":       out.URI,
		"rev":       rev,
		"commit_id": commitID,
	})

	return out, nil
}
