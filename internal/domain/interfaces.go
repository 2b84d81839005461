// Package domain defines the core value types, errors and ports for repouri.
// This package contains no external dependencies and represents the innermost
// layer of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Codec errors. Callers surface these as an "invalid URL" condition.
var (
	// ErrInvalidRepoURI indicates the input is not an absolute scheme://host URI.
	ErrInvalidRepoURI = errors.New("invalid repo URI")

	// ErrInvalidFragment indicates a repo URI fragment with more than one ':'.
	ErrInvalidFragment = errors.New("unexpected fragment")

	// ErrInvalidRangeOrPosition indicates a position-or-range token with more than one '-'.
	ErrInvalidRangeOrPosition = errors.New("unexpected range or position")

	// ErrInvalidPosition indicates a position token that is not "line" or "line,character".
	ErrInvalidPosition = errors.New("unexpected position")

	// ErrInvalidRenderMode indicates a render mode other than "code" or "rendered".
	ErrInvalidRenderMode = errors.New("unexpected render mode")

	// ErrInvalidCommitRange indicates a comparison specifier without "...".
	ErrInvalidCommitRange = errors.New("unexpected commit range")
)

// Domain errors for git operations.
var (
	// ErrRepositoryNotFound indicates the specified path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrNoRemote indicates the configured remote does not exist in the repository.
	ErrNoRemote = errors.New("remote not configured; cannot determine repository path")

	// ErrInvalidRemoteURL indicates the remote URL could not be parsed to extract host/owner/repo.
	ErrInvalidRemoteURL = errors.New("could not parse repository path from remote URL")

	// ErrRevisionNotFound indicates the revision does not resolve to a commit.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrFileNotFound indicates the file does not exist at the resolved commit.
	ErrFileNotFound = errors.New("file not found at revision")
)

// LocalGitRepository provides git context and revision lookups from a local checkout.
// The repository path and remote name are the only external inputs.
type LocalGitRepository interface {
	// GetGitContext extracts HEAD SHA, branch name, and the repository path
	// derived from the remote URL.
	// Returns ErrNoRemote if the remote is not configured.
	GetGitContext(ctx context.Context) (*GitContext, error)

	// ResolveRevision resolves a branch, tag or commit-like string to a
	// full 40-character commit SHA.
	// Returns ErrRevisionNotFound if nothing matches.
	ResolveRevision(ctx context.Context, rev string) (string, error)

	// HasFile reports whether path exists in the tree of the given commit.
	HasFile(ctx context.Context, commitID, path string) (bool, error)

	// Close releases any resources held by the repository.
	Close() error
}

// OutputWriter writes command results to an output destination.
type OutputWriter interface {
	// WriteLine writes a single value on its own line.
	WriteLine(value string) error

	// WriteJSON writes v as indented JSON.
	WriteJSON(v any) error
}

// Resolver turns a location in a local checkout into a repo URI.
type Resolver interface {
	Resolve(ctx context.Context, input ResolveInput) (*ResolveOutput, error)
}
