// Package domain defines the core value types, errors and ports for repouri.
package domain

import (
	"encoding/json"
	"fmt"
)

// Position is a 1-indexed point in a file.
// Character 0 means "start of line" and is also what an absent character
// decodes to.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// IsValid reports whether the position has a line. A position with a
// character but no line is meaningless and is treated as no position.
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Character >= 0
}

// Range is a 1-indexed span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range starts and ends at the same position.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid reports whether both endpoints are valid positions.
func (r Range) IsValid() bool {
	return r.Start.IsValid() && r.End.IsValid()
}

// ViewState selects a panel in the blob view. Known values are listed
// below, but any tag text found in a URL fragment is carried through.
type ViewState string

// Known blob view states.
const (
	ViewStateReferences         ViewState = "references"
	ViewStateReferencesExternal ViewState = "references:external"
	ViewStateDiscussions        ViewState = "discussions"
	ViewStateImpl               ViewState = "impl"
)

// IsKnown reports whether v is one of the view states the blob panel understands.
func (v ViewState) IsKnown() bool {
	switch v {
	case ViewStateReferences, ViewStateReferencesExternal, ViewStateDiscussions, ViewStateImpl:
		return true
	}
	return false
}

// RenderMode selects literal or rendered display of markup files.
type RenderMode string

// Render modes. RenderModeDefault leaves the choice to the file type
// (rendered for Markdown, code otherwise).
const (
	RenderModeDefault  RenderMode = ""
	RenderModeCode     RenderMode = "code"
	RenderModeRendered RenderMode = "rendered"
)

// ParseRenderMode converts a user-supplied string into a RenderMode.
func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(s) {
	case RenderModeDefault, RenderModeCode, RenderModeRendered:
		return RenderMode(s), nil
	}
	return RenderModeDefault, fmt.Errorf("%w: %q", ErrInvalidRenderMode, s)
}

// ParsedRepoURI is the structured form of a repo URI such as
// git://github.com/gorilla/mux?v1.8.0#mux.go:3,5-4,9, or of a pretty
// blob URL. Optional facets are left at their zero value when absent.
type ParsedRepoURI struct {
	// RepoPath is the host+path form, e.g. github.com/gorilla/mux.
	RepoPath string `json:"repoPath"`

	// Rev is a branch, tag or commit-like revision string.
	Rev string `json:"rev,omitempty"`

	// CommitID is the 40-character resolved commit SHA.
	CommitID string `json:"commitID,omitempty"`

	// FilePath is a path to a file or directory within the repository.
	FilePath string `json:"filePath,omitempty"`

	// CommitRange is a diff specifier such as "master...my-branch".
	CommitRange string `json:"commitRange,omitempty"`

	Position *Position `json:"position,omitempty"`
	Range    *Range    `json:"range,omitempty"`

	ViewState  ViewState  `json:"viewState,omitempty"`
	RenderMode RenderMode `json:"renderMode,omitempty"`
}

// Normalize returns a copy where invalid positions and ranges are dropped
// and Range takes precedence over Position when both are set.
func (p ParsedRepoURI) Normalize() ParsedRepoURI {
	if p.Range != nil {
		if !p.Range.IsValid() {
			p.Range = nil
		} else {
			r := *p.Range
			p.Range = &r
			p.Position = nil
		}
	}
	if p.Position != nil {
		if !p.Position.IsValid() {
			p.Position = nil
		} else {
			pos := *p.Position
			p.Position = &pos
		}
	}
	return p
}

// SpanKind identifies which of the allowed shapes a Span has.
type SpanKind int

// Span shapes. A range from a bare line to a character position, or the
// reverse, is not representable.
const (
	SpanNone SpanKind = iota
	SpanLine
	SpanPosition
	SpanLineRange
	SpanPositionRange
)

func (k SpanKind) String() string {
	switch k {
	case SpanLine:
		return "line"
	case SpanPosition:
		return "position"
	case SpanLineRange:
		return "line-range"
	case SpanPositionRange:
		return "position-range"
	default:
		return "none"
	}
}

// Span is a line, a position, a line range or a position range, as carried
// in URL fragments like "L17:19-21:23". Use NewSpan to build one.
type Span struct {
	kind         SpanKind
	line         int
	character    int
	endLine      int
	endCharacter int
}

// SpanBound is one endpoint of a span as read from text, before the shape
// is checked. HasCharacter distinguishes "L3" from "L3:0".
type SpanBound struct {
	Line         int
	Character    int
	HasCharacter bool
}

// NewSpan builds a span from an optional start and end, collapsing any
// inconsistent combination to the empty span.
func NewSpan(start, end *SpanBound) Span {
	if start == nil || start.Line < 1 {
		return Span{}
	}
	if end != nil && end.Line < 1 {
		return Span{}
	}
	switch {
	case end == nil && !start.HasCharacter:
		return Span{kind: SpanLine, line: start.Line}
	case end == nil:
		return Span{kind: SpanPosition, line: start.Line, character: start.Character}
	case start.HasCharacter != end.HasCharacter:
		return Span{}
	case !start.HasCharacter:
		return Span{kind: SpanLineRange, line: start.Line, endLine: end.Line}
	default:
		return Span{
			kind:         SpanPositionRange,
			line:         start.Line,
			character:    start.Character,
			endLine:      end.Line,
			endCharacter: end.Character,
		}
	}
}

// Kind returns the span's shape.
func (s Span) Kind() SpanKind { return s.kind }

// IsEmpty reports whether the span carries no line.
func (s Span) IsEmpty() bool { return s.kind == SpanNone }

// Line returns the 1-indexed start line, or 0 for an empty span.
func (s Span) Line() int { return s.line }

// Character returns the start character and whether the span has one.
func (s Span) Character() (int, bool) {
	return s.character, s.kind == SpanPosition || s.kind == SpanPositionRange
}

// EndLine returns the end line and whether the span is a range.
func (s Span) EndLine() (int, bool) {
	return s.endLine, s.kind == SpanLineRange || s.kind == SpanPositionRange
}

// EndCharacter returns the end character and whether the span has one.
func (s Span) EndCharacter() (int, bool) {
	return s.endCharacter, s.kind == SpanPositionRange
}

// Position converts a non-range span into a Position.
func (s Span) Position() (Position, bool) {
	if s.kind != SpanLine && s.kind != SpanPosition {
		return Position{}, false
	}
	return Position{Line: s.line, Character: s.character}, true
}

// Range converts a range span into a Range.
func (s Span) Range() (Range, bool) {
	if s.kind != SpanLineRange && s.kind != SpanPositionRange {
		return Range{}, false
	}
	return Range{
		Start: Position{Line: s.line, Character: s.character},
		End:   Position{Line: s.endLine, Character: s.endCharacter},
	}, true
}

// MarshalJSON emits only the fields present for the span's shape.
func (s Span) MarshalJSON() ([]byte, error) {
	out := map[string]int{}
	if s.kind != SpanNone {
		out["line"] = s.line
	}
	if c, ok := s.Character(); ok {
		out["character"] = c
	}
	if l, ok := s.EndLine(); ok {
		out["endLine"] = l
	}
	if c, ok := s.EndCharacter(); ok {
		out["endCharacter"] = c
	}
	return json.Marshal(out)
}

// HashState is the normalized result of parsing a blob URL fragment.
type HashState struct {
	Span      Span      `json:"span"`
	ViewState ViewState `json:"viewState,omitempty"`
}

// GitContext contains the information derived from a local checkout.
// This struct is populated by LocalGitRepository.GetGitContext().
type GitContext struct {
	// HeadSHA is the full 40-character commit SHA of HEAD.
	HeadSHA string

	// Branch is the current branch name (empty string if HEAD is detached).
	Branch string

	// RepoPath is the repository in host/owner/repo form, derived from the
	// configured remote URL.
	RepoPath string

	// IsDetached indicates if HEAD is detached (not on a branch).
	IsDetached bool
}

// ResolveInput describes a location in the local checkout to turn into a repo URI.
type ResolveInput struct {
	// Rev is the revision to pin. Defaults to the current branch, or to the
	// HEAD commit when HEAD is detached.
	Rev string

	// FilePath is relative to the repository root. Optional.
	FilePath string

	Position *Position
	Range    *Range

	ViewState  ViewState
	RenderMode RenderMode

	// VerifyFile makes resolution fail with ErrFileNotFound when FilePath
	// does not exist at the resolved commit.
	VerifyFile bool
}

// ResolveOutput is the result of resolving a location.
type ResolveOutput struct {
	// Location is the normalized descriptor.
	Location ParsedRepoURI `json:"location"`

	// URI is the canonical repo URI for Location.
	URI string `json:"uri"`

	// BlobURL is the pretty web URL, set only when a file path was given.
	BlobURL string `json:"blobURL,omitempty"`
}
