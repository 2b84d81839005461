// Package repouri encodes and decodes repo URIs, blob URL fragments and
// pretty blob URLs.
//
// A repo URI identifies a repository resource:
//
//	git://github.com/gorilla/mux                       the repository
//	git://github.com/gorilla/mux?rev                   the repository at a revision
//	git://github.com/gorilla/mux?SHA#path/to/file.go   a file at an immutable revision
//	git://github.com/gorilla/mux?SHA#file.go:3         a line
//	git://github.com/gorilla/mux?SHA#file.go:3,5       a character position
//	git://github.com/gorilla/mux?SHA#file.go:3,5-4,9   a range
//
// All functions are pure and safe for concurrent use.
package repouri

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
)

// Scheme is the scheme MakeRepoURI writes.
const Scheme = "git"

var commitIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// IsCommitID reports whether rev is a full 40-character commit SHA.
func IsCommitID(rev string) bool {
	return commitIDPattern.MatchString(rev)
}

// ParseRepoURI parses a repo URI like git://github.com/gorilla/mux?v1.8.0#mux.go:3,5.
func ParseRepoURI(uri string) (domain.ParsedRepoURI, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return domain.ParsedRepoURI{}, fmt.Errorf("%w: %w", domain.ErrInvalidRepoURI, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return domain.ParsedRepoURI{}, fmt.Errorf("%w: %s", domain.ErrInvalidRepoURI, uri)
	}

	parsed := domain.ParsedRepoURI{
		RepoPath: u.Hostname() + u.Path,
		Rev:      u.RawQuery,
	}
	if IsCommitID(parsed.Rev) {
		parsed.CommitID = parsed.Rev
	}

	// Split the escaped form so an encoded ':' stays part of the file path.
	fragment := u.EscapedFragment()
	if fragment == "" {
		return parsed, nil
	}
	parts := strings.Split(fragment, ":")
	if len(parts) > 2 {
		return domain.ParsedRepoURI{}, fmt.Errorf("%w: #%s", domain.ErrInvalidFragment, fragment)
	}

	filePath, err := url.PathUnescape(parts[0])
	if err != nil {
		return domain.ParsedRepoURI{}, fmt.Errorf("%w: %w", domain.ErrInvalidFragment, err)
	}
	parsed.FilePath = filePath

	if len(parts) == 2 {
		pos, rng, err := ParseRangeOrPosition(parts[1])
		if err != nil {
			return domain.ParsedRepoURI{}, err
		}
		parsed.Position = pos
		parsed.Range = rng
	}
	return parsed, nil
}

// ParseRangeOrPosition parses "3", "3,5" or "3,5-4,9". Exactly one of the
// returned position and range is non-nil on success.
func ParseRangeOrPosition(s string) (*domain.Position, *domain.Range, error) {
	parts := strings.Split(s, "-")
	switch len(parts) {
	case 1:
		pos, err := ParsePosition(parts[0])
		if err != nil {
			return nil, nil, err
		}
		return &pos, nil, nil
	case 2:
		start, err := ParsePosition(parts[0])
		if err != nil {
			return nil, nil, err
		}
		end, err := ParsePosition(parts[1])
		if err != nil {
			return nil, nil, err
		}
		return nil, &domain.Range{Start: start, End: end}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidRangeOrPosition, s)
	}
}

// ParsePosition parses "line" or "line,character". A bare line has character 0.
func ParsePosition(s string) (domain.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return domain.Position{}, fmt.Errorf("%w: %s", domain.ErrInvalidPosition, s)
	}

	line, ok := parseDigits(parts[0])
	if !ok || line < 1 {
		return domain.Position{}, fmt.Errorf("%w: %s", domain.ErrInvalidPosition, s)
	}
	pos := domain.Position{Line: line}

	if len(parts) == 2 {
		character, ok := parseDigits(parts[1])
		if !ok {
			return domain.Position{}, fmt.Errorf("%w: %s", domain.ErrInvalidPosition, s)
		}
		pos.Character = character
	}
	return pos, nil
}

// parseDigits converts an unsigned decimal number. strconv.Atoi alone would
// also accept a leading sign.
func parseDigits(s string) (int, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// filePathEscaper escapes the characters that would otherwise end the file
// path inside a repo URI fragment, mirroring the unescape in ParseRepoURI.
var filePathEscaper = strings.NewReplacer("%", "%25", ":", "%3A", "#", "%23")

// MakeRepoURI is the inverse of ParseRepoURI.
// CommitID wins over Rev, and Range wins over Position.
func MakeRepoURI(parsed domain.ParsedRepoURI) string {
	parsed = parsed.Normalize()

	var b strings.Builder
	b.WriteString(Scheme + "://")
	b.WriteString(parsed.RepoPath)

	rev := parsed.CommitID
	if rev == "" {
		rev = parsed.Rev
	}
	if rev != "" {
		b.WriteString("?" + rev)
	}
	if parsed.FilePath != "" {
		b.WriteString("#" + filePathEscaper.Replace(parsed.FilePath))
	}

	switch {
	case parsed.Range != nil:
		b.WriteString(":" + positionString(parsed.Range.Start) + "-" + positionString(parsed.Range.End))
	case parsed.Position != nil:
		b.WriteString(":" + positionString(*parsed.Position))
	}
	return b.String()
}

// FormatRangeOrPosition renders a position or range in the repo URI form
// ("3,5" or "3,5-4,9"). Range wins over position.
func FormatRangeOrPosition(pos *domain.Position, rng *domain.Range) string {
	switch {
	case rng != nil:
		return positionString(rng.Start) + "-" + positionString(rng.End)
	case pos != nil:
		return positionString(*pos)
	}
	return ""
}

func positionString(pos domain.Position) string {
	s := strconv.Itoa(pos.Line)
	if pos.Character != 0 {
		s += "," + strconv.Itoa(pos.Character)
	}
	return s
}

// ParseCommitRange splits a comparison specifier like "master...my-branch".
// Either side may be empty.
func ParseCommitRange(commitRange string) (base, head string, err error) {
	base, head, ok := strings.Cut(commitRange, "...")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domain.ErrInvalidCommitRange, commitRange)
	}
	return base, head, nil
}
