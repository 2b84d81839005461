package repouri

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
)

const upperHex = "0123456789ABCDEF"

// EscapeRevspecForURL percent-encodes rev like JavaScript's
// encodeURIComponent, except that '/' is kept. Branch names with slashes
// read better unescaped and are not ambiguous where this is used.
func EscapeRevspecForURL(rev string) string {
	var b strings.Builder
	b.Grow(len(rev))
	for i := 0; i < len(rev); i++ {
		c := rev[i]
		if c == '/' || isURIComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// isURIComponentSafe reports whether encodeURIComponent leaves c alone.
func isURIComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// EncodeRepoRev encodes a repository at a revision for use in a URL path,
// e.g. "github.com/gorilla/mux@feature/x".
func EncodeRepoRev(repoPath, rev string) string {
	if rev == "" {
		return repoPath
	}
	return repoPath + "@" + EscapeRevspecForURL(rev)
}

// ToPrettyBlobURL builds the web URL path for a file, e.g.
// /github.com/gorilla/mux@v1.8.0/-/blob/mux.go#L3:5-4:9&tab=references.
func ToPrettyBlobURL(loc domain.ParsedRepoURI) string {
	loc = loc.Normalize()

	var b strings.Builder
	b.WriteString("/" + EncodeRepoRev(loc.RepoPath, loc.Rev))
	b.WriteString("/-/blob/" + loc.FilePath)
	b.WriteString(toRenderModeQuery(loc.RenderMode))

	hash := ToPositionOrRangeHash(loc.Position, loc.Range)
	b.WriteString(hash)
	if loc.ViewState != "" {
		if hash == "" {
			// Keep the tab in the fragment when there is no line to attach it to.
			b.WriteString("#tab=" + string(loc.ViewState))
		} else {
			b.WriteString(ToViewStateHashComponent(loc.ViewState))
		}
	}
	return b.String()
}

func toRenderModeQuery(mode domain.RenderMode) string {
	if mode == domain.RenderModeCode {
		return "?view=code"
	}
	return ""
}

// blobSeparator splits the repo@rev part from the file path in blob URLs.
const blobSeparator = "/-/blob/"

// ParseBlobURL is the inverse of ToPrettyBlobURL. It accepts either a bare
// path or an absolute URL whose path has the blob form.
func ParseBlobURL(rawURL string) (domain.ParsedRepoURI, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.ParsedRepoURI{}, fmt.Errorf("%w: %w", domain.ErrInvalidRepoURI, err)
	}

	repoRev, filePath, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), blobSeparator)
	if !ok || repoRev == "" {
		return domain.ParsedRepoURI{}, fmt.Errorf("%w: not a blob URL: %s", domain.ErrInvalidRepoURI, rawURL)
	}

	loc := domain.ParsedRepoURI{FilePath: filePath}
	loc.RepoPath, loc.Rev, _ = strings.Cut(repoRev, "@")
	if IsCommitID(loc.Rev) {
		loc.CommitID = loc.Rev
	}

	if view := u.Query().Get("view"); view != "" {
		mode, err := domain.ParseRenderMode(view)
		if err != nil {
			return domain.ParsedRepoURI{}, err
		}
		loc.RenderMode = mode
	}

	state := ParseHash(u.EscapedFragment())
	if pos, ok := state.Span.Position(); ok {
		loc.Position = &pos
	}
	if rng, ok := state.Span.Range(); ok {
		loc.Range = &rng
	}
	loc.ViewState = state.ViewState
	return loc, nil
}
