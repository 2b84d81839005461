package repouri

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MyCarrier-DevOps/repouri/internal/domain"
)

// spanPattern is the grammar for "L<line>[:<char>][-<endLine>[:<endChar>]]".
// The empty string matches and yields an empty span.
var spanPattern = regexp.MustCompile(
	`^(?:L(?P<line>[0-9]+)(?::(?P<char>[0-9]+))?(?:-(?P<endLine>[0-9]+)(?::(?P<endChar>[0-9]+))?)?)?$`,
)

// legacyFragmentPattern validates fragments like "L17:19-21:23$references:external".
var legacyFragmentPattern = regexp.MustCompile(
	`^(L[0-9]+(:[0-9]+)?(-[0-9]+(:[0-9]+)?)?)?(\$.*)?$`,
)

// legacyViewStateMarkers are the view-state suffixes that identify the
// pre-"&tab=" fragment encoding.
var legacyViewStateMarkers = []string{
	"$info",
	"$def",
	"$references",
	"$references:external",
	"$impl",
	"$history",
}

// fragmentForm is the encoding a fragment was written in.
type fragmentForm int

const (
	modernFragment fragmentForm = iota // L17:19-21:23&tab=references
	legacyFragment                     // L17:19-21:23$references
)

func classifyFragment(hash string) fragmentForm {
	if IsLegacyFragment(hash) {
		return legacyFragment
	}
	return modernFragment
}

// IsLegacyFragment reports whether hash uses the legacy "$viewState" encoding.
func IsLegacyFragment(hash string) bool {
	hash = strings.TrimPrefix(hash, "#")
	if hash == "" || strings.Contains(hash, "=") {
		return false
	}
	for _, marker := range legacyViewStateMarkers {
		if strings.Contains(hash, marker) {
			return true
		}
	}
	return false
}

// ParseHash parses a blob URL fragment such as "#L17:19-21:23&tab=foo:bar"
// or the legacy "#L17:19-21:23$foo:bar". Malformed input yields an empty
// HashState rather than an error so that old and new URLs keep working.
func ParseHash(hash string) domain.HashState {
	hash = strings.TrimPrefix(hash, "#")
	switch classifyFragment(hash) {
	case legacyFragment:
		return parseLegacyHash(hash)
	default:
		return parseModernHash(hash)
	}
}

func parseModernHash(hash string) domain.HashState {
	var state domain.HashState
	params := parseFragmentParams(hash)

	// Only the first parameter may carry the line.
	if len(params) > 0 && strings.HasPrefix(params[0].key, "L") {
		state.Span = ParseSpan(params[0].key)
	}
	for _, p := range params {
		if p.key == "tab" {
			if p.value != "" {
				state.ViewState = domain.ViewState(p.value)
			}
			break
		}
	}
	return state
}

func parseLegacyHash(hash string) domain.HashState {
	if !legacyFragmentPattern.MatchString(hash) {
		return domain.HashState{}
	}
	spanText, viewState, _ := strings.Cut(hash, "$")
	return domain.HashState{
		Span:      ParseSpan(spanText),
		ViewState: domain.ViewState(viewState),
	}
}

type fragmentParam struct {
	key   string
	value string
}

// parseFragmentParams splits hash into ordered key/value pairs the way
// browsers parse application/x-www-form-urlencoded data: empty pairs are
// skipped, '+' is a space, and undecodable escapes are kept literally.
func parseFragmentParams(hash string) []fragmentParam {
	var params []fragmentParam
	for _, pair := range strings.Split(hash, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		params = append(params, fragmentParam{key: formDecode(key), value: formDecode(value)})
	}
	return params
}

func formDecode(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return decoded
}

// ParseSpan parses "L1", "L1:2", "L1-3" or "L1:2-3:4". Anything else,
// including a range between a line and a position ("L1-2:3"), yields an
// empty span.
func ParseSpan(s string) domain.Span {
	m := spanPattern.FindStringSubmatch(s)
	if m == nil {
		return domain.Span{}
	}
	group := func(name string) string {
		return m[spanPattern.SubexpIndex(name)]
	}

	start, ok := spanBound(group("line"), group("char"))
	if !ok {
		return domain.Span{}
	}
	end, ok := spanBound(group("endLine"), group("endChar"))
	if !ok {
		return domain.Span{}
	}
	return domain.NewSpan(start, end)
}

// spanBound converts matched digits into a bound. It returns nil for an
// absent bound and false when a number does not fit in an int.
func spanBound(lineText, charText string) (*domain.SpanBound, bool) {
	if lineText == "" {
		return nil, true
	}
	line, err := strconv.Atoi(lineText)
	if err != nil {
		return nil, false
	}
	bound := &domain.SpanBound{Line: line}
	if charText != "" {
		character, err := strconv.Atoi(charText)
		if err != nil {
			return nil, false
		}
		bound.Character = character
		bound.HasCharacter = true
	}
	return bound, true
}

// ToPositionOrRangeHash renders "#L3", "#L3:5" or "#L3:5-4:9". A range whose
// start equals its end collapses to the single-position form, and range wins
// over position. Character 0 is written as if absent, so "#L3:0" never comes
// out of this function.
func ToPositionOrRangeHash(pos *domain.Position, rng *domain.Range) string {
	if rng != nil && rng.IsValid() {
		if rng.IsEmpty() {
			return "#L" + ToPositionHashComponent(rng.Start)
		}
		return "#L" + ToPositionHashComponent(rng.Start) + "-" + ToPositionHashComponent(rng.End)
	}
	if pos != nil && pos.IsValid() {
		return "#L" + ToPositionHashComponent(*pos)
	}
	return ""
}

// ToPositionHashComponent renders "line" or "line:character".
func ToPositionHashComponent(pos domain.Position) string {
	s := strconv.Itoa(pos.Line)
	if pos.Character != 0 {
		s += ":" + strconv.Itoa(pos.Character)
	}
	return s
}

// ToViewStateHashComponent renders "&tab=<viewState>", or "" when unset.
func ToViewStateHashComponent(viewState domain.ViewState) string {
	if viewState == "" {
		return ""
	}
	return "&tab=" + string(viewState)
}

// ToSpanHash renders a parsed span back into fragment form, keeping an
// explicit ":0" character that ToPositionOrRangeHash would drop.
func ToSpanHash(span domain.Span) string {
	if span.IsEmpty() {
		return ""
	}
	s := "#L" + strconv.Itoa(span.Line())
	if c, ok := span.Character(); ok {
		s += ":" + strconv.Itoa(c)
	}
	if l, ok := span.EndLine(); ok {
		s += "-" + strconv.Itoa(l)
	}
	if c, ok := span.EndCharacter(); ok {
		s += ":" + strconv.Itoa(c)
	}
	return s
}
