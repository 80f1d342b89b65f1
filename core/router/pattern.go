package router

import (
	"fmt"
	"net/url"
	"strings"
)

// SegmentKind classifies one slash-separated piece of a route pattern.
type SegmentKind uint8

const (
	// SegmentStatic matches its literal text exactly.
	SegmentStatic SegmentKind = iota
	// SegmentParam matches any single non-empty segment and captures it.
	SegmentParam
	// SegmentWildcard matches the rest of the path, slashes included.
	SegmentWildcard
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentParam:
		return "param"
	case SegmentWildcard:
		return "wildcard"
	default:
		return "static"
	}
}

// Segment is a single element of a parsed Pattern.
// Value holds the literal for static segments and the capture name otherwise.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Pattern is a parsed route pattern.
//
// Accepted syntax:
//
//	/users/:id        named parameter
//	/users/{id}       named parameter
//	/static/*path     named wildcard, must be last
//	/static/{path...} named wildcard, must be last
//	/static/*         wildcard captured as "*"
//
// Empty segments inside a pattern are collapsed; a trailing slash is kept and
// makes the pattern distinct from the same path without it.
type Pattern struct {
	raw      string
	segments []Segment
}

// ParsePattern validates and parses a route pattern.
func ParsePattern(raw string) (Pattern, error) {
	if raw == "" || raw[0] != '/' {
		return Pattern{}, fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, raw)
	}

	parts := splitPath(raw)
	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for i, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: %q", err, raw)
		}
		if seg.Kind == SegmentWildcard && i != len(parts)-1 {
			return Pattern{}, fmt.Errorf("%w: %q", ErrWildcardPosition, raw)
		}
		if seg.Kind != SegmentStatic {
			if _, dup := seen[seg.Value]; dup {
				return Pattern{}, fmt.Errorf("%w %q in %q", ErrDuplicateParam, seg.Value, raw)
			}
			seen[seg.Value] = struct{}{}
		}
		segments = append(segments, seg)
	}

	return Pattern{raw: raw, segments: segments}, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(raw string) Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(part string) (Segment, error) {
	switch {
	case part == "*":
		return Segment{Kind: SegmentWildcard, Value: "*"}, nil
	case strings.HasPrefix(part, "*"):
		return Segment{Kind: SegmentWildcard, Value: part[1:]}, nil
	case strings.HasPrefix(part, ":"):
		if len(part) == 1 {
			return Segment{}, fmt.Errorf("%w: empty parameter name", ErrInvalidPattern)
		}
		return Segment{Kind: SegmentParam, Value: part[1:]}, nil
	case strings.HasPrefix(part, "{"):
		if !strings.HasSuffix(part, "}") {
			return Segment{}, fmt.Errorf("%w: unclosed '{'", ErrInvalidPattern)
		}
		name := part[1 : len(part)-1]
		kind := SegmentParam
		if n, ok := strings.CutSuffix(name, "..."); ok {
			name, kind = n, SegmentWildcard
		}
		if name == "" || strings.ContainsAny(name, "{}") {
			return Segment{}, fmt.Errorf("%w: bad parameter name", ErrInvalidPattern)
		}
		return Segment{Kind: kind, Value: name}, nil
	default:
		if v, err := url.PathUnescape(part); err == nil {
			part = v
		}
		return Segment{Kind: SegmentStatic, Value: part}, nil
	}
}

// String returns the pattern as registered.
func (p Pattern) String() string { return p.raw }

// Segments returns a copy of the parsed segments.
func (p Pattern) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Params returns the capture names in order.
func (p Pattern) Params() []string {
	var names []string
	for _, s := range p.segments {
		if s.Kind != SegmentStatic {
			names = append(names, s.Value)
		}
	}
	return names
}

// canonical renders the pattern with uniform ':' and '*' syntax so that
// equivalent spellings compare equal.
func (p Pattern) canonical() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		switch s.Kind {
		case SegmentParam:
			b.WriteByte(':')
			b.WriteString(s.Value)
		case SegmentWildcard:
			b.WriteByte('*')
			if s.Value != "*" {
				b.WriteString(s.Value)
			}
		default:
			b.WriteString(s.Value)
		}
	}
	return b.String()
}

// splitPath splits a path into segments. Leading and repeated slashes are
// dropped; a trailing slash yields a final empty segment. "/" has no segments.
func splitPath(path string) []string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for i, p := range parts {
		if p == "" && i != len(parts)-1 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// joinPattern prefixes a route pattern with a mount prefix.
// A sub-route of "/" maps onto the prefix itself.
func joinPattern(prefix, pattern string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return pattern
	}
	if pattern == "/" || pattern == "" {
		return prefix
	}
	return prefix + pattern
}
