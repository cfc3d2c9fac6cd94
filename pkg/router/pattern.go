package router

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mlb-trending/trending/pkg/routepath"
)

// segment is one compiled piece of a route pattern.
type segment struct {
	// value is the static text, or the parameter name for param segments.
	value string

	// folded is the case-folded static text used for comparison.
	folded string

	// isParam indicates a ":name" segment.
	isParam bool
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments []segment
	params   []string
}

// compilePattern parses a route path into segments.
func compilePattern(path string) (*pattern, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, errMalformed(path, "pattern must start with '/'")
	}

	p := &pattern{raw: path}
	seen := make(map[string]bool)
	for _, seg := range splitPath(path) {
		if seg == "" {
			return nil, errMalformed(path, "empty segment")
		}
		if !strings.HasPrefix(seg, ":") {
			p.segments = append(p.segments, segment{value: seg, folded: fold(seg)})
			continue
		}

		name := seg[1:]
		if !validParamName(name) {
			return nil, errMalformed(path, "invalid parameter name "+strings.TrimSpace(seg))
		}
		if seen[name] {
			return nil, errMalformed(path, "parameter :"+name+" appears twice")
		}
		seen[name] = true
		p.segments = append(p.segments, segment{value: name, isParam: true})
		p.params = append(p.params, name)
	}
	return p, nil
}

// shape returns the structural key of the pattern: static segments folded,
// parameters reduced to ":". Two patterns with the same shape match exactly
// the same URLs.
func (p *pattern) shape() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		if s.isParam {
			b.WriteByte(':')
		} else {
			b.WriteString(s.folded)
		}
	}
	return b.String()
}

// match reports whether the raw (escaped) path segments line up with the
// pattern and returns the captured parameters. The error is non-nil only for
// a structural match whose parameter cannot be decoded.
func (p *pattern) match(segs []string) (Params, bool, error) {
	if len(segs) != len(p.segments) {
		return nil, false, nil
	}

	for i, s := range p.segments {
		if s.isParam {
			continue
		}
		decoded, err := url.PathUnescape(segs[i])
		if err != nil || fold(decoded) != s.folded {
			return nil, false, nil
		}
	}

	params := make(Params, len(p.params))
	for i, s := range p.segments {
		if !s.isParam {
			continue
		}
		value, err := routepath.DecodeSegment(segs[i])
		if err != nil {
			return nil, true, err
		}
		params[s.value] = value
	}
	return params, true, nil
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// validParamName reports whether name is an identifier: a letter or
// underscore followed by letters, digits or underscores.
func validParamName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// fold applies Unicode case folding. A Caser keeps state, so each call gets
// its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
