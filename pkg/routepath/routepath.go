// Package routepath normalizes navigation URLs before they reach the route table.
//
// Browsers hand the router whatever the address bar holds: duplicate slashes,
// dot segments, trailing slashes, a query string and a fragment. Matching only
// ever looks at the canonical path, so every entry point (HTTP shell,
// websocket channel, CLI, Navigator) runs input through Canonicalize first.
package routepath

import (
	"errors"
	"strings"
)

// Canonicalization errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in path parameter")
)

// Location is a canonical navigation target.
type Location struct {
	// Path is the canonical path, always starting with "/" and never ending
	// with one unless it is the root.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Fragment is the raw fragment without the leading "#".
	Fragment string

	// Changed reports whether Path differs from the path as given.
	Changed bool
}

// Segments returns the raw (still escaped) segments of the path.
// The root path has no segments.
func (l Location) Segments() []string {
	trimmed := strings.TrimPrefix(l.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// String rebuilds the location as a relative URL.
func (l Location) String() string {
	s := l.Path
	if l.Query != "" {
		s += "?" + l.Query
	}
	if l.Fragment != "" {
		s += "#" + l.Fragment
	}
	return s
}

// Canonicalize normalizes a relative URL:
//   - the fragment and query are split off and kept verbatim
//   - repeated slashes collapse (/player//42 → /player/42)
//   - "." segments are dropped and ".." segments pop their parent
//   - a trailing slash is removed, except for the root
//
// It rejects backslashes, NUL bytes (literal or %00), malformed percent
// escapes and ".." segments that would climb above the root.
func Canonicalize(raw string) (Location, error) {
	rest, fragment, _ := strings.Cut(raw, "#")
	path, query, _ := strings.Cut(rest, "?")

	loc := Location{Query: query, Fragment: fragment}
	if path == "" {
		loc.Path = "/"
		loc.Changed = true
		return loc, nil
	}

	if strings.Contains(path, "\\") {
		return Location{}, ErrBackslashInPath
	}
	if strings.IndexByte(path, 0) != -1 || strings.Contains(strings.ToUpper(path), "%00") {
		return Location{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Location{}, err
		}
	}

	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return Location{}, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	loc.Path = "/" + strings.Join(out, "/")
	loc.Changed = loc.Path != path
	return loc, nil
}

// CanonicalizeNav canonicalizes a programmatic navigation target. Only
// same-origin relative URLs are accepted: absolute URLs ("http://",
// "https://") and protocol-relative ones ("//host") are rejected so a
// navigation can never leave the application.
func CanonicalizeNav(raw string) (Location, error) {
	if strings.HasPrefix(raw, "http://") ||
		strings.HasPrefix(raw, "https://") ||
		strings.HasPrefix(raw, "//") ||
		!strings.HasPrefix(raw, "/") {
		return Location{}, ErrInvalidPath
	}
	return Canonicalize(raw)
}

// validatePercentEscapes checks that every '%' starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
