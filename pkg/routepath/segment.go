package routepath

import (
	"net/url"
	"strings"
)

// DecodeSegment percent-decodes a single path segment captured by a
// parameter. A decoded "/" is rejected: a parameter spans exactly one
// segment, and an encoded slash would smuggle a second one into it.
func DecodeSegment(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// EncodeSegment escapes a parameter value for use as a single path segment.
func EncodeSegment(value string) string {
	return url.PathEscape(value)
}
