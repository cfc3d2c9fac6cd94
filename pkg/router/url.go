package router

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/routepath"
)

// URL builds the path of the named route with params substituted. Every
// parameter of the pattern must be supplied with a non-empty value that does
// not contain '/' and is not "." or "..", which canonicalization would
// collapse into another path. Values are path-escaped; params the pattern
// does not declare are ignored.
func (t *Table) URL(name string, params Params) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", errors.New(errors.CodeUnknownRoute).
			WithDetailf("%q is not declared", name).
			WithSuggestion("Known routes: " + strings.Join(t.names(), ", "))
	}

	p := t.patterns[i]
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		if !s.isParam {
			b.WriteString(s.value)
			continue
		}

		value, ok := params[s.value]
		if !ok || value == "" {
			return "", errors.New(errors.CodeMissingParam).
				WithDetailf("%s needs :%s", name, s.value)
		}
		if strings.Contains(value, "/") {
			return "", errors.New(errors.CodeInvalidParam).
				WithDetailf(":%s = %q contains '/'", s.value, value)
		}
		if value == "." || value == ".." {
			return "", errors.New(errors.CodeInvalidParam).
				WithDetailf(":%s = %q is a dot segment", s.value, value)
		}
		b.WriteString(routepath.EncodeSegment(value))
	}
	return b.String(), nil
}

// URLWithQuery is URL with a query string appended. Keys are sorted.
func (t *Table) URLWithQuery(name string, params Params, query url.Values) (string, error) {
	u, err := t.URL(name, params)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return u, nil
	}
	return u + "?" + query.Encode(), nil
}

// names returns the declared route names, sorted.
func (t *Table) names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
