package router

import (
	"fmt"
	"strings"

	"github.com/mlb-trending/trending/internal/errors"
)

// ValidationError lists every problem found while building a table.
type ValidationError struct {
	Errors []*errors.Error
}

func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no route table errors"
	case 1:
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route table errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is/As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err
	}
	return out
}

// validator checks a candidate list of routes.
type validator struct {
	errs []*errors.Error
}

func (v *validator) add(err *errors.Error) {
	v.errs = append(v.errs, err)
}

// compile validates routes and compiles their patterns. It keeps going
// after the first problem so one run reports everything.
func (v *validator) compile(routes []Route) []*pattern {
	if len(routes) == 0 {
		v.add(errors.New(errors.CodeEmptyTable))
		return nil
	}

	compiled := make([]*pattern, len(routes))
	names := make(map[string]string)
	shapes := make(map[string]int)

	for i, r := range routes {
		if strings.TrimSpace(r.Name) == "" {
			v.add(errors.New(errors.CodeMalformedPattern).
				WithDetailf("route %s has no name", r.Path).
				WithSuggestion("Give every route a unique Name"))
		} else if prev, dup := names[r.Name]; dup {
			v.add(errors.New(errors.CodeDuplicateName).
				WithDetailf("%q is declared by %s and %s", r.Name, prev, r.Path))
		} else {
			names[r.Name] = r.Path
		}

		p, err := compilePattern(r.Path)
		if err != nil {
			v.add(errors.FromError(err, errors.CodeMalformedPattern))
			continue
		}
		compiled[i] = p

		shape := p.shape()
		if j, dup := shapes[shape]; dup {
			v.add(errors.New(errors.CodeDuplicatePattern).
				WithDetailf("%s (%s) matches the same URLs as %s (%s)", r.Path, r.Name, routes[j].Path, routes[j].Name).
				WithSuggestion("Remove one of the entries or make their static segments differ"))
			continue
		}
		shapes[shape] = i
	}
	return compiled
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}

func errMalformed(path, detail string) *errors.Error {
	return errors.New(errors.CodeMalformedPattern).WithDetailf("%s: %s", path, detail)
}
