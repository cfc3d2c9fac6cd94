package router

import (
	"context"

	"github.com/mlb-trending/trending/pkg/routepath"
)

// View identifies the view a route renders. The rendering engine maps it to
// an actual component.
type View string

// Route is one entry of a route table.
type Route struct {
	// Path is the URL pattern, e.g. "/player/:player_id".
	Path string `json:"path"`

	// Name is the unique symbolic identifier used for programmatic navigation.
	Name string `json:"name"`

	// View is the view rendered when the route matches.
	View View `json:"view"`

	// Props forwards the matched path parameters to the view as inputs.
	Props bool `json:"props"`
}

// Params holds path parameters keyed by name, without the leading ':'.
type Params map[string]string

// Clone returns a copy of p. A nil map clones to nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Match is the result of resolving a URL against a table.
type Match struct {
	// Route is the matched entry.
	Route Route `json:"route"`

	// Params are the captured path parameters. Empty, never nil, for routes
	// without parameters.
	Params Params `json:"params"`

	// Props are the inputs forwarded to the view: a copy of Params when
	// Route.Props is set, nil otherwise.
	Props Params `json:"props,omitempty"`

	// Location is the canonical form of the resolved URL.
	Location routepath.Location `json:"-"`
}

// Ctx is what middleware sees of a resolution in progress.
type Ctx interface {
	// Context returns the context the resolution runs under.
	Context() context.Context

	// SetContext replaces the context seen by middleware further down the
	// chain, e.g. one carrying a span.
	SetContext(ctx context.Context)

	// Path returns the URL as it was handed to the router.
	Path() string

	// Match returns the resolved match. It is nil before next() returns and
	// when resolution failed.
	Match() *Match
}

// Middleware processes a resolution before and after it happens.
type Middleware interface {
	// Handle runs around the resolution and must call next exactly once,
	// unless it wants to abort with an error.
	Handle(ctx Ctx, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx Ctx, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx Ctx, next func() error) error {
	return f(ctx, next)
}
