package router

import (
	"context"
	"log/slog"

	"github.com/mlb-trending/trending/internal/errors"
)

// Router resolves URLs against a Table, running a middleware chain around
// each resolution.
type Router struct {
	table      *Table
	middleware []Middleware
	logger     *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithMiddleware appends middleware to the resolution chain.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// WithLogger sets the router's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a router over table.
func NewRouter(table *Table, opts ...Option) *Router {
	r := &Router{table: table}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "router")
	}
	return r
}

// Table returns the router's table.
func (r *Router) Table() *Table {
	return r.table
}

// Use adds middleware to the chain. Call it before the router is shared
// between goroutines.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Resolve canonicalizes rawURL and finds the first matching route. Errors
// are coded (see Table.Find); middleware may add its own.
func (r *Router) Resolve(ctx context.Context, rawURL string) (*Match, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rc := &resolveCtx{ctx: ctx, path: rawURL}

	err := ComposeMiddleware(rc, r.middleware, func() error {
		m, err := r.table.Find(rawURL)
		if err != nil {
			return err
		}
		rc.match = m
		return nil
	})
	if err != nil {
		if errors.HasCode(err, errors.CodeRouteNotFound) {
			r.logger.Debug("route not found", "path", rawURL)
		} else {
			r.logger.Warn("resolve failed", "path", rawURL, "error", err)
		}
		return nil, err
	}

	r.logger.Debug("route resolved",
		"path", rawURL,
		"route", rc.match.Route.Name,
		"params", len(rc.match.Params))
	return rc.match, nil
}

// resolveCtx is the Ctx handed to middleware.
type resolveCtx struct {
	ctx   context.Context
	path  string
	match *Match
}

func (c *resolveCtx) Context() context.Context { return c.ctx }
func (c *resolveCtx) Path() string             { return c.path }
func (c *resolveCtx) Match() *Match            { return c.match }

func (c *resolveCtx) SetContext(ctx context.Context) {
	if ctx != nil {
		c.ctx = ctx
	}
}
