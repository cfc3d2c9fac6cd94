package router

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlb-trending/trending/internal/errors"
)

// NavigateOptions configures a single navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is appended to the URL.
	Query url.Values

	// Fragment is appended to the URL after '#'.
	Fragment string
}

// NavigateOption is a functional option for navigation.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation URL.
func WithQuery(q url.Values) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = q
	}
}

// WithFragment sets the fragment of the navigation URL.
func WithFragment(fragment string) NavigateOption {
	return func(o *NavigateOptions) {
		o.Fragment = fragment
	}
}

// Entry is one resolved position in the navigation history.
type Entry struct {
	ID    string    `json:"id"`
	URL   string    `json:"url"`
	Match *Match    `json:"match"`
	At    time.Time `json:"at"`
}

// Navigator performs programmatic navigation against a Router and keeps a
// browser-like history stack. A failed navigation leaves the history
// untouched. Navigator is safe for concurrent use.
type Navigator struct {
	router *Router

	mu        sync.Mutex
	history   []Entry
	index     int
	listeners map[int]func(Entry)
	nextID    int
}

// NewNavigator creates a navigator with an empty history.
func NewNavigator(r *Router) *Navigator {
	return &Navigator{
		router:    r,
		index:     -1,
		listeners: make(map[int]func(Entry)),
	}
}

// Router returns the router navigations resolve against.
func (n *Navigator) Router() *Router {
	return n.router
}

// Push navigates to the named route.
func (n *Navigator) Push(ctx context.Context, name string, params Params, opts ...NavigateOption) (Entry, error) {
	path, err := n.router.Table().URL(name, params)
	if err != nil {
		return Entry{}, err
	}
	return n.navigate(ctx, path, opts)
}

// Navigate navigates to a relative URL. Absolute and protocol-relative URLs
// are rejected.
func (n *Navigator) Navigate(ctx context.Context, rawURL string, opts ...NavigateOption) (Entry, error) {
	return n.navigate(ctx, rawURL, opts)
}

func (n *Navigator) navigate(ctx context.Context, rawURL string, opts []NavigateOption) (Entry, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	target, err := buildTarget(rawURL, options)
	if err != nil {
		return Entry{}, err
	}

	m, err := n.router.Resolve(ctx, target)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:    uuid.NewString(),
		URL:   m.Location.String(),
		Match: m,
		At:    time.Now(),
	}

	n.mu.Lock()
	if options.Replace && n.index >= 0 {
		n.history[n.index] = entry
	} else {
		// Pushing drops any forward entries, like a browser.
		n.history = append(n.history[:n.index+1], entry)
		n.index++
	}
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	notify(listeners, entry)
	return entry, nil
}

// Back moves one entry back. It reports false at the start of history.
func (n *Navigator) Back() (Entry, bool) {
	return n.Go(-1)
}

// Forward moves one entry forward. It reports false at the end of history.
func (n *Navigator) Forward() (Entry, bool) {
	return n.Go(1)
}

// Go moves delta entries through history. It reports false, without
// moving, when the target position does not exist.
func (n *Navigator) Go(delta int) (Entry, bool) {
	n.mu.Lock()
	target := n.index + delta
	if delta == 0 || target < 0 || target >= len(n.history) {
		n.mu.Unlock()
		return Entry{}, false
	}
	n.index = target
	entry := n.history[target]
	listeners := n.snapshotListeners()
	n.mu.Unlock()

	notify(listeners, entry)
	return entry, true
}

// Current returns the current entry.
func (n *Navigator) Current() (Entry, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index < 0 {
		return Entry{}, false
	}
	return n.history[n.index], true
}

// Len returns the number of history entries.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.history)
}

// OnNavigate registers fn to be called after every successful navigation,
// including Back/Forward. It returns a function that unregisters fn.
func (n *Navigator) OnNavigate(fn func(Entry)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// snapshotListeners must be called with n.mu held.
func (n *Navigator) snapshotListeners() []func(Entry) {
	out := make([]func(Entry), 0, len(n.listeners))
	for i := 0; i < n.nextID; i++ {
		if fn, ok := n.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []func(Entry), entry Entry) {
	for _, fn := range listeners {
		fn(entry)
	}
}

// buildTarget validates rawURL as a same-origin navigation and applies the
// query and fragment options.
func buildTarget(rawURL string, o NavigateOptions) (string, error) {
	loc, err := canonicalizeNav(rawURL)
	if err != nil {
		return "", err
	}
	if len(o.Query) > 0 {
		q, err := url.ParseQuery(loc.Query)
		if err != nil {
			return "", errors.New(errors.CodeInvalidPath).
				WithDetailf("query of %s", rawURL).
				Wrap(err)
		}
		for k, vs := range o.Query {
			q[k] = vs
		}
		loc.Query = q.Encode()
	}
	if o.Fragment != "" {
		loc.Fragment = o.Fragment
	}
	return loc.String(), nil
}
