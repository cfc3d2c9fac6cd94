// Package router implements the client-side navigation table of the
// trending front-end.
//
// A Table is an ordered, immutable list of Routes. Each Route maps a URL
// pattern to a view and carries a unique name used for programmatic
// navigation:
//
//	table := router.MustTable(
//	    router.Route{Path: "/", Name: "HomePage", View: "Home"},
//	    router.Route{Path: "/player/:player_id", Name: "PlayerProfile", View: "PlayerProfile", Props: true},
//	)
//
// # Matching
//
// Match canonicalizes the URL (query and fragment are dropped, duplicate
// and trailing slashes are ignored), then scans the entries in declaration
// order. The first entry whose segments line up structurally wins:
//
//	m, ok := table.Match("/player/mike-trout")
//	// m.Route.Name == "PlayerProfile"
//	// m.Params["player_id"] == "mike-trout"
//
// A ":name" segment captures exactly one non-empty path segment,
// percent-decoded, as a raw string. Static segments compare with Unicode
// case folding. A URL that matches no entry is the not-found state; there is
// no implicit catch-all.
//
// # Props
//
// When a Route sets Props, the captured parameters are forwarded to the
// view as its inputs (Match.Props). DecodeProps fills a typed struct from
// them using `param` struct tags.
//
// # Programmatic navigation
//
// Table.URL builds the URL of a named route, and Navigator keeps a history
// stack of resolved navigations with push, replace, back and forward.
//
// # Middleware
//
// A Router wraps a Table with a middleware chain run around every
// resolution; the metrics and tracing middleware live in pkg/middleware.
package router
