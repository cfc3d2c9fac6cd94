// Package errors provides structured, coded errors for the trending front-end.
//
// Every failure the router, the configuration loader, the CLI or the HTTP
// shell reports to a person carries a stable code (e.g. "E100") that maps to:
//   - a category (routing, config, cli, server)
//   - a short message
//   - a longer explanation
//
// # Usage
//
//	err := errors.New("E100").
//	    WithDetail("No route matches /unknown").
//	    WithSuggestion("Check the path against `trending routes`")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E100: Route not found
//	//
//	//   No route matches /unknown
//	//
//	//   Hint: Check the path against `trending routes`
package errors
