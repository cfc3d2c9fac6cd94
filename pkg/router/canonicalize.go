package router

import (
	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/routepath"
)

// canonicalizeNav wraps routepath.CanonicalizeNav errors in a coded error.
func canonicalizeNav(rawURL string) (routepath.Location, error) {
	loc, err := routepath.CanonicalizeNav(rawURL)
	if err != nil {
		return routepath.Location{}, errors.New(errors.CodeInvalidPath).
			WithDetail(rawURL).
			WithSuggestion("Navigate with a path relative to the application root, e.g. /player/42").
			Wrap(err)
	}
	return loc, nil
}
