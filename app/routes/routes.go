// Package routes declares the navigation table of the trending front-end.
package routes

import (
	"sync"

	"github.com/mlb-trending/trending/pkg/router"
)

// Route names, used for programmatic navigation.
const (
	HomePage      = "HomePage"
	PlayerProfile = "PlayerProfile"
)

// Views rendered by the routes.
const (
	HomeView          router.View = "Home"
	PlayerProfileView router.View = "PlayerProfile"
)

// PlayerIDParam is the path parameter of the player profile.
const PlayerIDParam = "player_id"

// PlayerProfileProps is the input of the player profile view. The id is the
// raw path segment; it is not required to be numeric.
type PlayerProfileProps struct {
	PlayerID string `param:"player_id"`
}

// Definitions returns the route entries in match order.
func Definitions() []router.Route {
	return []router.Route{
		{Path: "/", Name: HomePage, View: HomeView},
		{Path: "/player/:" + PlayerIDParam, Name: PlayerProfile, View: PlayerProfileView, Props: true},
	}
}

var (
	tableOnce sync.Once
	table     *router.Table
)

// Table returns the application route table. It is built on first use and
// shared afterwards.
func Table() *router.Table {
	tableOnce.Do(func() {
		table = router.MustTable(Definitions()...)
	})
	return table
}

// PlayerURL returns the profile URL of a player.
func PlayerURL(playerID string) (string, error) {
	return Table().URL(PlayerProfile, router.Params{PlayerIDParam: playerID})
}
