package router

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/mlb-trending/trending/internal/errors"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		Route{Path: "/", Name: "HomePage", View: "Home"},
		Route{Path: "/player/:player_id", Name: "PlayerProfile", View: "PlayerProfile", Props: true},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestTableMatch(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name       string
		url        string
		wantRoute  string
		wantParams Params
		wantOK     bool
	}{
		{name: "root", url: "/", wantRoute: "HomePage", wantParams: Params{}, wantOK: true},
		{name: "empty", url: "", wantRoute: "HomePage", wantParams: Params{}, wantOK: true},
		{name: "root with query", url: "/?date=2025-06-01", wantRoute: "HomePage", wantParams: Params{}, wantOK: true},
		{name: "numeric id", url: "/player/42", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "42"}, wantOK: true},
		{name: "slug id", url: "/player/mike-trout", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "mike-trout"}, wantOK: true},
		{name: "trailing slash", url: "/player/42/", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "42"}, wantOK: true},
		{name: "double slash", url: "//player//42", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "42"}, wantOK: true},
		{name: "fragment", url: "/player/42#splits", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "42"}, wantOK: true},
		{name: "case insensitive static", url: "/PLAYER/42", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "42"}, wantOK: true},
		{name: "param case kept", url: "/player/Mike-Trout", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "Mike-Trout"}, wantOK: true},
		{name: "escaped param", url: "/player/mike%20trout", wantRoute: "PlayerProfile", wantParams: Params{"player_id": "mike trout"}, wantOK: true},
		{name: "unknown", url: "/unknown", wantOK: false},
		{name: "missing id", url: "/player", wantOK: false},
		{name: "extra segment", url: "/player/42/games", wantOK: false},
		{name: "encoded slash in param", url: "/player/a%2Fb", wantOK: false},
		{name: "backslash", url: "/player\\42", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := table.Match(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if !ok {
				if m != nil {
					t.Errorf("Match(%q) returned a match on failure", tt.url)
				}
				return
			}
			if m.Route.Name != tt.wantRoute {
				t.Errorf("Route.Name = %q, want %q", m.Route.Name, tt.wantRoute)
			}
			if !reflect.DeepEqual(m.Params, tt.wantParams) {
				t.Errorf("Params = %v, want %v", m.Params, tt.wantParams)
			}
		})
	}
}

func TestTableMatchProps(t *testing.T) {
	table := testTable(t)

	home, ok := table.Match("/")
	if !ok {
		t.Fatal("expected match for /")
	}
	if home.Props != nil {
		t.Errorf("HomePage Props = %v, want nil", home.Props)
	}
	if len(home.Params) != 0 {
		t.Errorf("HomePage Params = %v, want none", home.Params)
	}

	profile, ok := table.Match("/player/42")
	if !ok {
		t.Fatal("expected match for /player/42")
	}
	if profile.Props["player_id"] != "42" {
		t.Errorf("Props[player_id] = %q, want %q", profile.Props["player_id"], "42")
	}

	// Props is a copy; mutating it must not leak into Params.
	profile.Props["player_id"] = "x"
	if profile.Params["player_id"] != "42" {
		t.Error("Props and Params share storage")
	}
}

func TestTableMatchWithoutProps(t *testing.T) {
	table := MustTable(Route{Path: "/team/:team", Name: "Team", View: "Team"})

	m, ok := table.Match("/team/sf")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Params["team"] != "sf" {
		t.Errorf("Params[team] = %q", m.Params["team"])
	}
	if m.Props != nil {
		t.Errorf("Props = %v, want nil when the route does not forward params", m.Props)
	}
}

func TestTableFirstMatchWins(t *testing.T) {
	table := MustTable(
		Route{Path: "/player/:id", Name: "ByID", View: "A"},
		Route{Path: "/player/leaders", Name: "Leaders", View: "B"},
	)

	m, ok := table.Match("/player/leaders")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Route.Name != "ByID" {
		t.Errorf("Route.Name = %q, want the first declared entry", m.Route.Name)
	}

	swapped := MustTable(
		Route{Path: "/player/leaders", Name: "Leaders", View: "B"},
		Route{Path: "/player/:id", Name: "ByID", View: "A"},
	)
	if m, _ := swapped.Match("/player/leaders"); m.Route.Name != "Leaders" {
		t.Errorf("Route.Name = %q, want Leaders", m.Route.Name)
	}
	if m, _ := swapped.Match("/player/7"); m.Route.Name != "ByID" {
		t.Errorf("Route.Name = %q, want ByID", m.Route.Name)
	}
}

func TestTableFind(t *testing.T) {
	table := testTable(t)

	_, err := table.Find("/unknown")
	if !errors.HasCode(err, errors.CodeRouteNotFound) {
		t.Errorf("Find(/unknown) err = %v, want %s", err, errors.CodeRouteNotFound)
	}

	_, err = table.Find("/../etc/passwd")
	if !errors.HasCode(err, errors.CodeInvalidPath) {
		t.Errorf("Find(/../etc/passwd) err = %v, want %s", err, errors.CodeInvalidPath)
	}

	_, err = table.Find("/player/a%2Fb")
	if !errors.HasCode(err, errors.CodeInvalidParam) {
		t.Errorf("Find(/player/a%%2Fb) err = %v, want %s", err, errors.CodeInvalidParam)
	}

	m, err := table.Find("/player/42?tab=games")
	if err != nil {
		t.Fatal(err)
	}
	if m.Location.Path != "/player/42" || m.Location.Query != "tab=games" {
		t.Errorf("Location = %+v", m.Location)
	}
}

func TestTableNamesUnique(t *testing.T) {
	table := testTable(t)

	seen := make(map[string]int)
	for _, r := range table.Routes() {
		seen[r.Name]++
	}
	for _, name := range []string{"HomePage", "PlayerProfile"} {
		if seen[name] != 1 {
			t.Errorf("%s appears %d times, want 1", name, seen[name])
		}
	}
	if len(seen) != table.Len() {
		t.Errorf("%d distinct names for %d routes", len(seen), table.Len())
	}
}

func TestTableRoutesIsCopy(t *testing.T) {
	table := testTable(t)
	routes := table.Routes()
	routes[0].Name = "Mutated"

	if r, _ := table.Lookup("HomePage"); r.Path != "/" {
		t.Error("Routes() exposed internal storage")
	}
	if table.Routes()[0].Name != "HomePage" {
		t.Error("Routes() exposed internal storage")
	}
}

func TestTableLookup(t *testing.T) {
	table := testTable(t)

	r, ok := table.Lookup("PlayerProfile")
	if !ok {
		t.Fatal("Lookup(PlayerProfile) not found")
	}
	if r.Path != "/player/:player_id" || !r.Props || r.View != "PlayerProfile" {
		t.Errorf("Lookup(PlayerProfile) = %+v", r)
	}
	if _, ok := table.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should fail")
	}

	params, ok := table.Params("PlayerProfile")
	if !ok || !reflect.DeepEqual(params, []string{"player_id"}) {
		t.Errorf("Params(PlayerProfile) = %v, %v", params, ok)
	}
	if params, _ := table.Params("HomePage"); len(params) != 0 {
		t.Errorf("Params(HomePage) = %v, want none", params)
	}
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name     string
		routes   []Route
		wantCode string
	}{
		{
			name:     "empty",
			routes:   nil,
			wantCode: errors.CodeEmptyTable,
		},
		{
			name: "duplicate name",
			routes: []Route{
				{Path: "/", Name: "HomePage"},
				{Path: "/home", Name: "HomePage"},
			},
			wantCode: errors.CodeDuplicateName,
		},
		{
			name: "duplicate pattern",
			routes: []Route{
				{Path: "/player/:player_id", Name: "A"},
				{Path: "/Player/:id", Name: "B"},
			},
			wantCode: errors.CodeDuplicatePattern,
		},
		{
			name:     "missing leading slash",
			routes:   []Route{{Path: "player/:id", Name: "A"}},
			wantCode: errors.CodeMalformedPattern,
		},
		{
			name:     "empty parameter name",
			routes:   []Route{{Path: "/player/:", Name: "A"}},
			wantCode: errors.CodeMalformedPattern,
		},
		{
			name:     "bad parameter name",
			routes:   []Route{{Path: "/player/:9id", Name: "A"}},
			wantCode: errors.CodeMalformedPattern,
		},
		{
			name:     "repeated parameter",
			routes:   []Route{{Path: "/cmp/:id/:id", Name: "A"}},
			wantCode: errors.CodeMalformedPattern,
		},
		{
			name:     "empty segment",
			routes:   []Route{{Path: "/player//:id", Name: "A"}},
			wantCode: errors.CodeMalformedPattern,
		},
		{
			name:     "missing name",
			routes:   []Route{{Path: "/"}},
			wantCode: errors.CodeMalformedPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.routes...)
			if err == nil {
				t.Fatal("expected error")
			}
			if table != nil {
				t.Error("table should be nil on error")
			}
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("err = %v, want code %s", err, tt.wantCode)
			}
			var verr *ValidationError
			if !stderrors.As(err, &verr) {
				t.Errorf("err is %T, want *ValidationError", err)
			}
		})
	}
}

func TestNewTableReportsAllProblems(t *testing.T) {
	_, err := NewTable(
		Route{Path: "/", Name: "A"},
		Route{Path: "/", Name: "A"},
		Route{Path: "bad", Name: "C"},
	)
	var verr *ValidationError
	if !stderrors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("got %d errors, want 3:\n%s", len(verr.Errors), verr.Error())
	}
}

func TestMustTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustTable should panic on invalid routes")
		}
	}()
	MustTable()
}
