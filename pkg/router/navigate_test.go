package router

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/mlb-trending/trending/internal/errors"
)

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	return NewNavigator(NewRouter(testTable(t)))
}

func TestNavigatorPush(t *testing.T) {
	nav := newTestNavigator(t)
	ctx := context.Background()

	if _, ok := nav.Current(); ok {
		t.Fatal("new navigator should have no current entry")
	}

	home, err := nav.Push(ctx, "HomePage", nil)
	if err != nil {
		t.Fatal(err)
	}
	if home.URL != "/" || home.Match.Route.Name != "HomePage" {
		t.Errorf("home entry = %+v", home)
	}
	if home.ID == "" {
		t.Error("entry ID should be set")
	}

	profile, err := nav.Push(ctx, "PlayerProfile", Params{"player_id": "42"})
	if err != nil {
		t.Fatal(err)
	}
	if profile.URL != "/player/42" {
		t.Errorf("URL = %q", profile.URL)
	}
	if profile.Match.Props["player_id"] != "42" {
		t.Errorf("Props = %v", profile.Match.Props)
	}
	if nav.Len() != 2 {
		t.Errorf("Len = %d, want 2", nav.Len())
	}
	if cur, _ := nav.Current(); cur.ID != profile.ID {
		t.Error("Current should be the last pushed entry")
	}
}

func TestNavigatorOptions(t *testing.T) {
	nav := newTestNavigator(t)
	ctx := context.Background()

	e, err := nav.Push(ctx, "PlayerProfile", Params{"player_id": "42"},
		WithQuery(url.Values{"tab": {"games"}}),
		WithFragment("last-7"))
	if err != nil {
		t.Fatal(err)
	}
	if e.URL != "/player/42?tab=games#last-7" {
		t.Errorf("URL = %q", e.URL)
	}

	e, err = nav.Navigate(ctx, "/player//7/", WithReplace())
	if err != nil {
		t.Fatal(err)
	}
	if e.URL != "/player/7" {
		t.Errorf("URL = %q", e.URL)
	}
	if nav.Len() != 1 {
		t.Errorf("Len = %d, want 1 after replace", nav.Len())
	}
}

func TestNavigatorFailuresKeepHistory(t *testing.T) {
	nav := newTestNavigator(t)
	ctx := context.Background()

	if _, err := nav.Push(ctx, "HomePage", nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		nav      func() error
		wantCode string
	}{
		{"unknown path", func() error { _, err := nav.Navigate(ctx, "/unknown"); return err }, errors.CodeRouteNotFound},
		{"absolute url", func() error { _, err := nav.Navigate(ctx, "https://example.com/"); return err }, errors.CodeInvalidPath},
		{"protocol relative", func() error { _, err := nav.Navigate(ctx, "//example.com/player/1"); return err }, errors.CodeInvalidPath},
		{"unknown name", func() error { _, err := nav.Push(ctx, "Nope", nil); return err }, errors.CodeUnknownRoute},
		{"missing param", func() error { _, err := nav.Push(ctx, "PlayerProfile", nil); return err }, errors.CodeMissingParam},
		{"dot-dot param", func() error { _, err := nav.Push(ctx, "PlayerProfile", Params{"player_id": ".."}); return err }, errors.CodeInvalidParam},
		{"dot param", func() error { _, err := nav.Push(ctx, "PlayerProfile", Params{"player_id": "."}); return err }, errors.CodeInvalidParam},
		{"malformed query", func() error {
			_, err := nav.Navigate(ctx, "/player/42?a=%zz", WithQuery(url.Values{"tab": {"games"}}))
			return err
		}, errors.CodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nav()
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("err = %v, want %s", err, tt.wantCode)
			}
			if nav.Len() != 1 {
				t.Errorf("Len = %d, want 1", nav.Len())
			}
		})
	}
}

func TestNavigatorBackForward(t *testing.T) {
	nav := newTestNavigator(t)
	ctx := context.Background()

	for _, u := range []string{"/", "/player/1", "/player/2"} {
		if _, err := nav.Navigate(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	if e, ok := nav.Back(); !ok || e.URL != "/player/1" {
		t.Errorf("Back = %q, %v", e.URL, ok)
	}
	if e, ok := nav.Back(); !ok || e.URL != "/" {
		t.Errorf("Back = %q, %v", e.URL, ok)
	}
	if _, ok := nav.Back(); ok {
		t.Error("Back at the start of history should fail")
	}
	if e, ok := nav.Forward(); !ok || e.URL != "/player/1" {
		t.Errorf("Forward = %q, %v", e.URL, ok)
	}

	// Pushing from the middle drops the forward entries.
	if _, err := nav.Navigate(ctx, "/player/3"); err != nil {
		t.Fatal(err)
	}
	if nav.Len() != 3 {
		t.Errorf("Len = %d, want 3", nav.Len())
	}
	if _, ok := nav.Forward(); ok {
		t.Error("Forward after push should fail")
	}
	if e, ok := nav.Go(-2); !ok || e.URL != "/" {
		t.Errorf("Go(-2) = %q, %v", e.URL, ok)
	}
	if _, ok := nav.Go(0); ok {
		t.Error("Go(0) should report false")
	}
}

func TestNavigatorOnNavigate(t *testing.T) {
	nav := newTestNavigator(t)
	ctx := context.Background()

	var got []string
	unsubscribe := nav.OnNavigate(func(e Entry) {
		got = append(got, e.Match.Route.Name)
	})

	nav.Navigate(ctx, "/")
	nav.Navigate(ctx, "/player/42")
	nav.Navigate(ctx, "/unknown")
	nav.Back()
	unsubscribe()
	nav.Forward()

	want := []string{"HomePage", "PlayerProfile", "HomePage"}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNavigatorConcurrent(t *testing.T) {
	nav := newTestNavigator(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.Push(ctx, "PlayerProfile", Params{"player_id": "42"})
			nav.Current()
			nav.Back()
		}()
	}
	wg.Wait()

	if nav.Len() == 0 {
		t.Error("expected history entries")
	}
}
