package routepath

import (
	"errors"
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPath     string
		wantQuery    string
		wantFragment string
		wantChanged  bool
		wantErr      error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/", wantChanged: true},
		{name: "no leading slash", input: "player/42", wantPath: "/player/42", wantChanged: true},
		{name: "collapse slashes", input: "/player//42", wantPath: "/player/42", wantChanged: true},
		{name: "single dot", input: "/player/./42", wantPath: "/player/42", wantChanged: true},
		{name: "double dot", input: "/player/x/../42", wantPath: "/player/42", wantChanged: true},
		{name: "double dot to root", input: "/player/../", wantPath: "/", wantChanged: true},
		{name: "trailing slash", input: "/player/42/", wantPath: "/player/42", wantChanged: true},
		{name: "query kept", input: "/player/42?tab=splits", wantPath: "/player/42", wantQuery: "tab=splits"},
		{name: "fragment kept", input: "/player/42#games", wantPath: "/player/42", wantFragment: "games"},
		{name: "query and fragment", input: "/?a=1#top", wantPath: "/", wantQuery: "a=1", wantFragment: "top"},
		{name: "question mark in fragment", input: "/#x?y", wantPath: "/", wantFragment: "x?y"},
		{name: "valid escape", input: "/player/mike%20trout", wantPath: "/player/mike%20trout"},
		{name: "backslash", input: "/player\\42", wantErr: ErrBackslashInPath},
		{name: "encoded nul", input: "/player/%00", wantErr: ErrNullByteInPath},
		{name: "literal nul", input: "/player/\x00", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/player/%GG", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/player/%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if got.Fragment != tt.wantFragment {
				t.Errorf("Fragment = %q, want %q", got.Fragment, tt.wantFragment)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func TestCanonicalizeNav(t *testing.T) {
	for _, bad := range []string{"http://evil.example/", "https://evil.example/", "//evil.example", "player/42"} {
		if _, err := CanonicalizeNav(bad); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("CanonicalizeNav(%q) err = %v, want ErrInvalidPath", bad, err)
		}
	}

	loc, err := CanonicalizeNav("/player//42/?tab=1")
	if err != nil {
		t.Fatal(err)
	}
	if loc.String() != "/player/42?tab=1" {
		t.Errorf("String() = %q", loc.String())
	}
}

func TestLocationSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"/player", []string{"player"}},
		{"/player/42", []string{"player", "42"}},
	}
	for _, tt := range tests {
		if got := (Location{Path: tt.path}).Segments(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDecodeSegment(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "42", want: "42"},
		{in: "mike-trout", want: "mike-trout"},
		{in: "mike%20trout", want: "mike trout"},
		{in: "a%2Fb", wantErr: ErrEncodedSlashInSegment},
		{in: "%zz", wantErr: ErrInvalidPercentEscape},
	}
	for _, tt := range tests {
		got, err := DecodeSegment(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeSegment(%q) err = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("DecodeSegment(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestEncodeSegment(t *testing.T) {
	if got := EncodeSegment("mike trout"); got != "mike%20trout" {
		t.Errorf("EncodeSegment = %q", got)
	}
	if got := EncodeSegment("a/b"); got != "a%2Fb" {
		t.Errorf("EncodeSegment = %q", got)
	}
}
