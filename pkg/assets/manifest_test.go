package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`{"app.js":"assets/app.3f9c2a.js","favicon.ico":"favicon.ico"}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if got := m.Resolve("app.js"); got != "assets/app.3f9c2a.js" {
		t.Errorf("Resolve(app.js) = %q", got)
	}
	if got := m.Resolve("missing.js"); got != "missing.js" {
		t.Errorf("Resolve(missing.js) = %q, want passthrough", got)
	}
	if !m.Fingerprinted("assets/app.3f9c2a.js") {
		t.Error("hashed output should be fingerprinted")
	}
	if m.Fingerprinted("favicon.ico") {
		t.Error("identity entry should not be fingerprinted")
	}
}

func TestParseManifestInvalid(t *testing.T) {
	if _, err := ParseManifest([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error for non-object manifest")
	}
}

func TestManifestSetReplaces(t *testing.T) {
	m := NewManifest()
	m.Set("app.js", "app.aaa.js")
	m.Set("app.js", "app.bbb.js")

	if m.Fingerprinted("app.aaa.js") {
		t.Error("replaced output still marked fingerprinted")
	}
	if !m.Fingerprinted("app.bbb.js") {
		t.Error("new output not fingerprinted")
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	store := NewDirStore(dir)

	m, err := LoadManifest(context.Background(), store)
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("missing manifest Len() = %d, want 0", m.Len())
	}

	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(`{"app.css":"app.81d0be.css"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err = LoadManifest(context.Background(), store)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if !m.Fingerprinted("app.81d0be.css") {
		t.Error("expected app.81d0be.css fingerprinted")
	}
}
