package assets

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mlb-trending/trending/internal/config"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"index.html", "index.html", false},
		{"/assets/app.js", "assets/app.js", false},
		{"assets//app.js", "assets/app.js", false},
		{"", "", true},
		{"/", "", true},
		{"../secret", "", true},
		{"assets/../../secret", "", true},
		{"./index.html", "", true},
		{"a\\b.js", "", true},
		{"a\x00.js", "", true},
		{"//etc/passwd", "", true},
	}
	for _, tt := range tests {
		got, err := CleanName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanName(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("index.html"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("ContentType(index.html) = %q", got)
	}
	if got := ContentType("blob.unknownext"); got != "application/octet-stream" {
		t.Errorf("ContentType(unknown) = %q", got)
	}
}

func TestHasExtension(t *testing.T) {
	tests := map[string]bool{
		"/assets/app.js":     true,
		"/favicon.ico":       true,
		"/player/42":         false,
		"/":                  false,
		"/player/mike.trout": true,
	}
	for in, want := range tests {
		if got := HasExtension(in); got != want {
			t.Errorf("HasExtension(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<div id=app></div>"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewDirStore(dir)
	ctx := context.Background()

	rc, info, err := store.Open(ctx, "/index.html")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "<div id=app></div>" {
		t.Errorf("body = %q", body)
	}
	if info.Size != int64(len(body)) || !strings.HasPrefix(info.ContentType, "text/html") {
		t.Errorf("info = %+v", info)
	}

	if _, _, err := store.Open(ctx, "missing.js"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file err = %v, want ErrNotFound", err)
	}
	if _, _, err := store.Open(ctx, "assets"); !errors.Is(err, ErrNotFound) {
		t.Errorf("directory err = %v, want ErrNotFound", err)
	}
	if _, _, err := store.Open(ctx, "../index.html"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("traversal err = %v, want ErrInvalidName", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := store.Open(cancelled, "index.html"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v", err)
	}
}

type fakeS3 struct {
	objects map[string]string
	keys    []string
	err     error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("binary/octet-stream"),
		ETag:          aws.String(`"abc"`),
		LastModified:  aws.Time(time.Unix(1700000000, 0)),
	}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"dist/index.html": "shell"}}
	store := NewS3Store(client, "mlb-trending-web", "dist")
	ctx := context.Background()

	rc, info, err := store.Open(ctx, "index.html")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "shell" {
		t.Errorf("body = %q", body)
	}
	if !strings.HasPrefix(info.ContentType, "text/html") {
		t.Errorf("ContentType = %q, want extension-derived html", info.ContentType)
	}
	if info.ETag != `"abc"` || info.Size != 5 {
		t.Errorf("info = %+v", info)
	}

	if _, _, err := store.Open(ctx, "404.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key err = %v, want ErrNotFound", err)
	}
	if got := client.keys[len(client.keys)-1]; got != "dist/404.html" {
		t.Errorf("requested key = %q", got)
	}
	if _, _, err := store.Open(ctx, "../x"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("traversal err = %v", err)
	}
}

func TestS3StoreTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	store := NewS3Store(&fakeS3{err: boom}, "b", "")
	_, _, err := store.Open(context.Background(), "index.html")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want wrapped transport error", err)
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	anon := credentialsFromEnv(func(string) string { return "" })
	if _, ok := anon.(aws.AnonymousCredentials); !ok {
		t.Errorf("empty env provider = %T, want AnonymousCredentials", anon)
	}

	env := map[string]string{"AWS_ACCESS_KEY_ID": "AKID", "AWS_SECRET_ACCESS_KEY": "secret"}
	p := credentialsFromEnv(func(k string) string { return env[k] })
	creds, err := p.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.New()
	store, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig(dir): %v", err)
	}
	if _, ok := store.(*DirStore); !ok {
		t.Errorf("store = %T, want *DirStore", store)
	}

	cfg.Assets.Source = config.AssetSourceS3
	cfg.Assets.S3.Bucket = "mlb-trending-web"
	store, err = FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig(s3): %v", err)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Errorf("store = %T, want *S3Store", store)
	}

	cfg.Assets.Source = "ftp"
	if _, err := FromConfig(cfg); err == nil {
		t.Error("expected error for unknown source")
	}
}
