// Package assets serves the built front-end (the application shell and its
// static files) from a local directory or an S3 bucket.
package assets

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when an asset does not exist.
var ErrNotFound = errors.New("asset not found")

// ErrInvalidName is returned for names that could escape the store root.
var ErrInvalidName = errors.New("invalid asset name")

// Info describes an opened asset.
type Info struct {
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
	ETag        string
}

// Store opens assets by slash-separated relative name, e.g. "index.html" or
// "assets/app.js".
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)
}

// CleanName validates and normalizes an asset name. It rejects traversal,
// absolute paths, backslashes and NUL bytes rather than cleaning them away,
// so a request can never change meaning on its way to the store.
func CleanName(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "", ErrInvalidName
	}
	if strings.IndexByte(name, 0) != -1 || strings.Contains(name, "\\") {
		return "", ErrInvalidName
	}
	if strings.HasPrefix(name, "/") {
		return "", ErrInvalidName
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "." || seg == ".." {
			return "", ErrInvalidName
		}
	}

	clean := path.Clean(name)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName
	}
	return clean, nil
}

// ContentType guesses the media type of name from its extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// HasExtension reports whether the last segment of urlPath has a file
// extension. The shell treats such paths as static files.
func HasExtension(urlPath string) bool {
	return path.Ext(path.Base(urlPath)) != ""
}
