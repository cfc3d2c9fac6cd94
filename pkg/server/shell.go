package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/assets"
)

const (
	immutableCacheControl = "public, max-age=31536000, immutable"
	documentCacheControl  = "no-cache"
)

// handleShell serves static files and, for everything else, the shell
// document of the matched route.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	rawPath := r.URL.EscapedPath()

	// A path with an extension is tried as a file first. If there is no
	// such file it still gets a chance to match a route.
	if assets.HasExtension(rawPath) && s.serveAsset(w, r, rawPath) {
		return
	}

	m, err := s.router.Resolve(r.Context(), rawPath)
	if err != nil {
		switch {
		case errors.HasCode(err, errors.CodeRouteNotFound):
			s.serveNotFound(w, r)
		case errors.HasCode(err, errors.CodeInvalidPath), errors.HasCode(err, errors.CodeInvalidParam):
			http.Error(w, errors.FromError(err, errors.CodeInvalidPath).Error(), http.StatusBadRequest)
		default:
			s.logger.Error("resolve failed", "path", rawPath, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set(HeaderRouteName, m.Route.Name)
	w.Header().Set(HeaderRouteView, string(m.Route.View))
	if !s.serveDocument(w, r, s.config.Index, http.StatusOK) {
		s.logger.Error("shell document missing", "name", s.config.Index)
		http.Error(w, "shell document missing", http.StatusInternalServerError)
	}
}

// serveAsset writes the named file and reports whether it handled the
// request. Missing files and unusable names are left to the caller.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, rawPath string) bool {
	name, err := url.PathUnescape(rawPath)
	if err != nil {
		return false
	}

	rc, info, err := s.store.Open(r.Context(), name)
	if err != nil {
		if stderrors.Is(err, assets.ErrNotFound) || stderrors.Is(err, assets.ErrInvalidName) {
			return false
		}
		s.storeError(w, name, err)
		return true
	}
	defer rc.Close()

	h := w.Header()
	h.Set("Content-Type", info.ContentType)
	switch {
	case info.Name == s.config.Index || info.Name == s.config.NotFound:
		h.Set("Cache-Control", documentCacheControl)
	case s.manifest.Fingerprinted(info.Name):
		h.Set("Cache-Control", immutableCacheControl)
	case s.config.CacheControl != "":
		h.Set("Cache-Control", s.config.CacheControl)
	}
	if info.ETag != "" {
		h.Set("ETag", info.ETag)
	}

	// Local files support ranges and conditional requests.
	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.Name, info.ModTime, rs)
		return true
	}

	if !info.ModTime.IsZero() {
		h.Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	if info.Size > 0 {
		h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.Copy(w, rc)
	}
	return true
}

// serveDocument writes an HTML document from the store with status. It
// returns false, having written nothing, when the document does not exist.
func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, name string, status int) bool {
	rc, info, err := s.openDocument(r.Context(), name)
	if err != nil {
		if stderrors.Is(err, assets.ErrNotFound) {
			return false
		}
		s.storeError(w, name, err)
		return true
	}
	defer rc.Close()

	h := w.Header()
	h.Set("Content-Type", info.ContentType)
	// The shell references fingerprinted assets, so it must be revalidated.
	h.Set("Cache-Control", documentCacheControl)
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = io.Copy(w, rc)
	}
	return true
}

func (s *Server) openDocument(ctx context.Context, name string) (io.ReadCloser, assets.Info, error) {
	if name == "" {
		return nil, assets.Info{}, assets.ErrNotFound
	}
	return s.store.Open(ctx, name)
}

// serveNotFound writes the not-found document, or plain text without one.
func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	if s.serveDocument(w, r, s.config.NotFound, http.StatusNotFound) {
		return
	}
	http.Error(w, "404 page not found", http.StatusNotFound)
}

func (s *Server) storeError(w http.ResponseWriter, name string, err error) {
	s.logger.Error("asset store error", "name", name,
		"error", errors.New(errors.CodeAssetStore).WithDetail(name).Wrap(err))
	http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
}
