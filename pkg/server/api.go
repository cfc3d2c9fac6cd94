package server

import (
	"encoding/json"
	"net/http"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/router"
)

// RouteInfo describes one route table entry.
type RouteInfo struct {
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	View   router.View `json:"view"`
	Props  bool        `json:"props"`
	Params []string    `json:"params"`
}

// Resolution is the JSON body of /_resolve.
type Resolution struct {
	Found  bool          `json:"found"`
	Path   string        `json:"path,omitempty"`
	Name   string        `json:"name,omitempty"`
	View   router.View   `json:"view,omitempty"`
	Params router.Params `json:"params,omitempty"`
	Props  router.Params `json:"props,omitempty"`
	Error  *errors.Error `json:"error,omitempty"`
}

// RouteInfos lists the entries of table in declaration order.
func RouteInfos(table *router.Table) []RouteInfo {
	routes := table.Routes()
	out := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		params, _ := table.Params(rt.Name)
		if params == nil {
			params = []string{}
		}
		out = append(out, RouteInfo{
			Name:   rt.Name,
			Path:   rt.Path,
			View:   rt.View,
			Props:  rt.Props,
			Params: params,
		})
	}
	return out
}

// NewResolution converts a resolve result into its JSON form.
func NewResolution(m *router.Match, err error) Resolution {
	if err != nil {
		return Resolution{Error: errors.FromError(err, errors.CodeRouteNotFound)}
	}
	return Resolution{
		Found:  true,
		Path:   m.Location.Path,
		Name:   m.Route.Name,
		View:   m.Route.View,
		Params: m.Params,
		Props:  m.Props,
	}
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RouteInfos(s.router.Table()))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, Resolution{
			Error: errors.New(errors.CodeInvalidArgument).WithDetail("path query parameter is required"),
		})
		return
	}

	m, err := s.router.Resolve(r.Context(), path)
	res := NewResolution(m, err)

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.HasCode(err, errors.CodeRouteNotFound):
		status = http.StatusNotFound
	case errors.HasCode(err, errors.CodeInvalidPath), errors.HasCode(err, errors.CodeInvalidParam):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
