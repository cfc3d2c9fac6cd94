package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/middleware"
	"github.com/mlb-trending/trending/pkg/router"
)

// Navigation message types.
const (
	MsgNavigate = "navigate" // client: resolve a path and push it
	MsgPush     = "push"     // client: navigate to a named route
	MsgURL      = "url"      // client: build a URL; server: the built URL
	MsgBack     = "back"     // client
	MsgForward  = "forward"  // client
	MsgPing     = "ping"     // client
	MsgPong     = "pong"     // server
	MsgRoute    = "route"    // server: current history entry
	MsgError    = "error"    // server
)

const maxNavMessageSize = 8 << 10

// NavRequest is a message from the client on /_nav.
type NavRequest struct {
	Type    string        `json:"type"`
	Ref     string        `json:"ref,omitempty"`
	Path    string        `json:"path,omitempty"`
	Name    string        `json:"name,omitempty"`
	Params  router.Params `json:"params,omitempty"`
	Replace bool          `json:"replace,omitempty"`
}

// NavResponse is a message from the server on /_nav. Ref echoes the
// request's Ref.
type NavResponse struct {
	Type    string        `json:"type"`
	Ref     string        `json:"ref,omitempty"`
	ID      string        `json:"id,omitempty"`
	URL     string        `json:"url,omitempty"`
	Name    string        `json:"name,omitempty"`
	View    router.View   `json:"view,omitempty"`
	Params  router.Params `json:"params,omitempty"`
	Props   router.Params `json:"props,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
	Detail  string        `json:"detail,omitempty"`
}

// navConn is one navigation WebSocket. Each connection keeps its own
// history.
type navConn struct {
	id        string
	conn      *websocket.Conn
	navigator *router.Navigator
	logger    *slog.Logger
	timeout   time.Duration
	writeWait time.Duration
	closeOnce sync.Once
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		middleware.RecordWebSocketError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &navConn{
		id:        uuid.NewString(),
		conn:      conn,
		navigator: router.NewNavigator(s.router),
		timeout:   s.config.ReadTimeout,
		writeWait: s.config.WriteTimeout,
	}
	c.logger = s.logger.With("conn", c.id)

	s.track(c)
	middleware.RecordNavConnOpen()
	c.logger.Debug("navigation connection opened", "remote", r.RemoteAddr)

	defer func() {
		s.untrack(c)
		middleware.RecordNavConnClose()
		c.close()
		c.logger.Debug("navigation connection closed")
	}()

	stop := make(chan struct{})
	defer close(stop)
	go c.pingLoop(stop)

	c.readLoop(r.Context())
}

// readLoop reads requests until the connection closes. Replies are written
// from this goroutine only.
func (c *navConn) readLoop(ctx context.Context) {
	c.conn.SetReadLimit(maxNavMessageSize)
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	})

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))

		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				middleware.RecordWebSocketError("read")
				c.logger.Error("read error", "error", err)
			}
			return
		}

		var req NavRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			middleware.RecordWebSocketError("decode")
			c.write(errorResponse("", errors.New(errors.CodeInvalidArgument).WithDetail("message is not valid JSON")))
			continue
		}

		if err := c.write(c.handle(ctx, req)); err != nil {
			middleware.RecordWebSocketError("write")
			c.logger.Error("write error", "error", err)
			return
		}
	}
}

// handle runs one request against the connection's navigator.
func (c *navConn) handle(ctx context.Context, req NavRequest) NavResponse {
	var opts []router.NavigateOption
	if req.Replace {
		opts = append(opts, router.WithReplace())
	}

	switch req.Type {
	case MsgNavigate:
		entry, err := c.navigator.Navigate(ctx, req.Path, opts...)
		return entryResponse(req.Ref, entry, err)

	case MsgPush:
		entry, err := c.navigator.Push(ctx, req.Name, req.Params, opts...)
		return entryResponse(req.Ref, entry, err)

	case MsgURL:
		u, err := c.navigator.Router().Table().URL(req.Name, req.Params)
		if err != nil {
			return errorResponse(req.Ref, err)
		}
		return NavResponse{Type: MsgURL, Ref: req.Ref, Name: req.Name, URL: u}

	case MsgBack, MsgForward:
		move := c.navigator.Back
		if req.Type == MsgForward {
			move = c.navigator.Forward
		}
		entry, ok := move()
		if !ok {
			return errorResponse(req.Ref, errors.New(errors.CodeNoHistory).WithDetail(req.Type))
		}
		return entryResponse(req.Ref, entry, nil)

	case MsgPing:
		return NavResponse{Type: MsgPong, Ref: req.Ref}
	}

	return errorResponse(req.Ref, errors.New(errors.CodeInvalidArgument).
		WithDetailf("unknown message type %q", req.Type))
}

func entryResponse(ref string, entry router.Entry, err error) NavResponse {
	if err != nil {
		return errorResponse(ref, err)
	}
	m := entry.Match
	return NavResponse{
		Type:   MsgRoute,
		Ref:    ref,
		ID:     entry.ID,
		URL:    entry.URL,
		Name:   m.Route.Name,
		View:   m.Route.View,
		Params: m.Params,
		Props:  m.Props,
	}
}

func errorResponse(ref string, err error) NavResponse {
	e := errors.FromError(err, errors.CodeInvalidArgument)
	return NavResponse{
		Type:    MsgError,
		Ref:     ref,
		Code:    e.Code,
		Message: e.Message,
		Detail:  e.Detail,
	}
}

func (c *navConn) write(resp NavResponse) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteJSON(resp)
}

// pingLoop keeps the read deadline alive on idle connections. WriteControl
// may run concurrently with the read loop's writes.
func (c *navConn) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.timeout * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *navConn) closeGoingAway() {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
	c.close()
}

func (c *navConn) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}
