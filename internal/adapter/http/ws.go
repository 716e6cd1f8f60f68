package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/couchcryptid/brewmap/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Control message types sent by the map client.
const (
	msgCategory = "category"
	msgCountry  = "country"
	msgRegion   = "region"
	msgQuery    = "query"
	msgReset    = "reset"
)

// clientMessage is one control change, e.g. {"type":"country","value":"US"}.
type clientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (m clientMessage) event() (session.Event, error) {
	switch m.Type {
	case msgCategory:
		return session.CategoryChanged{Value: m.Value}, nil
	case msgCountry:
		return session.CountryChanged{Value: m.Value}, nil
	case msgRegion:
		return session.RegionChanged{Value: m.Value}, nil
	case msgQuery:
		return session.QueryTyped{Value: m.Value}, nil
	case msgReset:
		return session.Reset{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" ||
				slices.Contains(s.opts.CORSOrigins, "*") ||
				slices.Contains(s.opts.CORSOrigins, origin)
		},
	}
}

// handleSession upgrades the request and runs one map session until either
// side goes away.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(s.sessions)
	defer cancel()

	sess := session.New(s.deps.Catalog, s.deps.Palette, session.Options{Debounce: s.opts.Debounce}, s.logger, s.deps.Metrics)
	logger := s.logger.With("remote", r.RemoteAddr)
	logger.Info("map session opened")

	go func() {
		_ = sess.Run(ctx)
	}()
	go readPump(ctx, cancel, conn, sess, logger)
	writePump(ctx, cancel, conn, sess)

	logger.Info("map session closed")
}

// readPump forwards client control messages to the session.
func readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *session.Session, logger *slog.Logger) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("malformed client message", "error", err)
			continue
		}
		ev, err := msg.event()
		if err != nil {
			logger.Debug("ignoring client message", "error", err)
			continue
		}
		if err := sess.Send(ctx, ev); err != nil {
			return
		}
	}
}

// writePump streams snapshots to the client and keeps the connection alive.
func writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *session.Session) {
	defer cancel()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-sess.Views():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			// Drain until Run closes the views channel.
			for range sess.Views() {
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}
