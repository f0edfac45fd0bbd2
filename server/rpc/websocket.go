package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1 << 12,
	WriteBufferSize: 1 << 12,
}

// WebSocket pushes every snapshot to the client and answers its commands.
// The current snapshot is sent right after the upgrade.
func (s *Service) WebSocket(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.Any("err", err))
			return
		}
		defer conn.Close()

		c := h.register()
		defer h.unregister(c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		snap := s.machine.Snapshot()
		c.send <- Message{Type: typeSnapshot, Snapshot: &snap}

		go writePump(ctx, conn, c)

		for {
			var req Request
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("websocket read failed", slog.Any("err", err))
				}
				return
			}

			res := s.Call(ctx, req)

			select {
			case c.send <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// gorilla connections support a single concurrent writer.
func writePump(ctx context.Context, conn *websocket.Conn, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("websocket write failed", slog.Any("err", err))
				conn.Close()
				return
			}
		}
	}
}
