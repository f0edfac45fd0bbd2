package rpc

import (
	"context"
	"log/slog"

	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
)

// Request is a command sent by a websocket client.
type Request struct {
	Id     string               `json:"id"`
	Method string               `json:"method"`
	Params session.StartRequest `json:"params"`
}

// Message is everything written to a websocket client.
type Message struct {
	Type     string            `json:"type"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Id       string            `json:"id,omitempty"`
	Method   string            `json:"method,omitempty"`
	Result   string            `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

const (
	typeSnapshot = "snapshot"
	typeResult   = "result"
)

type Service struct {
	machine *session.Machine
}

// Call runs one client command against the state machine.
func (s *Service) Call(ctx context.Context, req Request) Message {
	res := Message{Type: typeResult, Id: req.Id, Method: req.Method}

	switch req.Method {
	case "start":
		id, err := s.machine.Start(ctx, req.Params)
		if err != nil {
			res.Error = session.UserMessage(err)
			return res
		}
		res.Result = id
	case "stop":
		if err := s.machine.Stop(ctx); err != nil {
			res.Error = err.Error()
		}
	case "status":
		snap := s.machine.Snapshot()
		res.Snapshot = &snap
	default:
		slog.Warn("unknown rpc method", slog.String("method", req.Method))
		res.Error = "unknown method " + req.Method
	}

	return res
}
