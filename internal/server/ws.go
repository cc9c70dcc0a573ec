package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
	"github.com/ziadkadry99/shop-scout/internal/stages"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string           `json:"type"` // "start" or "answer"
	Context *session.Context `json:"context,omitempty"`
	Answer  string           `json:"answer,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string           `json:"type"` // "question", "done", or "error"
	SessionID string           `json:"session_id,omitempty"`
	Field     string           `json:"field,omitempty"`
	Question  string           `json:"question,omitempty"`
	Error     string           `json:"error,omitempty"`
	Context   *session.Context `json:"context,omitempty"`
}

// handleWebSocket runs one interactive session per connection. The server
// sends a "question" whenever the pipeline suspends; the client replies
// with an "answer" and the run resumes until "done".
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	deps := s.deps
	scripted := prompt.NewScriptPrompter()
	deps.Prompter = scripted
	deps.Out = nil

	graph, err := stages.Build(&deps, flow.WithCycleLimit(s.cfg.CycleLimit))
	if err != nil {
		s.sendWS(conn, wsResponse{Type: "error", Error: err.Error()})
		return
	}

	var sc *session.Context
	stage := graph.Entry()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWS(conn, wsResponse{Type: "error", Error: "invalid message format"})
			continue
		}

		switch req.Type {
		case "start":
			sc = session.New()
			if req.Context != nil {
				id := sc.ID
				*sc = *req.Context
				sc.ID = id
				if sc.Preferences == nil {
					sc.Preferences = make(map[string]string)
				}
			}
			stage = graph.Entry()

		case "answer":
			if sc == nil {
				s.sendWS(conn, wsResponse{Type: "error", Error: "no session started"})
				continue
			}
			scripted.Push(req.Answer)

		default:
			s.sendWS(conn, wsResponse{Type: "error", Error: "unknown message type: " + req.Type})
			continue
		}

		runErr := graph.RunFrom(r.Context(), stage, sc)
		if runErr == nil {
			s.saveSnapshot(r, sc, stages.SummarizeSession, StatusDone)
			s.sendWS(conn, wsResponse{Type: "done", SessionID: sc.ID, Context: sc})
			return
		}

		var susp *flow.Suspension
		if errors.As(runErr, &susp) {
			stage = susp.Stage
			s.saveSnapshot(r, sc, stage, StatusSuspended)
			s.sendWS(conn, wsResponse{
				Type:      "question",
				SessionID: sc.ID,
				Field:     susp.Field,
				Question:  susp.Question,
			})
			continue
		}

		s.saveSnapshot(r, sc, stage, StatusFailed)
		s.sendWS(conn, wsResponse{Type: "error", SessionID: sc.ID, Error: runErr.Error()})
		return
	}
}

func (s *Server) saveSnapshot(r *http.Request, sc *session.Context, stage, status string) {
	snap := Snapshot{ID: sc.ID, Stage: stage, Status: status, Context: sc}
	if err := s.sessions.Save(r.Context(), snap); err != nil {
		log.Printf("server: saving session %s: %v", sc.ID, err)
	}
}

func (s *Server) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
