package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
	"github.com/ziadkadry99/shop-scout/internal/stages"
	"github.com/ziadkadry99/shop-scout/internal/summary"
)

// sessionRequest starts or resumes a session. Context fields may be set
// directly; Answers feed the prompts the pipeline asks along the way.
type sessionRequest struct {
	Context *session.Context `json:"context,omitempty"`
	Answers []string         `json:"answers,omitempty"`
}

// sessionResponse reports where a run ended up. A "suspended" status
// carries the pending question; the caller answers it via the answer
// endpoint and the session resumes from Stage.
type sessionResponse struct {
	ID       string           `json:"id"`
	Status   string           `json:"status"`
	Stage    string           `json:"stage,omitempty"`
	Field    string           `json:"field,omitempty"`
	Question string           `json:"question,omitempty"`
	Error    string           `json:"error,omitempty"`
	Context  *session.Context `json:"context"`
}

func (s *Server) registerSessionRoutes(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/answer", s.handleAnswerSession)
		r.Get("/{id}/summary", s.handleSessionSummary)
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sc := session.New()
	if req.Context != nil {
		id := sc.ID
		*sc = *req.Context
		sc.ID = id
		if sc.Preferences == nil {
			sc.Preferences = make(map[string]string)
		}
	}

	s.runAndRespond(w, r.Context(), sc, "", req.Answers)
}

func (s *Server) handleAnswerSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	if snap.Status != StatusSuspended {
		writeError(w, http.StatusConflict, "session is not awaiting input")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers is required")
		return
	}

	s.runAndRespond(w, r.Context(), snap.Context, snap.Stage, req.Answers)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	html, err := summary.HTML(snap.Context)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// runAndRespond drives the graph for one session until it finishes,
// suspends, or fails, then persists the snapshot and reports the outcome.
// start is "" for a fresh session.
func (s *Server) runAndRespond(w http.ResponseWriter, ctx context.Context, sc *session.Context, start string, answers []string) {
	deps := s.deps
	deps.Prompter = prompt.NewScriptPrompter(answers...)
	deps.Out = nil

	graph, err := stages.Build(&deps, flow.WithCycleLimit(s.cfg.CycleLimit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if start == "" {
		start = graph.Entry()
	}
	runErr := graph.RunFrom(ctx, start, sc)

	resp := sessionResponse{ID: sc.ID, Context: sc}
	httpStatus := http.StatusOK

	switch {
	case runErr == nil:
		resp.Status = StatusDone
		resp.Stage = stages.SummarizeSession

	default:
		var susp *flow.Suspension
		var vErr *session.ValidationError
		switch {
		case errors.As(runErr, &susp):
			resp.Status = StatusSuspended
			resp.Stage = susp.Stage
			resp.Field = susp.Field
			resp.Question = susp.Question

		case errors.As(runErr, &vErr):
			resp.Status = StatusFailed
			resp.Error = vErr.Error()
			httpStatus = http.StatusBadRequest

		case errors.Is(runErr, catalog.ErrUnavailable):
			resp.Status = StatusFailed
			resp.Error = runErr.Error()
			httpStatus = http.StatusBadGateway

		default:
			resp.Status = StatusFailed
			resp.Error = runErr.Error()
			httpStatus = http.StatusInternalServerError
		}
	}

	snap := Snapshot{ID: sc.ID, Stage: resp.Stage, Status: resp.Status, Context: sc}
	if err := s.sessions.Save(ctx, snap); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, httpStatus, resp)
}

// stageRequest is the thin per-stage adapter payload: a partial context in,
// the updated context out.
type stageRequest struct {
	Context *session.Context `json:"context"`
	Answers []string         `json:"answers,omitempty"`
}

type stageResponse struct {
	Context  *session.Context `json:"context"`
	Next     string           `json:"next,omitempty"`
	Field    string           `json:"field,omitempty"`
	Question string           `json:"question,omitempty"`
}

func (s *Server) registerStageRoutes(r chi.Router) {
	r.Get("/api/stages", s.handleListStages)
	r.Post("/api/stage/{name}", s.handleRunStage)
}

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	deps := s.deps
	deps.Prompter = prompt.NewScriptPrompter()

	graph, err := stages.Build(&deps)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entry":  graph.Entry(),
		"stages": graph.Stages(),
	})
}

func (s *Server) handleRunStage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sc := req.Context
	if sc == nil {
		sc = session.New()
	}

	deps := s.deps
	deps.Prompter = prompt.NewScriptPrompter(req.Answers...)
	deps.Out = nil

	graph, err := stages.Build(&deps, flow.WithCycleLimit(s.cfg.CycleLimit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !graph.Has(name) {
		writeError(w, http.StatusNotFound, "unknown stage")
		return
	}

	res, runErr := graph.RunStage(r.Context(), name, sc)
	if runErr != nil {
		var susp *flow.Suspension
		var vErr *session.ValidationError
		switch {
		case errors.As(runErr, &susp):
			writeJSON(w, http.StatusOK, stageResponse{
				Context:  sc,
				Next:     name, // re-run this stage with the answer supplied
				Field:    susp.Field,
				Question: susp.Question,
			})
		case errors.As(runErr, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(runErr, catalog.ErrUnavailable):
			writeError(w, http.StatusBadGateway, runErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, runErr.Error())
		}
		return
	}

	next, err := graph.NextAfter(name, res, sc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stageResponse{Context: sc, Next: next})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
