// Package httpapi exposes a server-held graft session as a JSON API.
//
// The session itself does no locking, so this adapter is the mutual
// exclusion boundary: every handler takes the server mutex before
// touching the engine, serializing concurrent requests into the strictly
// sequential command stream the session expects.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/observability"
	"github.com/aretw0/graft/pkg/rewrite"
	"github.com/aretw0/graft/pkg/session"
	"github.com/aretw0/graft/pkg/term"
)

// Server holds the shared session behind the HTTP surface.
type Server struct {
	mu      sync.Mutex
	engine  *graft.Engine
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandler builds the HTTP handler for the given engine. Metrics are
// registered on a private registry and served under /metrics.
func NewHandler(engine *graft.Engine, logger *slog.Logger) http.Handler {
	reg := prometheus.NewRegistry()
	s := &Server{
		engine:  engine,
		logger:  logger,
		metrics: observability.New(reg),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/rules", s.listRules)
	r.Post("/rules", s.defineRule)
	r.Get("/term", s.currentTerm)
	r.Post("/shape", s.shape)
	r.Post("/apply", s.apply)
	r.Post("/done", s.done)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}

type ruleRequest struct {
	Name string `json:"name"`
	Head string `json:"head"`
	Body string `json:"body"`
}

type ruleResponse struct {
	Name string `json:"name"`
	Head string `json:"head"`
	Body string `json:"body"`
}

type shapeRequest struct {
	Term string `json:"term"`
}

type applyRequest struct {
	Rule string `json:"rule"`
}

type termResponse struct {
	Term    string `json:"term,omitempty"`
	Shaping bool   `json:"shaping"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": graft.Version})
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := []ruleResponse{}
	for _, name := range s.engine.RuleNames() {
		rule, ok := s.engine.Rule(name)
		if !ok {
			continue
		}
		resp = append(resp, ruleResponse{
			Name: name,
			Head: rule.Head.String(),
			Body: rule.Body.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) defineRule(w http.ResponseWriter, r *http.Request) {
	var body ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rule name is required"})
		return
	}

	s.mu.Lock()
	rule, err := s.engine.Define(body.Name, body.Head, body.Body)
	s.syncGauges()
	s.mu.Unlock()

	s.metrics.Observe("rule", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ruleResponse{
		Name: body.Name,
		Head: rule.Head.String(),
		Body: rule.Body.String(),
	})
}

func (s *Server) currentTerm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	current, shaping := s.engine.Current()
	s.mu.Unlock()

	resp := termResponse{Shaping: shaping}
	if shaping {
		resp.Term = current.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) shape(w http.ResponseWriter, r *http.Request) {
	var body shapeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	s.mu.Lock()
	shaped, err := s.engine.Shape(body.Term)
	s.syncGauges()
	s.mu.Unlock()

	s.metrics.Observe("shape", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, termResponse{Term: shaped.String(), Shaping: true})
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	var body applyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	s.mu.Lock()
	next, err := s.engine.Apply(body.Rule)
	s.mu.Unlock()

	s.metrics.Observe("apply", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, termResponse{Term: next.String(), Shaping: true})
}

func (s *Server) done(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	final, err := s.engine.Done()
	s.syncGauges()
	s.mu.Unlock()

	s.metrics.Observe("done", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, termResponse{Term: final.String(), Shaping: false})
}

// syncGauges mirrors the session state into the gauges. Callers hold mu.
func (s *Server) syncGauges() {
	s.metrics.RulesDefined.Set(float64(len(s.engine.RuleNames())))
	if _, shaping := s.engine.Current(); shaping {
		s.metrics.ShapingActive.Set(1)
	} else {
		s.metrics.ShapingActive.Set(0)
	}
}

// writeError maps the command error taxonomy onto HTTP statuses. Every
// error is non-fatal: the session stays usable for the next request.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		ute     *term.UnexpectedTokenError
		missing *session.RuleMissingError
		exists  *session.RuleExistsError
		functor *rewrite.FunctorBindingError
	)
	switch {
	case errors.As(err, &ute):
		status = http.StatusBadRequest
	case errors.As(err, &missing):
		status = http.StatusNotFound
	case errors.As(err, &exists):
		status = http.StatusConflict
	case errors.As(err, &functor):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrAlreadyShaping), errors.Is(err, session.ErrNoShaping):
		status = http.StatusConflict
	}

	s.logger.Debug("command failed", "error", err, "status", status)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
