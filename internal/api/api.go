// Package api provides HTTP handlers and the main API server logic for
// riskscreen.
//
// It exposes RESTful endpoints for running adaptive interview sessions,
// generating dual risk assessments, and fetching stored assessments. The API
// integrates with the interview, scoring, assessment, genai, and store
// modules.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vitalpath/riskscreen/internal/assessment"
	"github.com/vitalpath/riskscreen/internal/genai"
	"github.com/vitalpath/riskscreen/internal/interview"
	"github.com/vitalpath/riskscreen/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration for the API server.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server routes interview and assessment requests to per-session state.
// Sessions themselves are single-tenant; the registry map is the only
// shared structure and is guarded by the mutex.
type Server struct {
	mu          sync.Mutex
	sessions    map[string]*interview.Session
	genaiClient genai.ClientInterface
	recommender *assessment.RecommendationGenerator
	store       store.Store
	addr        string
}

// NewServer creates an API server. The genai client may be nil, in which
// case every session runs on static questions and fallback content only.
func NewServer(genaiClient genai.ClientInterface, st store.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{
		sessions:    make(map[string]*interview.Session),
		genaiClient: genaiClient,
		recommender: assessment.NewRecommendationGenerator(genaiClient),
		store:       st,
		addr:        cfg.Addr,
	}
}

// Handler returns the route table for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.createSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/reset", s.resetSessionHandler)
	mux.HandleFunc("GET /sessions/{id}/next", s.nextQuestionHandler)
	mux.HandleFunc("POST /sessions/{id}/answers", s.saveAnswerHandler)
	mux.HandleFunc("GET /sessions/{id}/answers", s.listAnswersHandler)
	mux.HandleFunc("POST /sessions/{id}/assessment", s.generateAssessmentHandler)
	mux.HandleFunc("GET /users/{userID}/assessments", s.listAssessmentsHandler)
	mux.HandleFunc("GET /users/{userID}/assessments/latest", s.latestAssessmentHandler)
	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("riskscreen API running", "addr", s.addr)
	if err := http.ListenAndServe(s.addr, s.Handler()); err != nil {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// session looks up a registered session by id.
func (s *Server) session(id string) (*interview.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// registerSession stores a new session under the given id.
func (s *Server) registerSession(id string, sess *interview.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}
