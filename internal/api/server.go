package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"

	"github.com/scalynx/idea-validator/internal/config"
	"github.com/scalynx/idea-validator/internal/engine"
	"github.com/scalynx/idea-validator/internal/pipeline"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Engine   *engine.Engine
	Config   config.ServerConfig
	Logger   *logrus.Entry
	Router   *http.ServeMux
	validate *validator.Validate
}

func NewServer(eng *engine.Engine, cfg config.ServerConfig, logger *logrus.Entry) *Server {
	s := &Server{
		Engine:   eng,
		Config:   cfg,
		Logger:   logger,
		Router:   http.NewServeMux(),
		validate: validator.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/", s.handleHome)
	s.Router.HandleFunc("/api/test", s.handleTest)
	s.Router.HandleFunc("/api/validate-idea", s.handleValidate)
	s.Router.HandleFunc("/api/v1/validate-idea", s.handleValidate)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

// Handler is the router wrapped with request IDs, logging and CORS.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withCORS(s.Router))
}

// Start listens on the configured address, capping concurrent connections.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Config.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until it fails.
func (s *Server) Serve(ln net.Listener) error {
	if s.Config.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.Config.MaxConnections)
	}
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}
	s.Logger.WithFields(logrus.Fields{
		"addr":            ln.Addr().String(),
		"max_connections": s.Config.MaxConnections,
	}).Info("Starting API Server")
	return srv.Serve(ln)
}

// Requests and responses

type ValidateRequest struct {
	Idea         string   `json:"idea" validate:"max=2000"`
	Ideas        []string `json:"ideas" validate:"max=100,dive,max=2000"`
	TargetMarket string   `json:"targetMarket" validate:"max=200"`
	Location     string   `json:"location" validate:"max=200"`
}

type ValidateResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message,omitempty"`
	Results []engine.Verdict `json:"results"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	FitID       string `json:"fit_id"`
	Validations int64  `json:"validations"`
	Accepted    int64  `json:"accepted"`
	Rejected    int64  `json:"rejected"`
	Reloads     int64  `json:"reloads"`
	LastError   string `json:"last_error,omitempty"`
	Uptime      string `json:"uptime"`
}

// Handlers

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Status: "error", Message: "Not found"})
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, http.StatusOK, MessageResponse{Message: "Welcome to Scalynx Backend API!"})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonResponse(w, http.StatusOK, MessageResponse{Message: "Backend is working!"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: "Invalid JSON"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	ideas := req.Ideas
	switch {
	case req.Idea != "" && len(ideas) > 0:
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: "Send either 'idea' or 'ideas', not both"})
		return
	case req.Idea != "":
		ideas = []string{req.Idea}
	case len(ideas) == 0:
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: "Missing fields"})
		return
	}

	verdicts, err := s.Engine.Validate(ideas)
	if errors.Is(err, pipeline.ErrMalformedInput) {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Status: "error", Message: "Idea text must not be empty"})
		return
	}
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	resp := ValidateResponse{Status: "success", Results: verdicts}
	if len(verdicts) == 1 {
		resp.Message = summary(verdicts[0], req.TargetMarket, req.Location)
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := s.Engine.Stats()

	jsonResponse(w, http.StatusOK, StatusResponse{
		FitID:       s.Engine.FitID(),
		Validations: stats.Validations,
		Accepted:    stats.Accepted,
		Rejected:    stats.Rejected,
		Reloads:     stats.Reloads,
		LastError:   stats.LastError,
		Uptime:      time.Since(stats.StartTime).Round(time.Second).String(),
	})
}

func summary(v engine.Verdict, market, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s'", v.Idea)
	if market != "" {
		fmt.Fprintf(&b, " targeting '%s'", market)
	}
	if location != "" {
		fmt.Fprintf(&b, " in '%s'", location)
	}
	fmt.Fprintf(&b, ": %s", v.Feedback)
	return b.String()
}

// Middleware

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.Config.CORSAllowedOrigin
		if origin == "" {
			origin = "*"
		}
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(start),
		}).Debug("Request served")
	})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
