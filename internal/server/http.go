package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"nucc.com/svc_lifecycle/internal/config"
	"nucc.com/svc_lifecycle/internal/directory"
	"nucc.com/svc_lifecycle/internal/lifecycle"
)

// HTTPServer exposes the lifecycle operations over a host-local HTTP
// surface. It is a thin presentation layer; all semantics live in the
// lifecycle controllers.
type HTTPServer struct {
	dir     lifecycle.Directory
	start   *lifecycle.StartController
	restart *lifecycle.ForceRestartController
	config  *config.Config
	logger  *logrus.Logger
}

func NewHTTPServer(cfg *config.Config, logger *logrus.Logger, dir lifecycle.Directory, start *lifecycle.StartController, restart *lifecycle.ForceRestartController) *HTTPServer {
	return &HTTPServer{
		dir:     dir,
		start:   start,
		restart: restart,
		config:  cfg,
		logger:  logger,
	}
}

func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Infof("HTTP server listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *HTTPServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/services/{name}", s.handleGetService).Methods("GET")
	router.HandleFunc("/services/{name}/start", s.handleStart).Methods("POST")
	router.HandleFunc("/services/{name}/force-restart", s.handleForceRestart).Methods("POST")
	return router
}

type startRequest struct {
	TimeoutSeconds float64 `json:"timeout_seconds"`
	Passthrough    bool    `json:"passthrough"`
}

type forceRestartRequest struct {
	StopTimeoutSeconds  float64 `json:"stop_timeout_seconds"`
	StartTimeoutSeconds float64 `json:"start_timeout_seconds"`
	KillDependents      bool    `json:"kill_dependents"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *HTTPServer) handleGetService(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	desc, err := s.dir.Resolve(name)
	if err != nil {
		if directory.IsNotFound(err) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, desc)
}

func (s *HTTPServer) handleStart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TimeoutSeconds <= 0 {
		s.writeError(w, http.StatusBadRequest, "timeout_seconds must be positive")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"service": name,
		"timeout": req.TimeoutSeconds,
	}).Info("Start requested")

	result := s.start.Start(r.Context(), name, secondsToDuration(req.TimeoutSeconds), req.Passthrough)
	s.writeJSON(w, statusFor(result.Succeeded), result)
}

func (s *HTTPServer) handleForceRestart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req forceRestartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.StopTimeoutSeconds <= 0 || req.StartTimeoutSeconds <= 0 {
		s.writeError(w, http.StatusBadRequest, "stop_timeout_seconds and start_timeout_seconds must be positive")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"service":         name,
		"stop_timeout":    req.StopTimeoutSeconds,
		"start_timeout":   req.StartTimeoutSeconds,
		"kill_dependents": req.KillDependents,
	}).Info("Force restart requested")

	// Detach from the request context so an aborted request cannot cancel a
	// restart mid-escalation.
	result := s.restart.ForceRestart(context.Background(), name, secondsToDuration(req.StopTimeoutSeconds), secondsToDuration(req.StartTimeoutSeconds), req.KillDependents)
	s.writeJSON(w, statusFor(result.Succeeded), result)
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// statusFor maps operation outcomes onto HTTP codes. Failures still carry the
// full OperationResult body; the code is informational only.
func statusFor(succeeded bool) int {
	if succeeded {
		return http.StatusOK
	}
	return http.StatusConflict
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
