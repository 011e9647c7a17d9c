// Package server provides the HTTP adapter around the validation service.
package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/raphaelgruber/structproof/internal/proof"
	"github.com/raphaelgruber/structproof/internal/service"
	"github.com/raphaelgruber/structproof/internal/validate"
)

// Server exposes the validation capability set over HTTP.
type Server struct {
	svc      *service.ValidationService
	defaults validate.Config
	logger   *slog.Logger
}

// New creates a server. defaults is the validation policy applied when a
// request omits policy fields.
func New(svc *service.ValidationService, defaults validate.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:      svc,
		defaults: defaults,
		logger:   logger,
	}
}

// Handler returns the routed HTTP handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/validate", s.handleValidate)
	mux.HandleFunc("POST /v1/prove", s.handleProve)
	mux.HandleFunc("POST /v1/verify", s.handleVerify)
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	return LoggingMiddleware(s.logger)(mux)
}

// validateRequest carries a base64 payload plus optional policy overrides.
type validateRequest struct {
	Payload     string   `json:"payload"`
	Threshold   *float64 `json:"entropy_threshold,omitempty"`
	Mode        *string  `json:"validation_mode,omitempty"`
	DivisorEcho *bool    `json:"divisor_echo_enabled,omitempty"`
	TimeoutMs   *int64   `json:"verification_timeout_ms,omitempty"`
}

type validateResponse struct {
	StructurallyValid  bool                   `json:"is_structurally_valid"`
	EntropyScore       float64                `json:"entropy_score"`
	VerificationTimeMs int64                  `json:"verification_time_ms"`
	StructuralProof    *proof.StructuralProof `json:"structural_proof,omitempty"`
}

// config merges request overrides onto the server defaults.
func (req *validateRequest) config(defaults validate.Config) validate.Config {
	cfg := defaults
	if req.Threshold != nil {
		cfg.EntropyThreshold = *req.Threshold
	}
	if req.Mode != nil {
		cfg.Mode = *req.Mode
	}
	if req.DivisorEcho != nil {
		cfg.DivisorEchoEnabled = *req.DivisorEcho
	}
	if req.TimeoutMs != nil {
		cfg.VerificationTimeout = msToDuration(*req.TimeoutMs)
	}
	return cfg
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode payload: %v", err))
		return
	}

	result := s.svc.Validate(r.Context(), data, req.config(s.defaults))
	writeJSON(w, http.StatusOK, validateResponse{
		StructurallyValid:  result.StructurallyValid,
		EntropyScore:       result.EntropyScore,
		VerificationTimeMs: result.VerificationTime.Milliseconds(),
		StructuralProof:    result.Proof,
	})
}

type proveRequest struct {
	Payload string `json:"payload"`
}

type proveResponse struct {
	Proven bool                   `json:"proven"`
	Proof  *proof.StructuralProof `json:"proof,omitempty"`
}

func (s *Server) handleProve(w http.ResponseWriter, r *http.Request) {
	var req proveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode payload: %v", err))
		return
	}

	p := s.svc.GenerateProof(r.Context(), data)
	writeJSON(w, http.StatusOK, proveResponse{
		Proven: p != nil,
		Proof:  p,
	})
}

type verifyRequest struct {
	Proof     *proof.StructuralProof `json:"proof"`
	Threshold float64                `json:"threshold"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	if req.Proof == nil {
		writeError(w, http.StatusBadRequest, "missing proof")
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Valid: s.svc.VerifyProof(r.Context(), req.Proof, req.Threshold),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
