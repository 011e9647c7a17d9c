// Package service exposes the validation capability set that every external
// binding (CLI, HTTP server, policy hooks) adapts to.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/raphaelgruber/structproof/internal/audit"
	"github.com/raphaelgruber/structproof/internal/divisor"
	"github.com/raphaelgruber/structproof/internal/entropy"
	"github.com/raphaelgruber/structproof/internal/metrics"
	"github.com/raphaelgruber/structproof/internal/proof"
	"github.com/raphaelgruber/structproof/internal/validate"
)

// ValidationService wraps the pure core with logging, metrics, and the
// optional audit decision log. The core packages stay side-effect free;
// everything observable happens here.
type ValidationService struct {
	validator *validate.Validator
	logger    *slog.Logger
	collector *metrics.Collector
	auditLog  *audit.Store
}

// NewValidationService creates a validation service. collector and auditLog
// may be nil; nil disables the corresponding sink.
func NewValidationService(logger *slog.Logger, collector *metrics.Collector, auditLog *audit.Store) *ValidationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationService{
		validator: validate.New(logger),
		logger:    logger,
		collector: collector,
		auditLog:  auditLog,
	}
}

// Validate runs structural validation on data under cfg and records the
// decision in the metrics collector and audit log.
func (s *ValidationService) Validate(ctx context.Context, data []byte, cfg validate.Config) validate.Result {
	result := s.validator.Validate(data, cfg)

	timeout := cfg.VerificationTimeout
	if timeout < 0 {
		timeout = 0
	}
	timedOut := result.VerificationTime > timeout

	if s.collector != nil {
		s.collector.RecordTiming(metrics.OpValidate, result.VerificationTime)
		s.collector.RecordOutcome(result.StructurallyValid, timedOut)
	}

	s.logger.Debug("validation completed",
		"valid", result.StructurallyValid,
		"entropy_score", result.EntropyScore,
		"duration_ms", result.VerificationTime.Milliseconds(),
	)

	s.recordAudit(ctx, result, timedOut)
	return result
}

// recordAudit writes the decision (and any timeout override) to the audit
// log. Audit failures are logged, never propagated: a broken decision log
// must not turn a computed result into an error.
func (s *ValidationService) recordAudit(ctx context.Context, result validate.Result, timedOut bool) {
	if s.auditLog == nil {
		return
	}

	event := audit.Event{
		Type:         audit.EventValidate,
		Valid:        result.StructurallyValid,
		EntropyScore: result.EntropyScore,
		DurationMs:   result.VerificationTime.Milliseconds(),
	}
	if timedOut {
		event.Type = audit.EventTimeoutOverride
		event.Reason = "verification exceeded timeout"
	}

	if err := s.auditLog.Log(ctx, event); err != nil {
		s.logger.Error("failed to record audit event", "error", err)
	}
}

// EntropySignature computes the entropy signature of data.
func (s *ValidationService) EntropySignature(data []byte) entropy.Signature {
	start := time.Now()
	sig := entropy.ComputeSignature(data)
	if s.collector != nil {
		s.collector.RecordTiming(metrics.OpEntropy, time.Since(start))
	}
	return sig
}

// DivisorEcho reports whether data, read as a big-endian integer, passes
// the divisor-echo structural test.
func (s *ValidationService) DivisorEcho(data []byte) bool {
	return divisor.EchoValid(divisor.FromBytes(data))
}

// GenerateProof builds a structural proof for data, or nil when the
// divisor-echo test fails.
func (s *ValidationService) GenerateProof(ctx context.Context, data []byte) *proof.StructuralProof {
	start := time.Now()
	p := proof.Generate(data)
	elapsed := time.Since(start)

	if s.collector != nil {
		s.collector.RecordTiming(metrics.OpProve, elapsed)
	}
	if s.auditLog != nil {
		err := s.auditLog.Log(ctx, audit.Event{
			Type:       audit.EventProve,
			Valid:      p != nil,
			DurationMs: elapsed.Milliseconds(),
		})
		if err != nil {
			s.logger.Error("failed to record audit event", "error", err)
		}
	}
	return p
}

// VerifyProof checks a previously generated proof against a threshold.
// The original bytes are not required.
func (s *ValidationService) VerifyProof(ctx context.Context, p *proof.StructuralProof, threshold float64) bool {
	start := time.Now()
	ok := proof.Verify(p, threshold)
	elapsed := time.Since(start)

	if s.collector != nil {
		s.collector.RecordTiming(metrics.OpVerify, elapsed)
	}
	if s.auditLog != nil {
		err := s.auditLog.Log(ctx, audit.Event{
			Type:       audit.EventVerify,
			Valid:      ok,
			DurationMs: elapsed.Milliseconds(),
		})
		if err != nil {
			s.logger.Error("failed to record audit event", "error", err)
		}
	}
	return ok
}

// Stats returns a snapshot of runtime metrics, or the zero value when no
// collector is attached.
func (s *ValidationService) Stats() metrics.Snapshot {
	if s.collector == nil {
		return metrics.Snapshot{}
	}
	return s.collector.Snapshot()
}

// AuditLog returns the attached decision log, or nil.
func (s *ValidationService) AuditLog() *audit.Store {
	return s.auditLog
}
