package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrContractViolation marks model output that could not be decoded or validated
var ErrContractViolation = errors.New("contract violation")

// Contract is implemented by output types that check their own invariants
type Contract interface {
	Validate() error
}

// Call describes one contract-guarded invocation for logging
type Call struct {
	Pipeline  string
	RequestID string

	// Retries after the first attempt; zero means the default of one
	Retries int
}

// NewRequestID returns a fresh request id
func NewRequestID() string {
	return uuid.NewString()
}

// RunWithContract invokes the provider, decodes the reply into T and validates it.
// Any failure is retried with identical input; the last error is returned once
// the retries are spent.
func RunWithContract[T any, PT interface {
	*T
	Contract
}](ctx context.Context, p Provider, req GenerateRequest, call Call) (*T, error) {
	if call.RequestID == "" {
		call.RequestID = NewRequestID()
	}
	if call.Pipeline == "" {
		call.Pipeline = "unknown"
	}
	retries := call.Retries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, fmt.Errorf("%w (last attempt: %v)", err, lastErr)
			}
			return nil, err
		}

		start := time.Now()
		out, modelName, parseValid, err := attemptContract[T, PT](ctx, p, req)
		attrs := []any{
			"req_id", call.RequestID,
			"pipeline", call.Pipeline,
			"provider", p.Name(),
			"model", modelName,
			"latency_ms", time.Since(start).Milliseconds(),
			"parse_valid", parseValid,
			"contract_valid", err == nil,
			"retry", attempt,
		}
		if err == nil {
			slog.Info("llm call", attrs...)
			return out, nil
		}

		slog.Warn("llm call failed", append(attrs, "error", err)...)
		lastErr = err
	}

	slog.Error("llm retries exhausted", "req_id", call.RequestID, "pipeline", call.Pipeline, "provider", p.Name())
	return nil, lastErr
}

func attemptContract[T any, PT interface {
	*T
	Contract
}](ctx context.Context, p Provider, req GenerateRequest) (*T, string, bool, error) {
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return nil, req.Model, false, err
	}

	out := new(T)
	if err := json.Unmarshal([]byte(StripCodeFences(resp.Text)), out); err != nil {
		return nil, resp.Model, false, fmt.Errorf("%w: decode: %v", ErrContractViolation, err)
	}
	if err := PT(out).Validate(); err != nil {
		return nil, resp.Model, true, fmt.Errorf("%w: %v", ErrContractViolation, err)
	}
	return out, resp.Model, true, nil
}

// StripCodeFences returns the body of the first ```json (or bare ```) block,
// or the trimmed input when there is none
func StripCodeFences(s string) string {
	if _, after, ok := strings.Cut(s, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(s, "```"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(s)
}
