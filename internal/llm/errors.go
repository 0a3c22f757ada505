package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrNoProvider indicates that no chat completion backend is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

// FailureClass buckets provider failures for the fallback decision and
// the user-visible notice. Every class falls through to the next
// provider; the class only changes the wording.
type FailureClass int

const (
	FailureTransport FailureClass = iota
	FailureTimeout
	FailureRateLimit
	FailureAuth
)

// String returns the notice wording fragment for the class.
func (c FailureClass) String() string {
	switch c {
	case FailureTimeout:
		return "timeout"
	case FailureRateLimit:
		return "rate limit reached"
	case FailureAuth:
		return "authentication failed"
	default:
		return "request failed"
	}
}

// Classify buckets a provider error by message content. Provider SDKs
// surface HTTP status and API error text in the error string, so
// substring matching covers both transports.
func Classify(err error) FailureClass {
	if err == nil {
		return FailureTransport
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return FailureTimeout
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"):
		return FailureRateLimit
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"), strings.Contains(msg, "forbidden"),
		strings.Contains(msg, "api key"), strings.Contains(msg, "authentication"):
		return FailureAuth
	default:
		return FailureTransport
	}
}
