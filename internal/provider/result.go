package provider

import (
	"context"
	"errors"
	"strings"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
)

// Result is the outcome of one completion call: either Success(text) or
// Failure(code, err). Providers are decoded into a Result exactly once, so
// callers never inspect raw responses or provider-specific errors.
type Result struct {
	text string
	code string
	err  error
}

// Success wraps a completion text.
func Success(text string) Result {
	return Result{text: text}
}

// Failure records why a completion could not be produced. code is one of the
// pilotErrors codes.
func Failure(code string, err error) Result {
	if err == nil {
		err = pilotErrors.New(code, "completion failed")
	}
	return Result{code: code, err: err}
}

// OK reports whether the result carries a completion.
func (r Result) OK() bool { return r.err == nil }

// Text returns the completion text; empty for failures.
func (r Result) Text() string { return r.text }

// Code returns the failure code; empty for successes.
func (r Result) Code() string { return r.code }

// Err returns the failure cause; nil for successes.
func (r Result) Err() error { return r.err }

// Decode collapses a Complete call into a Result. Context expiry maps to
// TIMEOUT, coded provider errors keep their code, anything else is
// UPSTREAM_UNAVAILABLE. A response without usable text is a
// RESPONSE_SHAPE_MISMATCH.
func Decode(resp *Response, err error) Result {
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return Failure(pilotErrors.CodeTimeout, err)
		case pilotErrors.AsCode(err) != "":
			return Failure(pilotErrors.AsCode(err), err)
		default:
			return Failure(pilotErrors.CodeUpstream, err)
		}
	}
	if resp == nil {
		return Failure(pilotErrors.CodeResponseShape, pilotErrors.New(pilotErrors.CodeResponseShape, "provider returned no response"))
	}
	if strings.TrimSpace(resp.Content) == "" {
		return Failure(pilotErrors.CodeResponseShape, pilotErrors.New(pilotErrors.CodeResponseShape, "provider returned no text"))
	}
	return Success(resp.Content)
}
