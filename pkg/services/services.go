// Package services defines the contract every cloud integration implements,
// so heterogeneous extraction and synthesis calls normalize into one result
// shape the UI can render uniformly.
package services

import (
	"context"
	"errors"
	"fmt"
)

// ErrCredentialMissing marks an integration whose required credentials are
// absent. The integration reports itself unavailable instead of failing.
var ErrCredentialMissing = errors.New("required credentials are not configured")

// ValidationError rejects user input before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UploadedFile is an uploaded file passed by value: no duck typing, no open
// handles. Files are never retained after the triggering request completes.
type UploadedFile struct {
	Filename    string
	Content     []byte
	ContentType string
}

// SynthesisInput is the user request for one synthesis call.
type SynthesisInput struct {
	Text                  string
	OutputName            string
	CaptureWordBoundaries bool
	LogSSML               bool
}

// Session carries per-request UI state explicitly instead of ambient globals.
type Session struct {
	RequestID         string
	SelectedProfileID string
}

// Result is the normalized outcome of one handler call. A failed external
// call is reported through Error; handlers never propagate raw transport
// errors. ProcessingTime is seconds around the external call, recorded for
// display only.
type Result struct {
	Service        string         `json:"service"`
	Error          string         `json:"error,omitempty"`
	ProcessingTime float64        `json:"processing_time"`
	Payload        map[string]any `json:"payload,omitempty"`
}

// Ok reports whether the call produced a payload rather than an error row.
func (r *Result) Ok() bool { return r.Error == "" }

// Failure builds an error result for a service.
func Failure(service string, err error) *Result {
	return &Result{Service: service, Error: err.Error()}
}

// Handler is the capability every integration exposes. Availability is a
// flag computed at construction time; a handler with missing credentials is
// constructed fine but reports Available() == false, so the hosting UI can
// grey the option out.
type Handler interface {
	Service() string
	Available() bool
}

// Extractor processes an uploaded document and returns extraction fields.
type Extractor interface {
	Handler
	Extract(ctx context.Context, file UploadedFile, sess *Session) *Result
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	Handler
	Synthesize(ctx context.Context, in SynthesisInput, sess *Session) *Result
}
