// Package common defines the sentinel errors shared by every component of the
// platform. Handlers and the orchestrator use errors.Is against these values
// to distinguish expected misses from real failures.
package common

import "errors"

// Lookup and lifecycle errors.
var (
	// ErrNotFound means the referenced entity id or username does not resolve.
	ErrNotFound = errors.New("entity not found")
	// ErrNotApproved means a response was attempted on a petition that has not
	// reached its signature threshold.
	ErrNotApproved = errors.New("petition has not met its signature threshold")
	// ErrNoFeedback means an average rating was requested for a response with
	// zero feedback records.
	ErrNoFeedback = errors.New("no feedback recorded for response")
)

// Validation and authorization errors.
var (
	// ErrInvalidRating means a rating outside the configured bounds.
	ErrInvalidRating = errors.New("rating outside allowed bounds")
	// ErrUnauthorized means the caller identity does not match the acting-as
	// identity claimed for a signature or feedback submission.
	ErrUnauthorized = errors.New("caller identity does not match acting user")
	// ErrInvalidToken means a business access token that resolves to nothing.
	ErrInvalidToken = errors.New("invalid business token")
)

// ErrStorage wraps repository-level failures so callers can treat all of
// them uniformly.
var ErrStorage = errors.New("storage failure")
