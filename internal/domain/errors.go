package domain

import "errors"

var (
	// ErrNothingRecognized is returned when receipt text yields no line items
	ErrNothingRecognized = errors.New("no items recognized in receipt text")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInventoryNotFound is returned when an inventory collection endpoint does not exist
	ErrInventoryNotFound = errors.New("inventory collection not found")

	// ErrInventoryAPIFailure is returned when the inventory API request fails
	ErrInventoryAPIFailure = errors.New("inventory API request failed")

	// ErrMatcherUnavailable is returned when no LLM name matcher is configured
	ErrMatcherUnavailable = errors.New("LLM name matcher unavailable")

	// ErrMalformedResponse is returned when an LLM response cannot be decoded
	ErrMalformedResponse = errors.New("malformed LLM response")
)
