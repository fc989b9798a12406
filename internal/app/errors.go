package service

import "errors"

// Sentinel kinds for service errors. Agent failures wrap llm.ErrInvoke and
// persistence failures wrap repository.ErrStorage.
var (
	ErrMissingInput  = errors.New("missing input")
	ErrBadRequest    = errors.New("bad request")
	ErrNotStarted    = errors.New("service not started")
	ErrNotConfigured = errors.New("service is missing a dependency")
)
