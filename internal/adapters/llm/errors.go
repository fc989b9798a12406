package llm

import "errors"

// Sentinel kinds for agent invocation errors.
var (
	ErrMissingCredential = errors.New("llm api key is not configured")
	ErrInvoke            = errors.New("llm invocation failed")
	ErrUnknownProvider   = errors.New("unknown llm provider")
)
