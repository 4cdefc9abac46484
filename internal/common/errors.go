// Package common defines shared sentinel errors used across DraftKit
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors: provider, model, or API key not set up yet.
	ErrNotConfigured    = errors.New("llm model is not configured")
	ErrAPIKeyMissing    = errors.New("api key is missing")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrUnknownModel     = errors.New("model does not belong to provider")
	ErrInvalidMsgCount  = errors.New("message count must be between 2 and 5")
	ErrGenerationActive = errors.New("a generation is already in progress")
)
