package llm

import "errors"

var (
	ErrAPIKeyRequired   = errors.New("llm: api key is required")
	ErrUnknownProvider  = errors.New("llm: unknown provider")
	ErrEmptyCompletion  = errors.New("llm: provider returned no completion")
	ErrRateLimited      = errors.New("llm: rate limit exceeded")
	ErrGenerationFailed = errors.New("llm: generation failed")
)
