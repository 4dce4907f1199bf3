package main

import "fmt"

// ConfigError reports missing required environment variables.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %v", e.Missing)
}

// AuthError represents rejected credentials for an external service.
type AuthError struct {
	Service string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s", e.Service)
}

// HTTPError represents an unexpected HTTP status code.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ParseError represents a malformed response from an external service.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProviderError represents a failed language-model call. Per-item: the
// orchestrator records it and moves on to the next article.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("summarization provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// RepoError represents a failed working-copy operation. Run-fatal.
type RepoError struct {
	Op  string
	Err error
}

func (e *RepoError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepoError) Unwrap() error { return e.Err }

// PushError represents a rejected remote update. Run-fatal; commits already
// pushed earlier remain valid.
type PushError struct {
	Err error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push rejected: %v", e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }
