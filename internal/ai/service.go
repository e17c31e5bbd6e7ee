package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

var (
	// ErrNotConfigured means no provider credential is present.
	ErrNotConfigured = errors.New("completion provider is not configured")
	// ErrUpstream wraps provider failures; callers receive it instead
	// of provider detail.
	ErrUpstream = errors.New("failed to get AI response")
)

// UnknownContextError enumerates the valid context names so callers
// can correct themselves.
type UnknownContextError struct {
	Context string
}

func (e *UnknownContextError) Error() string {
	return fmt.Sprintf("unknown context: %s. Valid contexts: %s", e.Context, validContextList())
}

// Service maps named contexts to system prompts and proxies the
// combined prompt to the completion provider. It holds no state and
// never retries; repeating a call is always safe.
type Service struct {
	completer Completer
	logger    *log.Logger
}

// NewService builds the proxy. A nil completer marks the provider as
// unconfigured; every call then fails fast with ErrNotConfigured.
func NewService(completer Completer, logger *log.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Generate forwards the message (plus optional structured data) under
// the named context's system prompt and returns the provider's text
// reply.
func (s *Service) Generate(ctx context.Context, contextName, msg string, data json.RawMessage) (string, error) {
	if s.completer == nil {
		return "", ErrNotConfigured
	}

	system, ok := systemPrompts[contextName]
	if !ok {
		return "", &UnknownContextError{Context: contextName}
	}

	user := msg
	if len(data) > 0 {
		pretty, err := json.MarshalIndent(data, "", "  ")
		if err == nil {
			user = fmt.Sprintf("%s\n\nAdditional context:\n%s", msg, pretty)
		}
	}

	text, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		// Log the real cause server-side; callers get a generic
		// failure.
		s.logger.Printf("completion error (context %s): %v", contextName, err)
		return "", ErrUpstream
	}
	return text, nil
}
