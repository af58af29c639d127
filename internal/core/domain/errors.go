package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrJudgmentNotFound = errors.New("judgment not found")
	ErrSessionNotFound  = errors.New("session not found")

	// Retrieval failure kinds.
	ErrSearchUnavailable = errors.New("search unavailable")
	ErrSearchTimeout     = errors.New("search timeout")
	ErrEmptyCorpus       = errors.New("empty corpus")

	// Generation failure kinds.
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrGenerationTimeout = errors.New("generation timeout")
	ErrEmptyCompletion   = errors.New("empty completion")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
