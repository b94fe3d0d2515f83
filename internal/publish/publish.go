// Package publish defines the document workspace capability used by the report pipeline.
package publish

import (
	"context"
	"fmt"

	"news-reporter/internal/document"
)

// Provider creates a new document in a workspace and returns its public URL.
type Provider interface {
	Name() string
	Publish(ctx context.Context, doc document.Document) (string, error)
}

// Error reports that a provider could not create the document.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish to %s failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error for provider, or nil.
func Wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: provider, Err: err}
}
