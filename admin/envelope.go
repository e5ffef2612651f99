package admin

import (
	"context"
	"fmt"

	"github.com/viant/tenantadmin/client/request"
)

// Doer issues API calls; *request.Client implements it.
type Doer interface {
	Do(ctx context.Context, path string, opts ...request.Option) (*request.Result, error)
}

// Envelope is the backend response wrapper.
type Envelope[T any] struct {
	Success *bool  `json:"success,omitempty"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Unwrap decodes result as an Envelope and returns its data. An envelope
// flagged unsuccessful becomes a *request.Error carrying its message.
func Unwrap[T any](result *request.Result) (T, error) {
	var envelope Envelope[T]
	var zero T
	if err := result.Decode(&envelope); err != nil {
		return zero, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if envelope.Success != nil && !*envelope.Success {
		return zero, request.NewError(result.Status, result.Data)
	}
	return envelope.Data, nil
}

func call[T any](ctx context.Context, client Doer, path string, opts ...request.Option) (T, error) {
	var zero T
	result, err := client.Do(ctx, path, opts...)
	if err != nil {
		return zero, err
	}
	return Unwrap[T](result)
}
