// Package provider holds the outcome type shared by live data providers.
package provider

import (
	"fmt"

	"github.com/Domenick1991/travelquery/internal/domain"
)

// Failure describes why a provider call produced no entity. Kind is one of
// domain.ErrProviderNotConfigured or domain.ErrProviderRequestFailed.
type Failure struct {
	Kind  error
	Cause error
}

func (f *Failure) Error() string {
	if f.Cause == nil {
		return f.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (f *Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Cause}
}

// Result is either a value or a Failure, never both.
type Result[T any] struct {
	value   T
	failure *Failure
}

func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

func NotConfigured[T any]() Result[T] {
	return Result[T]{failure: &Failure{Kind: domain.ErrProviderNotConfigured}}
}

func RequestFailed[T any](cause error) Result[T] {
	return Result[T]{failure: &Failure{Kind: domain.ErrProviderRequestFailed, Cause: cause}}
}

// Get returns the value on success, or the zero value and the failure.
func (r Result[T]) Get() (T, *Failure) {
	return r.value, r.failure
}

func (r Result[T]) OK() bool {
	return r.failure == nil
}
