// Package generative produces schema-valid values from a generative model
// when no authoritative source can answer.
package generative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/google/jsonschema-go/jsonschema"
	"go.uber.org/zap"
)

// Backend asks a model for JSON conforming to schema. Output is not trusted.
type Backend interface {
	GenerateStructured(ctx context.Context, prompt string, schema *jsonschema.Schema) ([]byte, error)
}

// Generator returns JSON already validated against spec.
type Generator interface {
	Generate(ctx context.Context, prompt string, spec *OutputSpec) (json.RawMessage, error)
}

// ValidationError wraps every way a generation can fail to conform.
type ValidationError struct {
	Cardinality Cardinality
	Cause       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", domain.ErrSchemaValidationFailed, e.Cardinality, e.Cause)
}

func (e *ValidationError) Unwrap() []error {
	return []error{domain.ErrSchemaValidationFailed, e.Cause}
}

type Engine struct {
	backend Backend
	logger  *zap.Logger
}

func NewEngine(backend Backend, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{backend: backend, logger: logger}
}

// Generate makes exactly one backend call, coerces the output toward spec
// and validates it.
func (e *Engine) Generate(ctx context.Context, prompt string, spec *OutputSpec) (json.RawMessage, error) {
	if spec == nil {
		return nil, errors.New("generative: nil output spec")
	}

	raw, err := e.backend.GenerateStructured(ctx, prompt, spec.Schema())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, e.fail(spec, fmt.Errorf("backend: %w", err))
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, e.fail(spec, fmt.Errorf("decode output: %w", err))
	}

	instance = coerce(instance, spec)
	if err := spec.resolved.Validate(instance); err != nil {
		return nil, e.fail(spec, err)
	}

	out, err := json.Marshal(instance)
	if err != nil {
		return nil, e.fail(spec, err)
	}
	return out, nil
}

func (e *Engine) fail(spec *OutputSpec, cause error) error {
	e.logger.Warn("generation rejected",
		zap.String("cardinality", string(spec.Cardinality())),
		zap.Error(cause),
	)
	return &ValidationError{Cardinality: spec.Cardinality(), Cause: cause}
}

// Object generates a single value of type T.
func Object[T any](ctx context.Context, g Generator, prompt string, spec *OutputSpec) (T, error) {
	var v T
	if spec.Cardinality() != CardinalityObject {
		return v, fmt.Errorf("generative: object requested with %s spec", spec.Cardinality())
	}
	raw, err := g.Generate(ctx, prompt, spec)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &ValidationError{Cardinality: CardinalityObject, Cause: err}
	}
	return v, nil
}

// Array generates a slice of T.
func Array[T any](ctx context.Context, g Generator, prompt string, spec *OutputSpec) ([]T, error) {
	if spec.Cardinality() != CardinalityArray {
		return nil, fmt.Errorf("generative: array requested with %s spec", spec.Cardinality())
	}
	raw, err := g.Generate(ctx, prompt, spec)
	if err != nil {
		return nil, err
	}
	var v []T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ValidationError{Cardinality: CardinalityArray, Cause: err}
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}

var _ Generator = (*Engine)(nil)
