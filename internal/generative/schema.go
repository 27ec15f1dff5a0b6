package generative

import (
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

type Cardinality string

const (
	CardinalityObject Cardinality = "object"
	CardinalityArray  Cardinality = "array"
)

// Bounds limits the length of an array output. Zero means unbounded.
type Bounds struct {
	MinItems int
	MaxItems int
}

// OutputSpec is the exact shape a generation must satisfy. It is immutable
// once built and safe to share between goroutines.
type OutputSpec struct {
	cardinality Cardinality
	bounds      Bounds
	schema      *jsonschema.Schema
	resolved    *jsonschema.Resolved
}

// NewObjectSpec expects a single value matching schema.
func NewObjectSpec(schema *jsonschema.Schema) (*OutputSpec, error) {
	if schema == nil {
		return nil, errors.New("nil schema")
	}
	return newSpec(CardinalityObject, Bounds{}, schema)
}

// NewArraySpec expects an array whose items match item.
func NewArraySpec(item *jsonschema.Schema, b Bounds) (*OutputSpec, error) {
	if item == nil {
		return nil, errors.New("nil item schema")
	}
	if b.MaxItems > 0 && b.MinItems > b.MaxItems {
		return nil, fmt.Errorf("min items %d above max items %d", b.MinItems, b.MaxItems)
	}
	arr := &jsonschema.Schema{Type: "array", Items: item}
	if b.MinItems > 0 {
		arr.MinItems = Ptr(b.MinItems)
	}
	if b.MaxItems > 0 {
		arr.MaxItems = Ptr(b.MaxItems)
	}
	return newSpec(CardinalityArray, b, arr)
}

func newSpec(c Cardinality, b Bounds, schema *jsonschema.Schema) (*OutputSpec, error) {
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve %s schema: %w", c, err)
	}
	return &OutputSpec{cardinality: c, bounds: b, schema: schema, resolved: resolved}, nil
}

func (s *OutputSpec) Cardinality() Cardinality {
	return s.cardinality
}

// Schema is the full output schema handed to the backend.
func (s *OutputSpec) Schema() *jsonschema.Schema {
	return s.schema
}

func (s *OutputSpec) Bounds() Bounds {
	return s.bounds
}

// SchemaFor derives a schema from T's json and jsonschema tags, then lets
// customize add value constraints.
func SchemaFor[T any](customize func(*jsonschema.Schema) error) (*jsonschema.Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	if customize != nil {
		if err := customize(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func ObjectSpecFor[T any](customize func(*jsonschema.Schema) error) (*OutputSpec, error) {
	s, err := SchemaFor[T](customize)
	if err != nil {
		return nil, err
	}
	return NewObjectSpec(s)
}

func ArraySpecFor[T any](b Bounds, customize func(*jsonschema.Schema) error) (*OutputSpec, error) {
	s, err := SchemaFor[T](customize)
	if err != nil {
		return nil, err
	}
	return NewArraySpec(s, b)
}

// MustSpec panics on error. Use for package-level specs.
func MustSpec(s *OutputSpec, err error) *OutputSpec {
	if err != nil {
		panic(fmt.Sprintf("generative: %v", err))
	}
	return s
}

// Property walks nested object properties.
func Property(s *jsonschema.Schema, path ...string) (*jsonschema.Schema, error) {
	cur := s
	for _, name := range path {
		next, ok := cur.Properties[name]
		if !ok || next == nil {
			return nil, fmt.Errorf("schema has no property %q", name)
		}
		cur = next
	}
	return cur, nil
}

func Ptr[T any](v T) *T {
	return &v
}
