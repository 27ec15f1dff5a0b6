package gemini

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/jsonschema-go/jsonschema"
)

// ToGenaiSchema converts the subset of JSON Schema Gemini understands.
// Numeric and length bounds have no native field, so they are appended to
// the description where the model can still read them.
func ToGenaiSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	typ, nullable := schemaType(s)
	out := &genai.Schema{
		Type:        typ,
		Description: describe(s),
		Nullable:    nullable,
	}

	for _, e := range s.Enum {
		if str, ok := e.(string); ok {
			out.Enum = append(out.Enum, str)
		}
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = ToGenaiSchema(prop)
		}
		out.Required = append([]string(nil), s.Required...)
		sort.Strings(out.Required)
	}
	if s.Items != nil {
		out.Items = ToGenaiSchema(s.Items)
	}
	return out
}

func schemaType(s *jsonschema.Schema) (genai.Type, bool) {
	types := s.Types
	if s.Type != "" {
		types = []string{s.Type}
	}
	nullable := false
	for _, t := range types {
		if t == "null" {
			nullable = true
			continue
		}
		return genaiType(t), nullable
	}
	return genai.TypeUnspecified, nullable
}

func genaiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

func describe(s *jsonschema.Schema) string {
	var parts []string
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	if s.Minimum != nil {
		parts = append(parts, fmt.Sprintf("at least %v", *s.Minimum))
	}
	if s.ExclusiveMinimum != nil {
		parts = append(parts, fmt.Sprintf("greater than %v", *s.ExclusiveMinimum))
	}
	if s.Maximum != nil {
		parts = append(parts, fmt.Sprintf("at most %v", *s.Maximum))
	}
	if s.ExclusiveMaximum != nil {
		parts = append(parts, fmt.Sprintf("less than %v", *s.ExclusiveMaximum))
	}
	if s.Pattern != "" {
		parts = append(parts, "matching "+s.Pattern)
	}
	switch {
	case s.MinItems != nil && s.MaxItems != nil && *s.MinItems == *s.MaxItems:
		parts = append(parts, fmt.Sprintf("exactly %d items", *s.MinItems))
	default:
		if s.MinItems != nil {
			parts = append(parts, fmt.Sprintf("at least %d items", *s.MinItems))
		}
		if s.MaxItems != nil {
			parts = append(parts, fmt.Sprintf("at most %d items", *s.MaxItems))
		}
	}
	return strings.Join(parts, "; ")
}
