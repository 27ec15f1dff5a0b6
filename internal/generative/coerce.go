package generative

import "github.com/google/jsonschema-go/jsonschema"

// coerce repairs the common ways a model drifts from an otherwise usable
// answer: an array wrapped in a single-key object, too many items, and
// properties the schema does not declare. Everything else is left for
// validation to reject.
func coerce(instance any, spec *OutputSpec) any {
	if spec.Cardinality() == CardinalityArray {
		instance = unwrapArray(instance)
		if arr, ok := instance.([]any); ok && spec.bounds.MaxItems > 0 && len(arr) > spec.bounds.MaxItems {
			instance = arr[:spec.bounds.MaxItems]
		}
	}
	return prune(instance, spec.Schema())
}

func unwrapArray(instance any) any {
	obj, ok := instance.(map[string]any)
	if !ok || len(obj) != 1 {
		return instance
	}
	for _, v := range obj {
		if arr, ok := v.([]any); ok {
			return arr
		}
	}
	return instance
}

func prune(instance any, s *jsonschema.Schema) any {
	if s == nil {
		return instance
	}
	switch v := instance.(type) {
	case map[string]any:
		if len(s.Properties) == 0 {
			return v
		}
		for k, child := range v {
			ps, ok := s.Properties[k]
			if !ok {
				delete(v, k)
				continue
			}
			v[k] = prune(child, ps)
		}
		return v
	case []any:
		for i := range v {
			v[i] = prune(v[i], s.Items)
		}
		return v
	default:
		return v
	}
}
