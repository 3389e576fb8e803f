package cf

import (
	"fmt"
)

// Section returns v as a string keyed map, accepting the map[interface{}]interface{} shape some yaml decoders
// produce. Nested maps and slices are converted as well.
//
func Section(v interface{}) (map[string]interface{}, bool) {
	switch m := normalize(v).(type) {
	case map[string]interface{}:
		return m, true
	default:
		return nil, false
	}
}

func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[fmt.Sprintf("%v", k)] = normalize(e)
		}
		return out

	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}
		return out

	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out

	default:
		return v
	}
}
