package domain

import "reflect"

// Update is a partial update merged into State.Data by overwrite-per-key.
type Update map[string]any

// Decision is the explicit result form for condition handlers.
// Branch selects the "true" or "false" edge; Update is merged like any mapping result.
type Decision struct {
	Branch bool
	Update Update
}

// AsUpdate extracts the mapping part of a raw handler result.
// Any map keyed by a string kind counts as a mapping, including named types
// such as map[string]int. It reports false for results that contribute
// nothing to the merge.
func AsUpdate(result any) (map[string]any, bool) {
	switch v := result.(type) {
	case map[string]any:
		return v, true
	case Update:
		return v, true
	case Decision:
		return v.Update, true
	case *Decision:
		if v == nil {
			return nil, false
		}
		return v.Update, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// BranchValue resolves the boolean used to pick a condition branch.
// A Decision is taken at face value; anything else goes through Truthy.
func BranchValue(result any) bool {
	switch v := result.(type) {
	case Decision:
		return v.Branch
	case *Decision:
		if v != nil {
			return v.Branch
		}
	}
	return Truthy(result)
}

// Truthy reports whether a raw value counts as true.
// False values: nil, false, numeric zero, "", empty slices, arrays and maps, nil pointers.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Func:
		return !rv.IsNil()
	}
	return true
}
