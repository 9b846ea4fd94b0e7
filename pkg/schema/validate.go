package schema

import "sort"

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate checks data against the schema and reports every failure,
// ordered by field name. Keys absent from the schema are ignored.
func Validate(s Schema, data map[string]any) error {
	if len(s) == 0 {
		return nil
	}

	fields := make([]string, 0, len(s))
	for name := range s {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var errs []error
	for _, name := range fields {
		fieldType := s[name]
		value, exists := data[name]
		if !exists {
			if !IsOptional(fieldType) {
				errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			}
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateInput parses a type map and validates data against it.
// A nil or empty type map accepts anything.
func ValidateInput(typeMap map[string]string, data map[string]any) error {
	if len(typeMap) == 0 {
		return nil
	}
	s, err := ParseTypeMap(typeMap)
	if err != nil {
		return err
	}
	return Validate(s, data)
}
