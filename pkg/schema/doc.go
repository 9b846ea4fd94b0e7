// Package schema validates workflow input data against a declared type map.
//
// A workflow definition may carry an input_schema that maps data keys to
// type names:
//
//	input_schema:
//	  code: string
//	  max_issues: int?
//	  tags: "[string]"
//
// Supported names are string, int, float, bool, map and any, a slice
// written as [elem], and a trailing "?" for optional keys. Runs whose
// initial data does not conform fail before the first node executes,
// with an error matching ErrInvalidInput.
package schema
