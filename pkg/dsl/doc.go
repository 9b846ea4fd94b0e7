/*
Package dsl provides a fluent API for defining Flowline graphs in Go code.

	g, err := dsl.New("review").Entry("extract").
		Task("extract", "extract_functions").Go("decide").
		Condition("decide", "quality_ok").OnTrue("done").OnFalse("extract").
		Task("done", "end_workflow").Terminal().
		Build()
*/
package dsl
