/*
Package runs tracks asynchronous workflow executions.

A Manager launches each run on its own goroutine and records its progress
(started, running, completed or failed) in a ports.RunStore, so callers can
poll by run id. Record writes for a run id are serialized locally and,
optionally, across replicas through a ports.RunLocker.
*/
package runs
