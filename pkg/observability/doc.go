/*
Package observability provides lifecycle hooks for monitoring the Flowline engine.

Metrics records Prometheus counters and histograms for runs and node
executions; LoggingHooks emits structured slog records for the same events.
Both return domain.LifecycleHooks that can be combined with
flowline.WithLifecycleHooks.
*/
package observability
