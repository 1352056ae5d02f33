/*
Package observability turns dispatch lifecycle events into prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value that can be passed to
actionkit.WithLifecycleHooks, optionally chained with logging hooks through
Chain.
*/
package observability
