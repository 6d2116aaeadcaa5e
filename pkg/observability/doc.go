/*
Package observability turns engine lifecycle events into logs and Prometheus metrics.

Every helper returns a domain.LifecycleHooks value; Combine merges several of
them so one engine can feed logs and metrics at the same time.
*/
package observability
