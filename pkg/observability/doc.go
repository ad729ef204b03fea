/*
Package observability turns dialog lifecycle events into Prometheus metrics and structured logs.

Metrics are registered on a private registry so several engines can live in one process
(and in one test binary) without colliding on the global default registerer.
*/
package observability
