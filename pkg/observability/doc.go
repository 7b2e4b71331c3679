/*
Package observability provides tools for monitoring the validator.

Validation calls made through a formcheck.Validator fire lifecycle hooks.
This package defines those hooks and ships two consumers: Prometheus
collectors (Metrics) and structured logging (LogHooks). Chain combines them.
*/
package observability
