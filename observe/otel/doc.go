// Package otel provides an OpenTelemetry observer plugin for the pick
// library. It emits span events (park, resume, decide, nack) with low
// overhead.
package otel
