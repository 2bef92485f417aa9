// Package otel reserves the OpenTelemetry integration point for the borrow
// library. Lock operations carry no context, so there is no span to attach
// events to; until that changes this package ships a no-op observer.
package otel
