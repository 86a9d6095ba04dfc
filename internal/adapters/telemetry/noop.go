// Package telemetry provides build phase recording implementations.
package telemetry

import (
	"context"

	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// NoOpTelemetry is a no-op implementation of ports.Telemetry.
type NoOpTelemetry struct{}

// NewNoOp creates a new NoOpTelemetry.
func NewNoOp() *NoOpTelemetry {
	return &NoOpTelemetry{}
}

// Record returns a no-op vertex.
func (t *NoOpTelemetry) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &NoOpVertex{}
}

// Close does nothing.
func (t *NoOpTelemetry) Close() error { return nil }

// NoOpVertex is a no-op implementation of ports.Vertex.
type NoOpVertex struct{}

// Write discards p.
func (v *NoOpVertex) Write(p []byte) (int, error) { return len(p), nil }

// Done does nothing.
func (v *NoOpVertex) Done(_ error) {}

// Cached does nothing.
func (v *NoOpVertex) Cached() {}
