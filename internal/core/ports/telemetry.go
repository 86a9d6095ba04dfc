package ports

import (
	"context"
	"io"
)

// Telemetry records build phases as vertexes for progress rendering.
type Telemetry interface {
	// Record starts recording a new vertex for a build phase.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work. Command output is streamed
// into it via the io.Writer.
type Vertex interface {
	io.Writer
	// Done completes the vertex, with err recorded on failure.
	Done(err error)
	// Cached marks the vertex as satisfied from cache.
	Cached()
}
