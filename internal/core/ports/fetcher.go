package ports

import "context"

// ArtifactFetcher downloads a tool artifact to a local file.
type ArtifactFetcher interface {
	// Fetch downloads url into the file at dest, creating it. The caller
	// verifies content integrity; Fetch only moves bytes.
	Fetch(ctx context.Context, url, dest string) error
}
