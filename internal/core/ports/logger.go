package ports

// Logger defines the interface for build output logging. Failures are not
// logged through it; the CLI boundary prints the categorized error report
// exactly once.
type Logger interface {
	// Header prints a section header for a build phase.
	Header(msg string)
	Info(msg string)
	Warn(msg string)
}
