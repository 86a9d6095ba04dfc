package domain

import "go.trai.ch/zerr"

var (
	// ErrNoMatchingRelease is returned when no inventory entry satisfies the
	// requested version requirement. This is a user-facing error: the
	// declared range cannot be honored.
	ErrNoMatchingRelease = zerr.New("no known yarn release satisfies the requirement")

	// ErrChecksumMismatch is returned when a downloaded artifact does not
	// match the inventory checksum. Unverified content is never installed.
	ErrChecksumMismatch = zerr.New("artifact checksum mismatch")

	// ErrArtifactUnavailable is returned when an artifact cannot be fetched
	// or extracted. It is not retried here; retry policy belongs to the
	// fetch collaborator.
	ErrArtifactUnavailable = zerr.New("artifact unavailable")

	// ErrYarnUnsupported is returned when the resolved yarn major version
	// has no supported mode.
	ErrYarnUnsupported = zerr.New("unsupported yarn major version")

	// ErrUnparsableOutput is returned when a tool's output does not match
	// the expected shape.
	ErrUnparsableOutput = zerr.New("unparsable command output")

	// ErrManifestMalformed is returned when package.json cannot be read or
	// parsed.
	ErrManifestMalformed = zerr.New("malformed package.json")

	// ErrInventoryParse is returned when the embedded release inventory
	// cannot be parsed. Fatal before any build phase runs.
	ErrInventoryParse = zerr.New("inventory parse failure")
)

// ErrorCategory is the scannable failure header shown to the user. Every
// build failure maps to exactly one category; internal detail is preserved
// in the message body.
type ErrorCategory string

const (
	// CategoryVersion covers version detection, resolution and unsupported
	// majors.
	CategoryVersion ErrorCategory = "Yarn version error"
	// CategoryCache covers cache folder queries and global cache config.
	CategoryCache ErrorCategory = "Yarn cache error"
	// CategoryInstall covers dependency installation failures.
	CategoryInstall ErrorCategory = "Yarn install error"
	// CategoryBuildScript covers build script failures.
	CategoryBuildScript ErrorCategory = "Yarn build script error"
	// CategoryDistLayer covers yarn distribution layer failures.
	CategoryDistLayer ErrorCategory = "Yarn distribution layer error"
	// CategoryDepsLayer covers dependency cache layer failures.
	CategoryDepsLayer ErrorCategory = "Yarn dependency layer error"
	// CategoryInventory covers inventory parse failures.
	CategoryInventory ErrorCategory = "Yarn inventory parse error"
	// CategoryManifest covers package.json failures.
	CategoryManifest ErrorCategory = "Yarn package.json error"
	// CategoryBuildPlan covers build plan metadata failures.
	CategoryBuildPlan ErrorCategory = "Yarn buildplan error"
	// CategoryInternal covers everything that escaped the closed set above.
	CategoryInternal ErrorCategory = "Internal buildpack error"
)

// BuildError is a build failure tagged with its user-facing category.
// The orchestrator wraps every phase failure into one of these so the CLI
// boundary can print a consistent header without inspecting causes.
type BuildError struct {
	Category ErrorCategory
	Err      error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return string(e.Category) + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause for diagnostic display.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// NewBuildError tags an error with its category.
func NewBuildError(category ErrorCategory, err error) *BuildError {
	return &BuildError{Category: category, Err: err}
}
