package domain

// OutcomeStatus classifies how an external command invocation ended.
// The three-way split is load-bearing: a spawn failure means the tool is not
// installed and triggers the install branch, while a non-zero exit is always
// a propagated failure.
type OutcomeStatus int

const (
	// OutcomeSuccess means the command ran and exited zero.
	OutcomeSuccess OutcomeStatus = iota
	// OutcomeExit means the command ran and exited non-zero.
	OutcomeExit
	// OutcomeSpawnFailed means the binary could not be found or started.
	OutcomeSpawnFailed
)

// Outcome is the result of one external command invocation.
type Outcome struct {
	Status   OutcomeStatus
	Stdout   string
	Stderr   string
	ExitCode int
	// SpawnErr carries the underlying error when Status is OutcomeSpawnFailed.
	SpawnErr error
}
