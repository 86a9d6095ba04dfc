package buildpack

import "go.trai.ch/zerr"

// ErrDetectFailed signals that the application is not a yarn project. The
// CLI maps it to the pipeline's detect-fail exit code; it is not a build
// failure.
var ErrDetectFailed = zerr.New("no yarn.lock found, skipping build")
