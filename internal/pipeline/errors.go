package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRun rejects a submission whose identity already has an
	// in-flight run. Recoverable: resubmit after the first run terminates.
	ErrDuplicateRun = errors.New("disruption identity already in flight")

	// ErrNotFound answers queries for unknown identities or alert ids.
	ErrNotFound = errors.New("not found")
)

// StageError tags a failure with the stage that raised it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Failure is the record surfaced to the caller when a run does not deliver
// an alert. It is never stored in history.
type Failure struct {
	Identity string `json:"identity"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
	Timeout  bool   `json:"timeout"`
}
