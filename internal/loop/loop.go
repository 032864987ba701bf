package loop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thruflo/ralph/internal/logging"
	"github.com/thruflo/ralph/internal/state"
)

// ErrNotFound indicates that no persisted loop state exists at the given
// path (or the file content was not recognizable as loop state).
var ErrNotFound = errors.New("no ralph loop found")

// InvalidInputError reports a rejected Setup argument.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// IterateResult reports the outcome of an Iterate call.
type IterateResult struct {
	// State is the loop state after the call.
	State *state.LoopState
	// Advanced is false when the loop was not continuable and the state
	// was returned unchanged.
	Advanced bool
	// CanContinue reports whether further iterations are possible.
	CanContinue bool
}

// Setup creates a new loop and persists it. The prompt must be non-blank
// and maxIterations non-negative (zero means unlimited). Parent directories
// for the state file are created as needed.
func Setup(prompt string, maxIterations int, completionPromise, path string) (*state.LoopState, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, InvalidInputError{Field: "prompt", Message: "cannot be empty"}
	}
	if maxIterations < 0 {
		return nil, InvalidInputError{Field: "max_iterations", Message: "must be non-negative"}
	}

	st := state.New(prompt, maxIterations, completionPromise)
	if err := st.Save(path); err != nil {
		return nil, err
	}

	logging.Debug("loop created", "path", path, "max_iterations", maxIterations)
	return st, nil
}

// Cancel deactivates the persisted loop. Idempotent: cancelling an already
// stopped loop persists it stopped again.
func Cancel(path string) (*state.LoopState, error) {
	st, err := state.Load(path)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}

	st.Active = false
	if err := st.Save(path); err != nil {
		return nil, err
	}

	logging.Debug("loop cancelled", "path", path, "iteration", st.Iteration)
	return st, nil
}

// Iterate advances the loop to its next iteration, recording summary in the
// history when non-empty. A loop that is stopped or past its bound is
// returned unchanged with Advanced false.
func Iterate(summary, path string) (*IterateResult, error) {
	st, err := state.Load(path)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}

	if !st.ShouldContinue() {
		return &IterateResult{State: st}, nil
	}

	canContinue := st.Advance(summary)
	if err := st.Save(path); err != nil {
		return nil, err
	}

	logging.Debug("loop advanced", "path", path, "iteration", st.Iteration, "can_continue", canContinue)
	return &IterateResult{State: st, Advanced: true, CanContinue: canContinue}, nil
}

// Resume reactivates a stopped loop. An already active loop is returned
// unchanged with resumed false, distinguishable from a true resume.
func Resume(path string) (st *state.LoopState, resumed bool, err error) {
	st, err = state.Load(path)
	if err != nil {
		return nil, false, err
	}
	if st == nil {
		return nil, false, ErrNotFound
	}

	if !st.Resume() {
		return st, false, nil
	}
	if err := st.Save(path); err != nil {
		return nil, false, err
	}

	logging.Debug("loop resumed", "path", path, "iteration", st.Iteration)
	return st, true, nil
}

// CheckCompletion reports whether output fulfils the loop's completion
// promise, completing and persisting the loop when it does. A missing loop
// reports true without creating a file, so a driver waiting on completion
// is never blocked by a deleted state file.
func CheckCompletion(output, path string) (bool, error) {
	st, err := state.Load(path)
	if err != nil {
		return false, err
	}
	if st == nil {
		return true, nil
	}

	if !st.CheckPromise(output) {
		return false, nil
	}

	st.Complete("")
	if err := st.Save(path); err != nil {
		return false, err
	}

	logging.Debug("loop completed", "path", path, "iteration", st.Iteration)
	return true, nil
}
