// Package state provides the persisted loop state model and its on-disk
// text codec. The state file is a Markdown document with a hand-rolled
// frontmatter block; it doubles as the user-visible progress artifact, so
// the codec favours tolerant parsing over strict schema validation.
package state

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultStateFile is the relative path used when no override is configured.
const DefaultStateFile = ".ralph/loop.local.md"

// HistoryEntry records the summary of one past iteration.
type HistoryEntry struct {
	Iteration int
	Summary   string
	Timestamp time.Time
}

// LoopState represents the current state of a ralph loop.
//
// Active and the iteration/bound comparison together define the loop's two
// machine states; there is no separate status enum. MaxIterations of zero
// means unbounded. CompletionPromise is empty when no promise is configured.
type LoopState struct {
	Active            bool
	Iteration         int
	MaxIterations     int
	CompletionPromise string
	StartedAt         time.Time
	Prompt            string
	History           []HistoryEntry
}

// New returns a fresh active state at iteration 1, started now.
func New(prompt string, maxIterations int, completionPromise string) *LoopState {
	return &LoopState{
		Active:            true,
		Iteration:         1,
		MaxIterations:     maxIterations,
		CompletionPromise: completionPromise,
		StartedAt:         time.Now().UTC(),
		Prompt:            prompt,
	}
}

// Advance moves the loop to the next iteration. When summary is non-empty a
// history entry is recorded for the current iteration first. Returns false
// when the new iteration exceeds the bound, in which case the loop is
// deactivated.
func (s *LoopState) Advance(summary string) bool {
	if summary != "" {
		s.History = append(s.History, HistoryEntry{
			Iteration: s.Iteration,
			Summary:   summary,
			Timestamp: time.Now().UTC(),
		})
	}

	s.Iteration++
	if s.MaxIterations > 0 && s.Iteration > s.MaxIterations {
		s.Active = false
		return false
	}
	return true
}

// ShouldContinue reports whether the loop accepts further iterations.
func (s *LoopState) ShouldContinue() bool {
	if !s.Active {
		return false
	}
	if s.MaxIterations > 0 && s.Iteration > s.MaxIterations {
		return false
	}
	return true
}

// Complete deactivates the loop, optionally recording a final history entry
// for the current iteration. Safe to call on an already stopped loop.
func (s *LoopState) Complete(summary string) {
	if summary != "" {
		s.History = append(s.History, HistoryEntry{
			Iteration: s.Iteration,
			Summary:   summary,
			Timestamp: time.Now().UTC(),
		})
	}
	s.Active = false
}

// Resume reactivates a stopped loop. Returns false when the loop is already
// active. When the iteration counter has run past the bound it is clamped
// back to the bound so the resumed loop is immediately continuable.
func (s *LoopState) Resume() bool {
	if s.Active {
		return false
	}
	if s.MaxIterations > 0 && s.Iteration > s.MaxIterations {
		s.Iteration = s.MaxIterations
	}
	s.Active = true
	return true
}

// CheckPromise reports whether output contains the completion promise
// wrapped in <promise> tags. The match is case-insensitive and tolerates
// whitespace around the promise text. Always false when no promise is
// configured, regardless of what the output contains.
func (s *LoopState) CheckPromise(output string) bool {
	if s.CompletionPromise == "" {
		return false
	}
	pattern := `(?i)<promise>\s*` + regexp.QuoteMeta(s.CompletionPromise) + `\s*</promise>`
	return regexp.MustCompile(pattern).MatchString(output)
}

// ProgressPercent returns the percentage of the iteration bound consumed.
// ok is false for unbounded loops.
func (s *LoopState) ProgressPercent() (percent int, ok bool) {
	if s.MaxIterations <= 0 {
		return 0, false
	}
	percent = s.Iteration * 100 / s.MaxIterations
	if percent > 100 {
		percent = 100
	}
	return percent, true
}

// StatusLine returns a one-line human-readable status.
func (s *LoopState) StatusLine() string {
	maxIter := "∞"
	if s.MaxIterations > 0 {
		maxIter = strconv.Itoa(s.MaxIterations)
	}

	status := "stopped"
	if s.Active {
		status = "active"
	}

	if percent, ok := s.ProgressPercent(); ok {
		return fmt.Sprintf("[%s] Iteration %d/%s (%d%%)", status, s.Iteration, maxIter, percent)
	}
	return fmt.Sprintf("[%s] Iteration %d/%s", status, s.Iteration, maxIter)
}
