package state

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/thruflo/ralph/internal/logging"
)

// The state file is YAML-shaped frontmatter followed by the prompt body:
//
//	---
//	active: true
//	iteration: 3
//	max_iterations: 10
//	completion_promise: "ALL TESTS PASS"
//	started_at: "2026-01-16T10:00:00Z"
//	history:
//	  - "iteration 1 @2026-01-16T10:05:00Z: Added login feature"
//	---
//
//	<prompt text>
//
// It is hand-edited in practice, so decoding is deliberately permissive:
// only the outer envelope and the integer fields can fail the whole parse.
// Everything else degrades field-by-field to a documented default.

var (
	envelopeRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)$`)
	historyRe  = regexp.MustCompile(`(?s)(?:^|\n)history:\s*\n(.*)$`)
	entryRe    = regexp.MustCompile(`-\s*"([^"]+)"`)
	stampedRe  = regexp.MustCompile(`iteration (\d+) @(.+?): (.+)`)
)

// Encode renders the state in the on-disk text format. History is emitted
// only when non-empty. Summaries are written inside double quotes without
// escaping; an embedded double quote will truncate the entry on the next
// parse. That matches what every existing state file contains, so it is
// kept for compatibility rather than fixed.
func (s *LoopState) Encode() string {
	promise := "null"
	if s.CompletionPromise != "" {
		promise = `"` + s.CompletionPromise + `"`
	}

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "active: %t\n", s.Active)
	fmt.Fprintf(&b, "iteration: %d\n", s.Iteration)
	fmt.Fprintf(&b, "max_iterations: %d\n", s.MaxIterations)
	fmt.Fprintf(&b, "completion_promise: %s\n", promise)
	fmt.Fprintf(&b, "started_at: %q\n", formatTimestamp(s.StartedAt))

	if len(s.History) > 0 {
		b.WriteString("history:\n")
		for _, entry := range s.History {
			fmt.Fprintf(&b, "  - \"iteration %d @%s: %s\"\n",
				entry.Iteration, formatTimestamp(entry.Timestamp), entry.Summary)
		}
	}

	b.WriteString("---\n\n")
	b.WriteString(s.Prompt)
	b.WriteString("\n")
	return b.String()
}

// Parse decodes state file content. Returns nil when the content is not
// recognizable as a state file: the frontmatter envelope is missing, or an
// integer field fails conversion. All other malformation is tolerated.
func Parse(content string) *LoopState {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	m := envelopeRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	frontmatter, prompt := m[1], m[2]

	iteration, err := strconv.Atoi(fieldValue(frontmatter, "iteration", "1"))
	if err != nil {
		logging.Warn("failed to parse state file", "field", "iteration", "error", err)
		return nil
	}
	maxIterations, err := strconv.Atoi(fieldValue(frontmatter, "max_iterations", "0"))
	if err != nil {
		logging.Warn("failed to parse state file", "field", "max_iterations", "error", err)
		return nil
	}

	promise := fieldValue(frontmatter, "completion_promise", "")
	if promise == "null" {
		promise = ""
	} else {
		promise = strings.Trim(promise, `"'`)
	}

	startedAt, ok := parseTimestamp(strings.Trim(fieldValue(frontmatter, "started_at", ""), `"`))
	if !ok {
		startedAt = time.Now().UTC()
	}

	return &LoopState{
		Active:            fieldValue(frontmatter, "active", "") == "true",
		Iteration:         iteration,
		MaxIterations:     maxIterations,
		CompletionPromise: promise,
		StartedAt:         startedAt,
		Prompt:            strings.TrimSpace(prompt),
		History:           parseHistory(frontmatter),
	}
}

// parseHistory extracts history entries from the frontmatter. The history
// block is the last frontmatter section, so it runs to the end of the text.
// Lines that do not carry a quoted payload in a recognized grammar are
// skipped so that hand-edited or future entry formats never fail a load.
func parseHistory(frontmatter string) []HistoryEntry {
	m := historyRe.FindStringSubmatch(frontmatter)
	if m == nil {
		return nil
	}

	var history []HistoryEntry
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "-") {
			continue
		}

		em := entryRe.FindStringSubmatch(line)
		if em == nil {
			continue
		}
		text := em[1]

		if sm := stampedRe.FindStringSubmatch(text); sm != nil {
			iter, err := strconv.Atoi(sm[1])
			if err != nil {
				continue
			}
			ts, ok := parseTimestamp(strings.TrimSpace(sm[2]))
			if !ok {
				ts = time.Now().UTC()
			}
			history = append(history, HistoryEntry{
				Iteration: iter,
				Summary:   sm[3],
				Timestamp: ts,
			})
			continue
		}

		// Legacy form without a timestamp: "iteration N: summary".
		prefix, summary, found := strings.Cut(text, ": ")
		if !found || !strings.HasPrefix(prefix, "iteration") {
			continue
		}
		iter, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(prefix, "iteration ")))
		if err != nil {
			continue
		}
		history = append(history, HistoryEntry{
			Iteration: iter,
			Summary:   summary,
			Timestamp: time.Now().UTC(),
		})
	}
	return history
}

// fieldValue returns the trimmed value of the first "name: value" line in
// the frontmatter, or fallback when the key is absent.
func fieldValue(frontmatter, name, fallback string) string {
	re := regexp.MustCompile(`(?m)^` + name + `:\s*(.*)$`)
	m := re.FindStringSubmatch(frontmatter)
	if m == nil {
		return fallback
	}
	return strings.TrimSpace(m[1])
}

// formatTimestamp renders a timestamp at second precision in UTC with a
// trailing Z. Inputs in other zones are converted first.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "Z"
}

// parseTimestamp accepts RFC 3339 timestamps (Z or numeric offset) and bare
// timestamps without an offset, which are assumed to be UTC.
func parseTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Load reads and parses the state file at path. A missing file and
// unparseable content both yield a nil state with no error; the caller
// treats them the same way. Errors are reserved for genuine I/O faults.
func Load(path string) (*LoopState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return Parse(string(data)), nil
}

// Save writes the state to path as a single whole-document write, creating
// parent directories as needed.
func (s *LoopState) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(s.Encode()), 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
