package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	st := New("Test task", 0, "")

	assert.True(t, st.Active)
	assert.Equal(t, 1, st.Iteration)
	assert.Equal(t, 0, st.MaxIterations)
	assert.Empty(t, st.CompletionPromise)
	assert.Equal(t, "Test task", st.Prompt)
	assert.Empty(t, st.History)
	assert.WithinDuration(t, time.Now().UTC(), st.StartedAt, time.Minute)
}

func TestAdvance_BoundedTermination(t *testing.T) {
	t.Parallel()

	st := New("Test", 3, "")

	assert.True(t, st.Advance(""))
	assert.Equal(t, 2, st.Iteration)

	assert.True(t, st.Advance(""))
	assert.Equal(t, 3, st.Iteration)

	assert.False(t, st.Advance(""))
	assert.Equal(t, 4, st.Iteration)
	assert.False(t, st.Active)
}

func TestAdvance_Unbounded(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "")

	for i := 0; i < 100; i++ {
		assert.True(t, st.Advance(""))
	}
	assert.Equal(t, 101, st.Iteration)
	assert.True(t, st.Active)
}

func TestAdvance_RecordsHistoryForCurrentIteration(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "")

	st.Advance("first pass")
	st.Advance("")
	st.Advance("third pass")

	require.Len(t, st.History, 2)
	assert.Equal(t, 1, st.History[0].Iteration)
	assert.Equal(t, "first pass", st.History[0].Summary)
	assert.Equal(t, 3, st.History[1].Iteration)
	assert.Equal(t, "third pass", st.History[1].Summary)
}

func TestShouldContinue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		active        bool
		iteration     int
		maxIterations int
		want          bool
	}{
		{"active unbounded", true, 1, 0, true},
		{"stopped", false, 1, 0, false},
		{"active within bound", true, 5, 10, true},
		{"active at bound", true, 10, 10, true},
		{"active past bound", true, 11, 10, false},
		{"stopped past bound", false, 11, 10, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := &LoopState{Active: tt.active, Iteration: tt.iteration, MaxIterations: tt.maxIterations}
			assert.Equal(t, tt.want, st.ShouldContinue())
		})
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "")
	st.Complete("wrapped up")

	assert.False(t, st.Active)
	require.Len(t, st.History, 1)
	assert.Equal(t, 1, st.History[0].Iteration)
	assert.Equal(t, "wrapped up", st.History[0].Summary)

	// Completing again is harmless.
	st.Complete("")
	assert.False(t, st.Active)
	assert.Len(t, st.History, 1)
}

func TestResume(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "")
	st.Active = false

	assert.True(t, st.Resume())
	assert.True(t, st.Active)

	// Already active: no-op, distinguishable from a true resume.
	assert.False(t, st.Resume())
	assert.True(t, st.Active)
}

func TestResume_ClampsIterationToBound(t *testing.T) {
	t.Parallel()

	st := &LoopState{Active: false, Iteration: 15, MaxIterations: 10}

	assert.True(t, st.Resume())
	assert.Equal(t, 10, st.Iteration)
	assert.True(t, st.Active)
	assert.True(t, st.ShouldContinue())
}

func TestCheckPromise(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "ALL TESTS PASS")

	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"no promise in output", "Still working...", false},
		{"exact match", "<promise>ALL TESTS PASS</promise>", true},
		{"case insensitive", "<PROMISE>ALL TESTS PASS</PROMISE>", true},
		{"whitespace tolerant", "<promise>  ALL TESTS PASS  </promise>", true},
		{"embedded in surrounding text", "done!\n<promise>all tests pass</promise>\nbye", true},
		{"promise text alone without tags", "ALL TESTS PASS", false},
		{"different promise", "<promise>SOMETHING ELSE</promise>", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, st.CheckPromise(tt.output))
		})
	}
}

func TestCheckPromise_NoPromiseConfigured(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "")

	assert.False(t, st.CheckPromise("<promise>ANYTHING</promise>"))
	assert.False(t, st.CheckPromise("anything at all"))
}

func TestCheckPromise_EscapesRegexMetacharacters(t *testing.T) {
	t.Parallel()

	st := New("Test", 0, "done (100%)")

	assert.True(t, st.CheckPromise("<promise>done (100%)</promise>"))
	assert.False(t, st.CheckPromise("<promise>done X100%)</promise>"))
}

func TestProgressPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		iteration     int
		maxIterations int
		wantPercent   int
		wantOK        bool
	}{
		{"unbounded", 5, 0, 0, false},
		{"halfway", 5, 10, 50, true},
		{"floors fractional", 1, 3, 33, true},
		{"capped at 100", 15, 10, 100, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := &LoopState{Iteration: tt.iteration, MaxIterations: tt.maxIterations}
			percent, ok := st.ProgressPercent()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPercent, percent)
			}
		})
	}
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	st := &LoopState{Active: true, Iteration: 5, MaxIterations: 10}
	assert.Equal(t, "[active] Iteration 5/10 (50%)", st.StatusLine())

	st.Active = false
	assert.Contains(t, st.StatusLine(), "[stopped]")

	st.MaxIterations = 0
	assert.Contains(t, st.StatusLine(), "∞")
}
