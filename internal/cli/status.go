package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current loop status",
	Long: `Shows the current loop status: whether it is active, the iteration
counter and bound, the completion promise, start time, and the prompt.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	st, err := state.Load(path)
	if err != nil {
		return err
	}
	if st == nil {
		// Informational, not an error.
		fmt.Println("No active ralph loop.")
		return nil
	}

	fmt.Println("Ralph Loop Status")
	fmt.Println("=================")
	fmt.Println()

	status := "stopped"
	if st.Active {
		status = "active"
	}
	printField("Status", status)

	if percent, ok := st.ProgressPercent(); ok {
		printField("Iteration", fmt.Sprintf("%d / %d (%d%%)", st.Iteration, st.MaxIterations, percent))
	} else {
		printField("Iteration", fmt.Sprintf("%d (unlimited)", st.Iteration))
	}

	if st.CompletionPromise != "" {
		printField("Promise", fmt.Sprintf("%q", st.CompletionPromise))
	} else {
		printField("Promise", "none")
	}

	printField("Started", formatTime(st.StartedAt))
	fmt.Println()
	fmt.Println("Prompt:")
	fmt.Println("-------")
	fmt.Println(st.Prompt)

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
