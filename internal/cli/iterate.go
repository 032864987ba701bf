package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/loop"
)

var iterateSummary string

var iterateCmd = &cobra.Command{
	Use:   "iterate",
	Short: "Advance to the next iteration",
	Long: `Advances the loop to its next iteration, optionally recording a summary
of what was accomplished. When the iteration bound is reached the loop is
stopped.

Example:
  ralph iterate --summary "Added login feature"`,
	Args: cobra.NoArgs,
	RunE: runIterate,
}

func init() {
	iterateCmd.Flags().StringVarP(&iterateSummary, "summary", "s", "",
		"Summary of what was accomplished in this iteration")
	rootCmd.AddCommand(iterateCmd)
}

func runIterate(cmd *cobra.Command, args []string) error {
	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	result, err := loop.Iterate(iterateSummary, path)
	if err != nil {
		return err
	}

	if !result.Advanced {
		fmt.Println("Loop is not active or has reached max iterations.")
		return nil
	}

	st := result.State
	if percent, ok := st.ProgressPercent(); ok {
		fmt.Printf("Advanced to iteration %d (%d%%)\n", st.Iteration, percent)
	} else {
		fmt.Printf("Advanced to iteration %d\n", st.Iteration)
	}
	if iterateSummary != "" {
		printField("Summary", iterateSummary)
	}
	if !result.CanContinue {
		fmt.Println("Max iterations reached, loop stopped.")
	}

	return nil
}
