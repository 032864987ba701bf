package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/state"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show iteration history",
	Long:  `Shows the recorded iteration summaries in order, oldest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	st, err := state.Load(path)
	if err != nil {
		return err
	}
	if st == nil {
		fmt.Println("No ralph loop found.")
		return nil
	}

	fmt.Println("Ralph Loop History")
	fmt.Println("==================")

	if len(st.History) == 0 {
		fmt.Println("No history entries yet.")
		return nil
	}

	for _, entry := range st.History {
		fmt.Printf("  [%d] %s (@%s)\n", entry.Iteration, entry.Summary, formatTime(entry.Timestamp))
	}

	fmt.Println()
	fmt.Printf("Current iteration: %d\n", st.Iteration)

	return nil
}
