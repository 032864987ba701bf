package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/loop"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the active ralph loop",
	Long: `Cancels the active ralph loop, marking it stopped. The state file is
kept so the loop can be inspected or resumed later.`,
	Args: cobra.NoArgs,
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	st, err := loop.Cancel(path)
	if err != nil {
		return err
	}

	fmt.Println("Ralph loop cancelled.")
	fmt.Println()
	printField("Final iteration", fmt.Sprintf("%d", st.Iteration))
	printField("State file", path)
	return nil
}
