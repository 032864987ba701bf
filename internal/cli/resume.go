package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/loop"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a stopped loop",
	Long: `Resumes a previously stopped loop. When the iteration counter has run
past the bound it is clamped back so the loop is immediately continuable.
Resuming an already active loop is a no-op.`,
	Args: cobra.NoArgs,
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	st, resumed, err := loop.Resume(path)
	if err != nil {
		return err
	}

	if !resumed {
		fmt.Println("Loop is already active.")
		return nil
	}

	fmt.Println("Ralph loop resumed.")
	printField("Continuing from", fmt.Sprintf("iteration %d", st.Iteration))
	return nil
}
