package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/loop"
)

var checkCmd = &cobra.Command{
	Use:   "check [output]",
	Short: "Check output for the completion promise",
	Long: `Checks the given output text (or stdin when no argument is given) for
the loop's completion promise. When the promise is found the loop is marked
complete and the command exits zero; otherwise it exits non-zero so shell
hooks can gate on the result.

A missing state file counts as complete: there is no loop left to wait on.

Example:
  ralph check "<promise>ALL TESTS PASS</promise>"
  some-agent run | ralph check`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	var output string
	if len(args) > 0 {
		output = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		output = string(data)
	}

	done, err := loop.CheckCompletion(output, path)
	if err != nil {
		return err
	}
	if !done {
		return fmt.Errorf("completion promise not fulfilled")
	}

	fmt.Println("Loop complete.")
	return nil
}
