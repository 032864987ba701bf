package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/loop"
	"github.com/thruflo/ralph/internal/state"
)

var (
	startMaxIterations     int
	startCompletionPromise string
)

var startCmd = &cobra.Command{
	Use:   "start <prompt>...",
	Short: "Start a new ralph loop",
	Long: `Starts a new ralph loop with the given task prompt, writing the initial
state file. Any existing loop at the same path is overwritten.

Example:
  ralph start "Build a REST API" --max-iterations 20
  ralph start "Fix auth bug" --completion-promise "ALL TESTS PASS"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVarP(&startMaxIterations, "max-iterations", "m", 0,
		"Maximum iterations before auto-stop (0 = unlimited)")
	startCmd.Flags().StringVarP(&startCompletionPromise, "completion-promise", "p", "",
		"Phrase that signals task completion")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	path, err := resolveStateFile()
	if err != nil {
		return err
	}

	maxIterations := startMaxIterations
	if !cmd.Flags().Changed("max-iterations") {
		// Fall back to the configured default cap.
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		maxIterations = cfg.MaxIterations
	}

	st, err := loop.Setup(prompt, maxIterations, startCompletionPromise, path)
	if err != nil {
		return err
	}

	printActivation(st, path)
	return nil
}

func printActivation(st *state.LoopState, path string) {
	maxIter := "unlimited"
	if st.MaxIterations > 0 {
		maxIter = fmt.Sprintf("%d", st.MaxIterations)
	}
	promise := "none"
	if st.CompletionPromise != "" {
		promise = st.CompletionPromise
	}

	fmt.Println("Ralph loop activated.")
	fmt.Println()
	printField("Iteration", fmt.Sprintf("%d", st.Iteration))
	printField("Max iterations", maxIter)
	printField("Promise", promise)
	fmt.Println()
	fmt.Printf("To monitor: cat %s\n", path)
	fmt.Printf("To cancel:  ralph cancel\n")
	fmt.Println()
	fmt.Println(st.Prompt)

	if st.CompletionPromise != "" {
		fmt.Println()
		fmt.Printf("To complete, output: <promise>%s</promise>\n", st.CompletionPromise)
		fmt.Println("Only when the statement is genuinely TRUE!")
	}
}
