package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thruflo/ralph/internal/config"
	"github.com/thruflo/ralph/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// stateFileFlag holds the --state-file override. When empty, the path is
// resolved from RALPH_STATE_FILE, then .ralph/config.yaml, then the
// default.
var stateFileFlag string

var rootCmd = &cobra.Command{
	Use:   "ralph",
	Short: "Ralph iterative development loop for agent drivers",
	Long: `Ralph persists the state of an iterative "continue until done or N
iterations" task loop to a human-readable Markdown file, so an agent or
script invoked repeatedly can read, mutate, and resume progress across
independent invocations.

Examples:
  ralph start "Build a REST API" --max-iterations 20
  ralph start "Fix auth bug" --completion-promise "ALL TESTS PASS"
  ralph iterate --summary "Added login feature"
  ralph resume
  ralph cancel
  ralph status`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if level, ok := logging.ParseLevel(cfg.LogLevel); ok {
			logging.SetLevel(level)
		}
		return nil
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("ralph version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&stateFileFlag, "state-file", "", "Path to the loop state file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads .ralph/config.yaml from the current directory.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveStateFile determines the state file path: flag, then environment,
// then config file (which falls back to the built-in default).
func resolveStateFile() (string, error) {
	if stateFileFlag != "" {
		return stateFileFlag, nil
	}
	if env := os.Getenv("RALPH_STATE_FILE"); env != "" {
		return env, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.StateFile, nil
}

func printField(label, value string) {
	fmt.Printf("  %-16s %s\n", label+":", value)
}
