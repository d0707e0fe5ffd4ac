package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rester-cli/rester/packages/core/settings"
	"github.com/rester-cli/rester/packages/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently sent requests",
	Long: `List requests recorded in the history database, newest first.
Recording is enabled with the --history flag on send, or the "history"
key in the config file.

Examples:
  rester history --history requests.db
  rester history --limit 50`,
	RunE: historyCommand,
}

var (
	historyLimitFlag  int
	historyDBFlag     string
	historyConfigFlag string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyDBFlag, "history", getEnvString("RESTER_HISTORY", ""), "SQLite history file (env: RESTER_HISTORY)")
	historyCmd.Flags().StringVar(&historyConfigFlag, "config", getEnvString("RESTER_CONFIG", ""), "Path to config file (env: RESTER_CONFIG)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	path := historyDBFlag
	if path == "" {
		s, err := settings.Load(historyConfigFlag)
		if err != nil {
			return err
		}
		path = s.GetString("history", "")
	}
	if path == "" {
		return fmt.Errorf("no history database configured (use --history or the \"history\" config key)")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(historyLimitFlag)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No requests recorded yet.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, e := range entries {
		status := green(fmt.Sprintf("%d", e.StatusCode))
		if e.StatusCode >= 400 {
			status = red(fmt.Sprintf("%d", e.StatusCode))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-6s %s (%s, %d bytes)\n",
			e.CreatedAt.Local().Format(time.DateTime),
			status,
			e.Method,
			e.URL,
			e.Duration.Round(time.Millisecond),
			e.BodyBytes)
	}

	return nil
}
