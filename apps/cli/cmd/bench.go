package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rester-cli/rester/packages/bench"
	"github.com/rester-cli/rester/packages/core/settings"
)

var benchCmd = &cobra.Command{
	Use:   "bench <file>",
	Short: "Send a request repeatedly and report latency percentiles",
	Long: `Send the request described in a file repeatedly and report latency
percentiles. One worker sends sequentially, optionally throttled to a
target rate, so the numbers reflect request latency rather than load.

Examples:
  rester bench request.rest --count 100
  rester bench request.rest --duration 30s --rate 10`,
	Args: cobra.ExactArgs(1),
	RunE: benchCommand,
}

var (
	benchCountFlag    int
	benchDurationFlag time.Duration
	benchRateFlag     float64
	benchConfigFlag   string
)

func init() {
	benchCmd.Flags().IntVarP(&benchCountFlag, "count", "c", 10, "Number of requests to send")
	benchCmd.Flags().DurationVarP(&benchDurationFlag, "duration", "d", 0, "Send for this long instead of a fixed count")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Target requests per second (0 = unthrottled)")
	benchCmd.Flags().StringVar(&benchConfigFlag, "config", getEnvString("RESTER_CONFIG", ""), "Path to config file (env: RESTER_CONFIG)")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	text, err := readRequestText(args[0])
	if err != nil {
		return err
	}

	s, err := settings.Load(benchConfigFlag)
	if err != nil {
		return err
	}

	cfg := bench.Config{
		Count:    benchCountFlag,
		Duration: benchDurationFlag,
		Rate:     benchRateFlag,
	}
	if benchDurationFlag > 0 && !cmd.Flags().Changed("count") {
		cfg.Count = 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := bench.NewRunner(nil, s, "\n").Run(ctx, text, cfg)
	if err != nil {
		return err
	}

	printBenchResult(cmd, result)

	if result.Errors > 0 {
		return fmt.Errorf("%d of %d requests failed", result.Errors, result.Total)
	}
	return nil
}

func printBenchResult(cmd *cobra.Command, result *bench.Result) {
	bold := color.New(color.Bold).SprintFunc()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s\n", bold("Benchmark results"))
	fmt.Fprintf(out, "  Requests:  %d (%d failed)\n", result.Total, result.Errors)
	fmt.Fprintf(out, "  Elapsed:   %s\n", result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "  Min:       %s\n", result.Min.Round(time.Microsecond))
	fmt.Fprintf(out, "  Mean:      %s\n", result.Mean.Round(time.Microsecond))
	fmt.Fprintf(out, "  P50:       %s\n", result.P50.Round(time.Microsecond))
	fmt.Fprintf(out, "  P95:       %s\n", result.P95.Round(time.Microsecond))
	fmt.Fprintf(out, "  P99:       %s\n", result.P99.Round(time.Microsecond))
	fmt.Fprintf(out, "  Max:       %s\n", result.Max.Round(time.Microsecond))
}
