package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rester-cli/rester/packages/core/runner"
	"github.com/rester-cli/rester/packages/core/settings"
	"github.com/rester-cli/rester/packages/history"
	resthttp "github.com/rester-cli/rester/packages/http"
	"github.com/rester-cli/rester/packages/output"
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Send the request described in a plain text file",
	Long: `Send the HTTP request described in a plain text request file and
print the decoded response. Pass "-" to read the request from stdin.

Examples:
  rester send request.rest
  rester send request.rest --watch
  rester send request.rest --body-only --output json
  cat request.rest | rester send -`,
	Args: cobra.ExactArgs(1),
	RunE: sendCommand,
}

// watchDebounceDelay is the debounce delay for file watch events.
const watchDebounceDelay = 300 * time.Millisecond

var (
	configFlag     string
	eolFlag        string
	bodyOnlyFlag   bool
	timeoutFlag    string
	insecureFlag   bool
	proxyFlag      string
	noColorFlag    bool
	watchFlag      bool
	outputFlag     string
	outputFileFlag string
	verboseFlag    int
	historyFlag    string
)

func init() {
	sendCmd.Flags().StringVar(&configFlag, "config", getEnvString("RESTER_CONFIG", ""), "Path to config file (env: RESTER_CONFIG)")
	sendCmd.Flags().StringVar(&eolFlag, "eol", "lf", "Line ending for parsing and output: lf or crlf")
	sendCmd.Flags().BoolVar(&bodyOnlyFlag, "body-only", false, "Print only the response body for 2xx responses")
	sendCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Request timeout (e.g., 30s, 1m)")
	sendCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("RESTER_INSECURE", false), "Disable SSL certificate validation (env: RESTER_INSECURE)")
	sendCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("RESTER_PROXY", ""), "Proxy URL for HTTP requests (env: RESTER_PROXY)")
	sendCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("RESTER_NO_COLOR", false), "Disable colored output (env: RESTER_NO_COLOR)")
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the request file and re-send on change")
	sendCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("RESTER_OUTPUT", "console"), "Output format: console, json (env: RESTER_OUTPUT)")
	sendCmd.Flags().StringVar(&outputFileFlag, "output-file", "", "Write output to file (default: stdout)")
	sendCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (echoes the request as sent)")
	sendCmd.Flags().StringVar(&historyFlag, "history", getEnvString("RESTER_HISTORY", ""), "SQLite file to record requests in (env: RESTER_HISTORY)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func sendCommand(cmd *cobra.Command, args []string) error {
	file := args[0]

	eol, err := resolveEOL(eolFlag)
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var outWriter *os.File
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	sink, err := buildSink(s, outWriter)
	if err != nil {
		return err
	}

	var recorder runner.Recorder
	historyPath := historyFlag
	if historyPath == "" {
		historyPath = s.GetString("history", "")
	}
	if historyPath != "" {
		store, err := history.Open(historyPath)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	r := runner.NewRunner(&runner.Config{
		Settings: s,
		Client:   buildClient(),
		Sink:     sink,
		Recorder: recorder,
		EOL:      eol,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	send := func() error {
		text, err := readRequestText(file)
		if err != nil {
			return err
		}
		_, err = r.Execute(ctx, text)
		return err
	}

	err = send()

	if !watchFlag || file == "-" {
		return err
	}

	// Watch mode: failures are reported per run, not fatal.
	return watchAndResend(ctx, cmd, file, send)
}

func loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	s, err := settings.Load(configFlag)
	if err != nil {
		return s, err
	}

	flagOverrides := make(map[string]any)
	if cmd.Flags().Changed("body-only") {
		flagOverrides["body_only"] = bodyOnlyFlag
	}
	if cmd.Flags().Changed("no-color") {
		flagOverrides["no_color"] = noColorFlag
	}
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return s, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
		}
		flagOverrides["timeout"] = d.Seconds()
	}
	return s.Merge(flagOverrides), nil
}

func buildClient() *resthttp.Client {
	opts := []resthttp.ClientOption{}
	if insecureFlag {
		opts = append(opts, resthttp.WithValidateSSL(false))
	}
	if proxyFlag != "" {
		opts = append(opts, resthttp.WithProxy(proxyFlag))
	}
	return resthttp.NewClient(opts...)
}

func buildSink(s settings.Settings, outWriter *os.File) (runner.Sink, error) {
	switch strings.ToLower(outputFlag) {
	case "json":
		opts := []output.JSONOption{}
		if outWriter != nil {
			opts = append(opts, output.JSONWithWriter(outWriter))
		}
		return output.NewJSONSink(opts...), nil
	case "console":
		opts := []output.ConsoleOption{
			output.WithVerbose(verboseFlag > 0),
			output.WithNoColor(noColorFlag || s.GetBool("no_color", false)),
		}
		if outWriter != nil {
			opts = append(opts, output.WithWriter(outWriter))
		}
		return output.NewConsoleSink(opts...), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use console or json)", outputFlag)
	}
}

func resolveEOL(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	default:
		return "", fmt.Errorf("unknown eol %q (use lf or crlf)", name)
	}
}

func readRequestText(file string) (string, error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", file, err)
	}
	return string(data), nil
}

func watchAndResend(ctx context.Context, cmd *cobra.Command, file string, send func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that rename-on-save
	// replace the inode and would silently detach a file watch.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", file)

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(file) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-sending...\n\n", event.Name)
				_ = send()
				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", file)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}
