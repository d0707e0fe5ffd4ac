package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rester-cli/rester/packages/core/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate request files without sending anything",
	Long: `Parse request files and report configuration errors without
executing them.

Examples:
  rester validate request.rest
  rester validate ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .rest or .http files found")
	}

	hasErrors := false
	for _, file := range files {
		req, _, err := parser.ParseFile(file, "\n", nil)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		if req.Hostname == "" {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: no hostname\n", file)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%s %s)\n", file, req.Method, req.URL())
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	return nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isRequestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			files = append(files, arg)
		}
	}

	return files, nil
}

func isRequestFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".rest" || ext == ".http"
}
