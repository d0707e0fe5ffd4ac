package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new rester project",
	Long: `Initialize a new rester project in the current directory.

This creates:
  - rester.yaml   - Configuration file
  - example.rest  - Example request file

Examples:
  rester init
  rester init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "rester.yaml")
	exampleFile := filepath.Join(cwd, "example.rest")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	configContent := map[string]any{
		"timeout": 30,
		"default_headers": map[string]string{
			"Accept-Encoding": "gzip, deflate",
		},
		"default_response_encodings": []string{"utf-8", "latin-1"},
		"body_only":                  false,
		"output_request":             true,
		"response_body_commands": []map[string]any{
			{
				"content-type": []string{"application/json"},
				"commands":     []string{"format-json"},
			},
		},
	}

	configYAML, _ := yaml.Marshal(configContent)
	if err := os.WriteFile(configFile, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	exampleContent := `# A request is written the way it goes over the wire: request line,
# headers, blank line, body. Lines starting with @ override settings
# for this one request.

GET https://httpbin.org/json HTTP/1.1
Accept: application/json
@timeout: 15
`

	if err := os.WriteFile(exampleFile, []byte(exampleContent), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nrester project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'rester send example.rest' to send the example request.\n")

	return nil
}
