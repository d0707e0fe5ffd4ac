package main

import "github.com/rester-cli/rester/apps/cli/cmd"

// Set via -ldflags at release time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
