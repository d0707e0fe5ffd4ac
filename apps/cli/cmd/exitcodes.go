package cmd

import (
	"errors"
	"strings"

	"github.com/rester-cli/rester/packages/core/runner"
	resthttp "github.com/rester-cli/rester/packages/http"
)

// Exit codes for the rester CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitRequestError indicates the request could not be executed
	ExitRequestError = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, resthttp.ErrMissingHostname),
		errors.Is(err, resthttp.ErrInvalidHostname),
		errors.Is(err, resthttp.ErrTimeout):
		return ExitNetworkError
	case errors.Is(err, runner.ErrBadConfiguration),
		strings.Contains(err.Error(), "bad configuration"):
		return ExitConfigError
	default:
		return ExitRequestError
	}
}
