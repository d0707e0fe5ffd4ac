package http

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Terminal request errors, each with a distinct user-facing message.
// None of them triggers a retry.
var (
	ErrMissingHostname = errors.New("unable to make request: please provide a hostname")
	ErrInvalidHostname = errors.New("unable to make request: make sure the hostname is valid")
	ErrTimeout         = errors.New("request timed out")
)

// classify maps transport failures onto the terminal error taxonomy:
// name resolution failures and timeouts each get their own message,
// anything else passes through unchanged.
func classify(err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %s", ErrInvalidHostname, dnsErr.Name)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return err
}
