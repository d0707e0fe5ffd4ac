package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rester-cli/rester/packages/core/parser"
	"github.com/rester-cli/rester/packages/core/settings"
	"github.com/rester-cli/rester/packages/decode"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrBadConfiguration marks a malformed response_body_commands entry.
var ErrBadConfiguration = errors.New("bad configuration")

// filter is one post-processing directive: a list of commands, optionally
// gated on the response content type.
type filter struct {
	contentTypes []string // nil means always run
	commands     []string
}

// buildFilters validates the response_body_commands setting. A gate that
// is neither a string nor a list of strings is a configuration error,
// surfaced before the request is sent.
func buildFilters(s settings.Settings) ([]filter, error) {
	var filters []filter

	for i, entry := range s.GetSlice("response_body_commands") {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: response_body_commands[%d] is not an object", ErrBadConfiguration, i)
		}

		f := filter{}

		if gate, present := m["content-type"]; present {
			switch g := gate.(type) {
			case string:
				f.contentTypes = []string{strings.ToLower(g)}
			case []any:
				for _, item := range g {
					str, ok := item.(string)
					if !ok {
						return nil, fmt.Errorf("%w: response_body_commands[%d] content-type list holds a non-string", ErrBadConfiguration, i)
					}
					f.contentTypes = append(f.contentTypes, strings.ToLower(str))
				}
			default:
				return nil, fmt.Errorf("%w: response_body_commands[%d] content-type must be a string or list of strings", ErrBadConfiguration, i)
			}
		}

		commands, ok := m["commands"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: response_body_commands[%d] has no commands list", ErrBadConfiguration, i)
		}
		for _, c := range commands {
			name, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("%w: response_body_commands[%d] command is not a string", ErrBadConfiguration, i)
			}
			if err := checkCommand(name); err != nil {
				return nil, err
			}
			f.commands = append(f.commands, name)
		}

		filters = append(filters, f)
	}

	return filters, nil
}

// applyFilters runs each matching filter's commands over the decoded body
// in order. Command output is re-normalized to the caller's eol.
func applyFilters(d *decode.Decoded, filters []filter, eol string) error {
	for _, f := range filters {
		if !f.matches(d.ContentType) {
			continue
		}
		for _, name := range f.commands {
			out, err := runCommand(name, d.Body)
			if err != nil {
				return err
			}
			d.Body = parser.NormalizeEOL(out, eol)
		}
	}
	return nil
}

func (f filter) matches(contentType string) bool {
	if f.contentTypes == nil {
		return true
	}
	if contentType == "" {
		return false
	}
	for _, ct := range f.contentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

func checkCommand(name string) error {
	cmd, _, _ := strings.Cut(name, " ")
	switch cmd {
	case "format-json", "minify-json", "trim", "jsonpath":
		return nil
	}
	return fmt.Errorf("%w: unknown body command %q", ErrBadConfiguration, cmd)
}

func runCommand(name, body string) (string, error) {
	cmd, arg, _ := strings.Cut(name, " ")
	switch cmd {
	case "format-json":
		if !gjson.Valid(body) {
			return body, nil
		}
		return string(pretty.Pretty([]byte(body))), nil
	case "minify-json":
		if !gjson.Valid(body) {
			return body, nil
		}
		return string(pretty.Ugly([]byte(body))), nil
	case "trim":
		return strings.TrimSpace(body), nil
	case "jsonpath":
		if arg == "" {
			return "", fmt.Errorf("%w: jsonpath needs a path argument", ErrBadConfiguration)
		}
		result := gjson.Get(body, arg)
		if !result.Exists() {
			return body, nil
		}
		return result.String(), nil
	}
	return body, nil
}
