package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ConfigFilenames contains the candidate config file names, checked in order.
var ConfigFilenames = []string{
	".rester.json",
	"rester.json",
	".resterrc",
	"rester.yaml",
	".rester.yaml",
}

// schema describes the shape of a rester config file. Unknown keys are
// allowed so request files and configs can carry tool-specific extras.
const schema = `{
  "type": "object",
  "properties": {
    "timeout": {"type": "number", "minimum": 0},
    "default_headers": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "default_response_encodings": {
      "type": "array",
      "items": {"type": "string"}
    },
    "body_only": {"type": "boolean"},
    "output_request": {"type": "boolean"},
    "no_color": {"type": "boolean"},
    "history": {"type": "string"},
    "response_body_commands": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "content-type": {
            "anyOf": [
              {"type": "string"},
              {"type": "array", "items": {"type": "string"}}
            ]
          },
          "commands": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["commands"]
      }
    }
  }
}`

// Load reads configuration from the given path, or searches the current
// directory for a known config file name. A missing file is not an error;
// an unreadable, unparsable, or schema-invalid one is.
func Load(path string) (Settings, error) {
	if path != "" {
		return loadFile(path)
	}
	return FindAndLoad(".")
}

// FindAndLoad searches dir for a config file and loads the first match.
func FindAndLoad(dir string) (Settings, error) {
	for _, name := range ConfigFilenames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return loadFile(p)
		}
	}
	return New(nil), nil
}

func loadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(nil), fmt.Errorf("cannot read config %s: %w", path, err)
	}

	base := make(map[string]any)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &base); err != nil {
			return New(nil), fmt.Errorf("bad configuration in %s: %w", path, err)
		}
		if err := validate(gojsonschema.NewGoLoader(base)); err != nil {
			return New(nil), fmt.Errorf("bad configuration in %s: %w", path, err)
		}
		return New(base), nil
	}

	if err := json.Unmarshal(data, &base); err != nil {
		return New(nil), fmt.Errorf("bad configuration in %s: %w", path, err)
	}
	if err := validate(gojsonschema.NewBytesLoader(data)); err != nil {
		return New(nil), fmt.Errorf("bad configuration in %s: %w", path, err)
	}
	return New(base), nil
}

func validate(doc gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		doc,
	)
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
