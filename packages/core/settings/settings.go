package settings

// Settings is a two-layer read-only lookup: per-request overrides shadow
// the base configuration. The base layer is shared and never mutated;
// overrides are attached once per request via WithOverrides.
type Settings struct {
	base      map[string]any
	overrides map[string]any
}

// New creates a Settings value over a base configuration map. The map is
// not copied; callers must not mutate it afterwards.
func New(base map[string]any) Settings {
	return Settings{base: base}
}

// WithOverrides returns a new Settings with the given override layer.
// The receiver is left untouched, so a base Settings can be shared across
// concurrent requests.
func (s Settings) WithOverrides(overrides map[string]any) Settings {
	return Settings{base: s.base, overrides: overrides}
}

// Merge returns a Settings whose base layer has extra applied on top of
// the existing base. The CLI uses it to fold flags into file config.
func (s Settings) Merge(extra map[string]any) Settings {
	if len(extra) == 0 {
		return s
	}
	merged := make(map[string]any, len(s.base)+len(extra))
	for k, v := range s.base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return Settings{base: merged, overrides: s.overrides}
}

// Get resolves a key: overrides first, then base, then the default.
func (s Settings) Get(key string, def any) any {
	if s.overrides != nil {
		if v, ok := s.overrides[key]; ok {
			return v
		}
	}
	if s.base != nil {
		if v, ok := s.base[key]; ok {
			return v
		}
	}
	return def
}

func (s Settings) GetString(key, def string) string {
	if v, ok := s.Get(key, def).(string); ok {
		return v
	}
	return def
}

func (s Settings) GetBool(key string, def bool) bool {
	if v, ok := s.Get(key, def).(bool); ok {
		return v
	}
	return def
}

// GetFloat resolves a numeric setting. JSON numbers decode as float64;
// int values from YAML or Go literals are widened.
func (s Settings) GetFloat(key string, def float64) float64 {
	switch v := s.Get(key, def).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

func (s Settings) GetInt(key string, def int) int {
	return int(s.GetFloat(key, float64(def)))
}

// GetStringSlice resolves an ordered list of strings. Both []string and
// []any-of-strings forms are accepted; anything else yields the default.
func (s Settings) GetStringSlice(key string, def []string) []string {
	switch v := s.Get(key, nil).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return def
			}
			out = append(out, str)
		}
		return out
	}
	return def
}

// GetStringMap resolves a string-to-string mapping, accepting the
// map[string]any form produced by JSON and YAML decoding.
func (s Settings) GetStringMap(key string) map[string]string {
	switch v := s.Get(key, nil).(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil
			}
			out[k] = str
		}
		return out
	}
	return nil
}

// GetSlice resolves a list-valued setting without element conversion.
func (s Settings) GetSlice(key string) []any {
	if v, ok := s.Get(key, nil).([]any); ok {
		return v
	}
	return nil
}
