// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for remindd.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envPattern matches ${VAR} and ${VAR:-default} placeholders. Variable names
// follow the POSIX shell rules; defaults run up to the closing brace.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// Load reads a YAML config file, substitutes environment placeholders, and
// fills in defaults for anything the file leaves out.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded, err := expandEnv(string(raw))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	cfg := new(Config)
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// expandEnv substitutes every placeholder in raw. A placeholder with neither
// an environment value nor an inline default is an error; all such names are
// reported together so a misconfigured deployment fails with the full list.
func expandEnv(raw string) (string, error) {
	var missing []string

	out := envPattern.ReplaceAllStringFunc(raw, func(placeholder string) string {
		m := envPattern.FindStringSubmatch(placeholder)
		if v, ok := os.LookupEnv(m[1]); ok {
			return v
		}
		if m[2] != "" {
			return m[3]
		}
		missing = append(missing, m[1])
		return placeholder
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("unset variables without defaults: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
