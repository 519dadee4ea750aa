package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath, when set, names the config file directly.
const EnvConfigPath = "BASIL_CONFIG"

// Load reads, expands, defaults and validates the config for env.
func Load(env string) (Config, error) {
	path := configPath(env)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns $ENV, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// configPath tries $BASIL_CONFIG, ./config and the source tree's config dir,
// falling back to ./config so the read error names a sensible path.
func configPath(env string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	name := env + ".yaml"
	local := filepath.Join("config", name)

	candidates := []string{local}
	if _, src, _, ok := runtime.Caller(0); ok {
		root := filepath.Dir(filepath.Dir(filepath.Dir(src)))
		candidates = append(candidates, filepath.Join(root, "config", name))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return local
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars substitutes ${VAR} and ${VAR:-default}.
func expandEnvVars(data []byte) []byte {
	return envVarRe.ReplaceAllFunc(data, func(m []byte) []byte {
		name, def, hasDef := strings.Cut(string(m[2:len(m)-1]), ":-")
		if v := os.Getenv(name); v != "" || !hasDef {
			return []byte(v)
		}
		return []byte(def)
	})
}
