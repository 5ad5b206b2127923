package arbor

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvStrictProviders = "ARBOR_STRICT_PROVIDERS"
	EnvDebug           = "ARBOR_DEBUG"
)

// Config is the serializable form of the injector settings.
// Nil fields mean "not set" and leave the defaults untouched.
type Config struct {
	StrictProviders *bool `yaml:"strict_providers"`
	Debug           *bool `yaml:"debug"`
}

// LoadConfig reads a YAML config file.
//
//	strict_providers: false
//	debug: true
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ConfigFromEnv builds a Config from the process environment, falling back
// to values from dotenv files. Without files ".env" is tried and may be
// missing; explicitly named files must exist. The process environment wins
// over file values.
func ConfigFromEnv(files ...string) (Config, error) {
	var cfg Config

	fileEnv, err := readEnvFiles(files)
	if err != nil {
		return cfg, err
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}

		return fileEnv[key]
	}

	if cfg.StrictProviders, err = envBool(EnvStrictProviders, lookup(EnvStrictProviders)); err != nil {
		return cfg, err
	}

	if cfg.Debug, err = envBool(EnvDebug, lookup(EnvDebug)); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		// Non-fatal: .env may not exist
		values, err := godotenv.Read(".env")
		if err != nil {
			return map[string]string{}, nil
		}

		return values, nil
	}

	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("read env files: %w", err)
	}

	return values, nil
}

func envBool(key, raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid boolean %q: %w", key, raw, err)
	}

	return &b, nil
}
