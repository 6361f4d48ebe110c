// Package config loads bridge configuration from YAML and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, KSIG_*
// environment variables, then whatever the caller sets afterwards (CLI
// flags).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/log"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Engine names.
const (
	EngineNative = "native"
	EngineGnark  = "gnark"
)

// Environment variables read by ApplyEnv.
const (
	EnvArtifactDir = "KSIG_ARTIFACT_DIR"
	EnvEngine      = "KSIG_ENGINE"
	EnvLogLevel    = "KSIG_LOG_LEVEL"
	EnvLogFormat   = "KSIG_LOG_FORMAT"
)

// Config is the complete bridge configuration.
type Config struct {
	Artifacts entities.ArtifactSet `yaml:"artifacts"`
	Engine    string               `yaml:"engine" validate:"required,oneof=native gnark"`
	Log       Log                  `yaml:"log"`
	Guest     Guest                `yaml:"guest"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	Source bool   `yaml:"source"`
}

// Guest configures the sandboxed guest module run by the host runner.
type Guest struct {
	Module string `yaml:"module"`
	// MemoryLimitPages caps guest memory in 64KiB pages; 0 keeps the
	// runtime default.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" validate:"lte=65536"`
}

// validate is shared; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Default returns the configuration used when nothing else is set: the
// native engine over the default artifact names in the working directory.
func Default() Config {
	return Config{
		Artifacts: entities.DefaultArtifactSet("."),
		Engine:    EngineNative,
		Log: Log{
			Level:  "info",
			Format: log.FormatText,
		},
	}
}

// Parse decodes YAML over the defaults. Keys absent from data keep their
// default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &bridgeerrors.ConfigError{Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	return cfg, nil
}

// Load reads path (skipped when empty), applies the process environment and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &bridgeerrors.ConfigError{Err: fmt.Errorf("failed to read config: %w", err)}
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from non-empty KSIG_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvArtifactDir, &c.Artifacts.Dir)
	set(EnvEngine, &c.Engine)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
}

// Validate checks the configuration. The first violation is returned as a
// *errors.ConfigError naming the offending key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &bridgeerrors.ConfigError{Err: err}
	}
	fe := verrs[0]
	return &bridgeerrors.ConfigError{
		Field: strings.TrimPrefix(fe.Namespace(), "Config."),
		Err:   fmt.Errorf("failed on %q with value %v", fe.Tag(), fe.Value()),
	}
}

// Logger builds the logger described by c.Log, writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, &bridgeerrors.ConfigError{Field: "log.level", Err: err}
	}
	format, err := log.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, &bridgeerrors.ConfigError{Field: "log.format", Err: err}
	}
	return log.New(
		log.WithLevel(level),
		log.WithFormat(format),
		log.WithSource(c.Log.Source),
		log.WithWriter(w),
	), nil
}
