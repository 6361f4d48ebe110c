package host

import (
	"io"
	"log/slog"
)

// DefaultGuestArtifactDir is where the artifact directory appears inside
// the guest.
const DefaultGuestArtifactDir = "/artifacts"

// DefaultGuestName is the module name given to the guest instance.
const DefaultGuestName = "ksig-guest"

type runnerConfig struct {
	logger           *slog.Logger
	stdout           io.Writer
	stderr           io.Writer
	artifactDir      string
	guestArtifactDir string
	name             string
	memoryLimitPages uint32
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		guestArtifactDir: DefaultGuestArtifactDir,
		name:             DefaultGuestName,
		stdout:           io.Discard,
		stderr:           io.Discard,
	}
}

// Option configures a Runner.
type Option func(*runnerConfig)

// WithArtifactDir mounts dir read-only in the guest at
// DefaultGuestArtifactDir.
func WithArtifactDir(dir string) Option {
	return func(c *runnerConfig) {
		c.artifactDir = dir
	}
}

// WithGuestArtifactDir changes the mount point inside the guest.
func WithGuestArtifactDir(dir string) Option {
	return func(c *runnerConfig) {
		c.guestArtifactDir = dir
	}
}

// WithName sets the guest module name used in logs.
func WithName(name string) Option {
	return func(c *runnerConfig) {
		c.name = name
	}
}

// WithLogger sets the logger used for runner events and replayed guest logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runnerConfig) {
		c.logger = logger
	}
}

// WithStdio connects the guest's stdout and stderr.
func WithStdio(stdout, stderr io.Writer) Option {
	return func(c *runnerConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithMemoryLimitPages caps guest memory in 64KiB pages. Zero keeps the
// wazero default.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *runnerConfig) {
		c.memoryLimitPages = pages
	}
}
