package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	ksig "github.com/ZKNoxHQ/ksig-bridge"
	"github.com/ZKNoxHQ/ksig-bridge/config"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/spf13/cobra"
)

// errVerificationFailed makes the process exit non-zero after a failed
// outcome has been printed.
var errVerificationFailed = errors.New("verification failed")

type globalFlags struct {
	configPath string
	artifacts  string
	engine     string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "ksig",
		Short:         "Verify ECDSA knowledge-of-signature proofs",
		Version:       ksig.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&flags.artifacts, "artifacts", "", "artifact directory (overrides config and "+config.EnvArtifactDir+")")
	pf.StringVar(&flags.engine, "engine", "", "engine: native|gnark")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text|json")

	root.AddCommand(
		newVerifyCmd(flags),
		newVerifyInputsCmd(flags),
		newSetupCmd(flags),
		newSchemaCmd(),
		newSandboxCmd(flags),
		newScriptCmd(flags),
	)
	return root
}

// load resolves the configuration: file, environment, then flags.
func (f *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.artifacts != "" {
		cfg.Artifacts.Dir = f.artifacts
	}
	if f.engine != "" {
		cfg.Engine = f.engine
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, error) {
	return cfg.Logger(cmd.ErrOrStderr())
}

// printOutcome writes out as JSON and maps a failed outcome to
// errVerificationFailed.
func printOutcome(w io.Writer, out entities.VerificationOutcome) error {
	if err := printJSON(w, out); err != nil {
		return err
	}
	if !out.Success {
		return errVerificationFailed
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
