package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	"github.com/ZKNoxHQ/ksig-bridge/host"
	"github.com/spf13/cobra"
)

func newSandboxCmd(flags *globalFlags) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "sandbox [guest.wasm]",
		Short: "Run a verification inside the sandboxed wasm guest",
		Long: `Load the guest module (argument or guest.module from config), mount the
artifact directory read-only and run a verification. With --input the
inline witness is sent as JSON; otherwise the witness file is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			module := cfg.Guest.Module
			if len(args) == 1 {
				module = args[0]
			}
			if module == "" {
				return errors.New("no guest module given")
			}

			ctx := cmd.Context()
			runner, err := host.NewRunnerFromFile(ctx, module,
				host.WithArtifactDir(cfg.Artifacts.Dir),
				host.WithLogger(logger),
				host.WithMemoryLimitPages(cfg.Guest.MemoryLimitPages),
				host.WithStdio(cmd.ErrOrStderr(), cmd.ErrOrStderr()),
			)
			if err != nil {
				return err
			}
			defer func() {
				if err := runner.Close(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("failed to close guest", "error", err)
				}
			}()

			var text string
			if input == "" {
				text, err = runner.VerifyFromFiles(ctx)
			} else {
				req, rerr := readInput(input, cmd.InOrStdin())
				if rerr != nil {
					return rerr
				}
				text, err = runner.VerifyWithInputs(ctx, req)
			}
			if err != nil {
				return err
			}

			out, err := sandbox.DecodeOutcome(text)
			if err != nil {
				return fmt.Errorf("guest returned an unreadable outcome: %w", err)
			}
			return printOutcome(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON witness file, - for stdin")
	return cmd
}
