package main

import (
	"github.com/ZKNoxHQ/ksig-bridge/application/schema"
	"github.com/ZKNoxHQ/ksig-bridge/engine/gnarkengine"
	"github.com/spf13/cobra"
)

func newSetupCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Compile the reference circuit and write fresh artifacts",
		Long: `Compile the P-256 circuit, run a groth16 trusted setup and write the
constraint system, both keys and a valid witness to the artifact directory.
This takes a while and is meant for development deployments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			logger.Info("running circuit setup", "artifact_dir", cfg.Artifacts.Dir)
			if err := gnarkengine.Setup(cfg.Artifacts); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cfg.Artifacts)
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of an inline witness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.RequestSchema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
}
