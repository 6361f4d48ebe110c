package main

import (
	"fmt"
	"io"
	"os"

	ksig "github.com/ZKNoxHQ/ksig-bridge"
	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/spf13/cobra"
)

func newVerifyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Prove and verify using the witness file in the artifact directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openBridge(cmd, flags)
			if err != nil {
				return err
			}
			out, err := b.VerifyFromFiles(cmd.Context())
			if err != nil {
				return err
			}
			return printOutcome(cmd.OutOrStdout(), out)
		},
	}
}

type inputFlags struct {
	file    string
	msgHash string
	r       string
	s       string
	pubX    string
	pubY    string
}

func newVerifyInputsCmd(flags *globalFlags) *cobra.Command {
	in := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "verify-inputs",
		Short: "Prove and verify an inline witness",
		Long: `Prove and verify an inline witness given either as a JSON document
(--input, "-" for stdin) or as the five hex fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := in.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			b, err := openBridge(cmd, flags)
			if err != nil {
				return err
			}
			out, err := b.VerifyWithInputs(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printOutcome(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&in.file, "input", "i", "", "JSON witness file, - for stdin")
	f.StringVar(&in.msgHash, entities.FieldMsgHash, "", "hex message hash")
	f.StringVar(&in.r, entities.FieldR, "", "hex signature r")
	f.StringVar(&in.s, entities.FieldS, "", "hex signature s")
	f.StringVar(&in.pubX, entities.FieldPubX, "", "hex public key x")
	f.StringVar(&in.pubY, entities.FieldPubY, "", "hex public key y")
	cmd.MarkFlagsMutuallyExclusive("input", entities.FieldMsgHash)
	return cmd
}

func (in *inputFlags) request(stdin io.Reader) (entities.ProofRequest, error) {
	if in.file == "" {
		return entities.NewProofRequest(in.msgHash, in.r, in.s, in.pubX, in.pubY), nil
	}
	text, err := readInput(in.file, stdin)
	if err != nil {
		return entities.ProofRequest{}, err
	}
	return sandbox.DecodeRequest(text)
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func openBridge(cmd *cobra.Command, flags *globalFlags) (*ksig.Bridge, error) {
	cfg, err := flags.load()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return ksig.OpenWithLogger(cfg, logger)
}
