package main

import (
	"fmt"
	"os"

	"github.com/ZKNoxHQ/ksig-bridge/adapters/managed"
	"github.com/dop251/goja"
	"github.com/spf13/cobra"
)

func newScriptCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "script <file.js>",
		Short: "Run a JavaScript file with the ksig object installed",
		Long: `Run a JavaScript file in an embedded runtime. The global ksig object
exposes runProofVerificationFromFiles() and
runProofVerificationWithInputs({msgHash, r, s, pubX, pubY}); print(...)
writes a line to stdout. The value of the last expression is printed as
JSON unless it is undefined.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			b, err := openBridge(cmd, flags)
			if err != nil {
				return err
			}

			vm := goja.New()
			if err := managed.Install(vm, b, managed.WithContext(cmd.Context())); err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			if err := vm.Set("print", func(call goja.FunctionCall) goja.Value {
				for i, arg := range call.Arguments {
					if i > 0 {
						fmt.Fprint(stdout, " ")
					}
					fmt.Fprint(stdout, arg.String())
				}
				fmt.Fprintln(stdout)
				return goja.Undefined()
			}); err != nil {
				return err
			}

			val, err := vm.RunScript(args[0], string(src))
			if err != nil {
				return err
			}
			if val == nil || goja.IsUndefined(val) {
				return nil
			}
			return printJSON(stdout, val.Export())
		},
	}
}
