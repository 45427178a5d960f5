// Package cli implements hosctl, a command-line front end to the
// hours-of-service engine.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Output string // "json" | "yaml" | "text"
	Out    string // file path; empty writes to stdout
}

var ValidOutputs = []string{"text", "json", "yaml"}

// NewRootCommand creates the hosctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hosctl",
		Short: "Hours-of-service duty log simulator",
		Long:  "Simulate FMCSA property-carrying hours-of-service duty logs for a trip's driving time.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Out, "out", "", "write output to this file instead of stdout")

	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))

	return cmd
}
