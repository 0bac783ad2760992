package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/askdb/internal/samples"
)

func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples [NAME]",
		Short: "List the bundled sample schemas, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range samples.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			sample, err := samples.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(out, sample.DDL)
			return nil
		},
	}
}
