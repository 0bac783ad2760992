package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/askdb"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		src        sourceFlags
		outputFile string
		outputDir  string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Show the tables, keys and relationships of a schema",
		Long: `Parse CREATE TABLE statements and print one block per table with primary-key and
foreign-key markers. Reads the given files, a database, a sample, or stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir != "" && outputFile != "" {
				return fmt.Errorf("cannot use both --output-dir and --output flags")
			}

			loaded, err := src.load(context.Background(), a, cmd, args)
			if err != nil {
				return err
			}

			// Multi-file output
			if outputDir != "" {
				if err := askdb.FormatSchema(loaded.result.Schema, &askdb.OutputOptions{OutputDir: outputDir, Format: format}); err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				return nil
			}

			// Single-file output
			writer := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						a.logger.Warn().Err(err).Msg("failed to close output file")
					}
				}()
				writer = f
			}

			if err := askdb.FormatSchema(loaded.result.Schema, &askdb.OutputOptions{Writer: writer, Format: format}); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown or json")
	return cmd
}
