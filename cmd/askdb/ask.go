package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/askdb/internal/translator"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		src     sourceFlags
		files   []string
		suggest bool
	)

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Translate a question into SQL for a schema",
		Long: `Translate a natural-language question into SQL. The schema text is sent to the
model as read, so constraints and comments the table view does not show are still used.
Requires OPENAI_API_KEY.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if suggest {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			loaded, err := src.load(ctx, a, cmd, files)
			if err != nil {
				return err
			}

			tr := translator.NewOpenAI(translator.Config{
				APIKey: a.cfg.OpenAIAPIKey,
				Model:  a.cfg.Model,
			}, a.logger)

			out := cmd.OutOrStdout()
			if suggest {
				questions, err := tr.SuggestQuestions(ctx, loaded.text)
				if err != nil {
					return err
				}
				for _, q := range questions {
					fmt.Fprintf(out, "- %s\n", q)
				}
				return nil
			}

			translation, err := tr.Translate(ctx, args[0], loaded.text)
			if err != nil {
				return err
			}
			if translation.Failed() {
				return errors.New(translation.Error)
			}

			fmt.Fprintf(out, "%s\n\nExplanation:\n%s\n", translation.SQL, translation.Explanation)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringSliceVar(&files, "file", nil, "Schema file (repeatable)")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Print example questions for the schema instead of answering one")
	return cmd
}
