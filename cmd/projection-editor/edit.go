package main

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-projection-editor/pkg/orchestrator"
	"github.com/goliatone/go-projection-editor/pkg/renderers/tui"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		variantName string
		input       string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a document interactively in the terminal",
		Long: `Opens a menu-driven editor. Prompts and the live preview go to stderr; the
final document is written to stdout or --output when the session ends.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			document, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			terminal, err := tui.New(
				tui.WithOutput(os.Stderr),
				tui.WithPromptDriver(tui.NewSurveyDriver(os.Stderr, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr))),
			)
			if err != nil {
				return err
			}
			gen := orchestrator.New(
				orchestrator.WithVariants(a.variants),
				orchestrator.WithRenderer(terminal),
			)

			// A malformed --input starts from the defaults with the decoder
			// message in the import buffer.
			out, err := gen.Generate(cmd.Context(), orchestrator.Request{
				Variant:  a.variantOr(variantName),
				Document: document,
				Renderer: terminal.Name(),
			})
			if err != nil {
				return err
			}
			return writeOutput(output, cmd.OutOrStdout(), append(out, '\n'))
		},
	}
	cmd.Flags().StringVar(&variantName, "variant", "", "variant to edit (default from config)")
	cmd.Flags().StringVar(&input, "input", "", "initial document file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a file instead of stdout")
	return cmd
}
