package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-projection-editor/pkg/orchestrator"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		variantName string
		input       string
		output      string
		format      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the editor result for a document",
		Long: `Imports --input (or the variant defaults) and prints the result exactly as the
editor copies it: keys sorted, two-space indentation, numbers verbatim. With
--format vanilla the standalone HTML page is printed instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			document, err := readInput(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			gen := orchestrator.New(orchestrator.WithVariants(a.variants))

			if document != "" {
				if _, err := gen.Validate(a.variantOr(variantName), document); err != nil {
					return fmt.Errorf("import %s: %w", input, err)
				}
			}
			out, err := gen.Generate(cmd.Context(), orchestrator.Request{
				Variant:  a.variantOr(variantName),
				Document: document,
				Renderer: format,
			})
			if err != nil {
				return fmt.Errorf("%w (formats: %s)", err, strings.Join(gen.Renderers(), ", "))
			}
			return writeOutput(output, cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&variantName, "variant", "", "variant (default from config)")
	cmd.Flags().StringVar(&input, "input", "", "document file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or vanilla")
	return cmd
}
