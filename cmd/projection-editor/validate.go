package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-projection-editor/pkg/orchestrator"
)

// errValidationFailed is returned after the issues were printed, so main
// exits non-zero without repeating them.
var errValidationFailed = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var variantName string
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Report schema issues of a document",
		Long: `Checks a document against the variant schema and prints one line per issue.
The editor itself accepts any JSON; this command exits non-zero when issues
exist or the file is not valid JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			gen := orchestrator.New(orchestrator.WithVariants(a.variants))
			result, err := gen.Validate(a.variantOr(variantName), document)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Valid {
				fmt.Fprintln(out, "document is valid")
				return nil
			}
			for _, issue := range result.Issues {
				path := issue.Path
				if path == "" {
					path = "/"
				}
				fmt.Fprintf(out, "%s: %s\n", path, issue.Message)
			}
			return errValidationFailed
		},
	}
	cmd.Flags().StringVar(&variantName, "variant", "", "variant (default from config)")
	return cmd
}
