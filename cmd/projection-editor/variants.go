package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVariantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the available variants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range a.variants.List() {
				v := a.variants.MustGet(name)
				marker := " "
				if name == a.cfg.Variant {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-12s %s (handlers: %s)\n", marker, name, v.Title, v.Placement)
			}
			return nil
		},
	}
}
