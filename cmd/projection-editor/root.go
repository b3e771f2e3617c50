package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-projection-editor/internal/config"
	"github.com/goliatone/go-projection-editor/internal/logging"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	variants *variant.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath  string
		logLevel    string
		variantsDir string
	)

	root := &cobra.Command{
		Use:   "projection-editor",
		Short: "Edit application projection documents",
		Long: `projection-editor edits the JSON projection document that configures how an
application is presented to a role: the workflow stage, the organization, the
authorities and actions, and the dynamics with their action handlers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("variants-dir") {
				cfg.VariantsDir = variantsDir
			}

			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(level)

			a.variants, err = loadVariants(cfg.VariantsDir)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&variantsDir, "variants-dir", "", "directory of extra variant definitions")

	root.AddCommand(
		newServeCmd(a),
		newEditCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
		newVariantsCmd(a),
	)
	return root
}

// loadVariants returns the embedded variants plus the definitions in dir.
func loadVariants(dir string) (*variant.Registry, error) {
	registry, err := variant.Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return registry, nil
	}
	extra, err := variant.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load variants from %s: %w", dir, err)
	}
	for _, v := range extra {
		if err := registry.Register(v); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// variantOr returns flagValue when set, else the configured default.
func (a *app) variantOr(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return a.cfg.Variant
}
