package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-viewbind/internal/prompt"
	"github.com/goliatone/go-viewbind/internal/scaffold"
)

type initOptions struct {
	output string
	force  bool
	driver prompt.Driver
}

// initCmd builds the init command. A nil driver selects survey prompts.
func initCmd(global *globalOptions, driver prompt.Driver) *cobra.Command {
	opts := &initOptions{driver: driver}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively scaffold a YAML binding manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), global.logLevel)

			if !opts.force {
				if _, err := os.Stat(opts.output); err == nil {
					return fmt.Errorf("init: %s already exists (use --force to overwrite)", opts.output)
				}
			}

			driver := opts.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver()
			}
			binding, err := scaffold.Run(cmd.Context(), driver)
			if err != nil {
				return err
			}
			data, err := scaffold.Marshal(binding)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(opts.output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("init: create %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("init: write manifest: %w", err)
			}
			logger.Info("manifest written", "path", opts.output, "binding", binding.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest written to %s\n", opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "viewbindings.yaml", "Manifest file to write")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing manifest")

	return cmd
}
