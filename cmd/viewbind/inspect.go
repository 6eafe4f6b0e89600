package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-viewbind/pkg/binder"
	"github.com/goliatone/go-viewbind/pkg/manifest"
	"github.com/goliatone/go-viewbind/pkg/provider"
	"github.com/goliatone/go-viewbind/pkg/registry"
)

type inspectOptions struct {
	format    string
	templates string
	ext       string
	separator string
	watch     bool
}

func inspectCmd(global *globalOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Boot manifests and list the resulting registrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			logger := newLogger(cmd.ErrOrStderr(), global.logLevel)
			out := cmd.OutOrStdout()

			if err := runInspect(cmd.Context(), out, logger, dir, opts); err != nil {
				if !opts.watch {
					return err
				}
				logger.Error("inspect failed", "dir", dir, "error", err)
			}
			if !opts.watch {
				return nil
			}
			return watchDir(cmd.Context(), logger, dir, func() {
				if err := runInspect(cmd.Context(), out, logger, dir, opts); err != nil {
					logger.Error("inspect failed", "dir", dir, "error", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "Template directory used to reject unknown views")
	cmd.Flags().StringVar(&opts.ext, "ext", ".tpl", "Template file extension used with --templates")
	cmd.Flags().StringVar(&opts.separator, "separator", ".", "Separator placed between namespace and handler")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when manifest files change")

	return cmd
}

func runInspect(ctx context.Context, out io.Writer, logger *slog.Logger, dir string, opts *inspectOptions) error {
	regs, err := inspect(ctx, logger, dir, opts)
	if err != nil {
		return err
	}
	return writeRegistrations(out, opts.format, regs)
}

func inspect(ctx context.Context, logger *slog.Logger, dir string, opts *inspectOptions) ([]registry.Registration, error) {
	m, err := manifest.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	logger.Info("manifests loaded", "dir", dir, "bindings", len(m.Bindings))

	regOptions := []registry.Option{registry.WithLogger(logger)}
	if opts.templates != "" {
		regOptions = append(regOptions, registry.WithTemplates(os.DirFS(opts.templates), opts.ext))
	}
	reg := registry.New(regOptions...)

	p := provider.New(reg,
		provider.WithLogger(logger),
		provider.WithBinderOptions(binder.WithNamespaceSeparator(opts.separator)),
		provider.WithDeclarations(m.Declarations()...),
	)
	if err := p.Boot(ctx); err != nil {
		return nil, err
	}
	return reg.List(), nil
}

type registrationView struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Views    []string `json:"views"`
	Callback string   `json:"callback"`
}

func writeRegistrations(out io.Writer, format string, regs []registry.Registration) error {
	rows := make([]registrationView, len(regs))
	for idx, reg := range regs {
		rows[idx] = registrationView{
			ID:       reg.ID,
			Kind:     string(reg.Kind),
			Views:    reg.Views,
			Callback: reg.Callback.String(),
		}
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "", "text":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tVIEWS\tCALLBACK")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Kind, strings.Join(row.Views, ","), row.Callback)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("inspect: unknown format %q", format)
	}
}
