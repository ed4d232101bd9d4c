package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tgienger/quill/internal/backend"
	"github.com/tgienger/quill/internal/config"
	"github.com/tgienger/quill/internal/derive"
	"github.com/tgienger/quill/internal/ics"
	"github.com/tgienger/quill/internal/models"
	"github.com/tgienger/quill/internal/recordapi"
)

func serveCmd(f *flags) *cobra.Command {
	var addr, apiKey string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the record API over the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if apiKey != "" {
				cfg.Server.APIKey = apiKey
			}
			if cfg.Backend == config.BackendRemote {
				return fmt.Errorf("serve needs a local backend, not %q", cfg.Backend)
			}
			logger := newLogger(os.Stderr, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b, err := backend.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			srv := recordapi.New(b.Stores,
				recordapi.WithAPIKey(cfg.Server.APIKey),
				recordapi.WithLogger(logger),
				recordapi.WithRegistry(reg),
			)
			logger.Info("Serving record API", "backend", b.Name, "auth", cfg.Server.APIKey != "")
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Require this bearer token")
	return cmd
}

// withStore opens the configured backend for a one-shot command
func withStore(ctx context.Context, f *flags, fn func(ctx context.Context, b *backend.Backend) error) error {
	cfg, err := f.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	b, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}

func statsCmd(f *flags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print task counts per status and word totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), f, func(ctx context.Context, b *backend.Backend) error {
				tasks, err := b.Stores.Tasks.GetAll(ctx)
				if err != nil {
					return err
				}
				stats := derive.ComputeStats(tasks)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(stats)
				}
				return printStats(cmd.OutOrStdout(), stats)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printStats(w io.Writer, s derive.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%d\n", s.Total)
	for _, st := range models.Statuses {
		fmt.Fprintf(tw, "%s\t%d\n", st.Label(), s.Count(st))
	}
	fmt.Fprintf(tw, "Words\t%d / %d (%d%%)\n", s.TotalWords, s.TargetWords, s.WordsCompletePercent())
	return tw.Flush()
}

func exportICSCmd(f *flags) *cobra.Command {
	var (
		status    string
		projectID string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export task deadlines as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts ics.Options
			if status != "" {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				opts.Status = st
			}
			opts.ProjectID = projectID

			return withStore(cmd.Context(), f, func(ctx context.Context, b *backend.Backend) error {
				tasks, err := b.Stores.Tasks.GetAll(ctx)
				if err != nil {
					return err
				}
				if opts.Projects, err = b.Stores.Projects.GetAll(ctx); err != nil {
					return err
				}

				if output == "" || output == "-" {
					return ics.Write(cmd.OutOrStdout(), tasks, time.Now(), opts)
				}
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				if err := ics.Write(file, tasks, time.Now(), opts); err != nil {
					file.Close()
					return err
				}
				return file.Close()
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only export tasks in this status")
	cmd.Flags().StringVar(&projectID, "project", "", "Only export tasks in this project (id)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the user configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default user config if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(nil).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}
