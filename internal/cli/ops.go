package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/toko-pos/internal/app"
	"github.com/noah-isme/toko-pos/internal/config"
	"github.com/noah-isme/toko-pos/internal/health"
	"github.com/noah-isme/toko-pos/internal/store"
)

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := loadLogger(opts, cfg)
			h, err := store.Open(cmd.Context(), cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer h.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", h.Driver)
			return nil
		},
	}
}

func doctorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Probe the database and cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			no := false
			local := *opts
			local.seed = &no
			return withDeps(cmd, &local, func(ctx context.Context, deps *app.Dependencies) error {
				statuses, ok := health.Report{Checker: deps.Checker()}.Run(ctx)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "driver: %s\n", deps.Store.Driver)
				for _, s := range statuses {
					detail := s.Detail
					if s.Name == "redis" && deps.Redis == nil {
						detail = "disabled"
					}
					fmt.Fprintf(out, "%s: %s\n", s.Name, detail)
				}
				if !ok {
					return errors.New("doctor: unhealthy dependencies")
				}
				return nil
			})
		},
	}
}

func seedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog and roster into empty tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			no := false
			local := *opts
			local.seed = &no
			return withDeps(cmd, &local, func(ctx context.Context, deps *app.Dependencies) error {
				products, employees, err := deps.Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "products seeded: %t\nemployees seeded: %t\n", products, employees)
				return nil
			})
		},
	}
}

func eventsCmd(opts *options) *cobra.Command {
	var (
		topic string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recently recorded domain events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			no := false
			local := *opts
			local.seed = &no
			return withDeps(cmd, &local, func(ctx context.Context, deps *app.Dependencies) error {
				recent, err := deps.Events.Recent(ctx, topic, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(recent) == 0 {
					fmt.Fprintln(out, "(no events)")
					return nil
				}
				for _, ev := range recent {
					fmt.Fprintf(out, "%s  %-16s %-12s %s\n", ev.OccurredAt.Format("2006-01-02 15:04:05"), ev.Topic, ev.AggregateID, ev.Payload)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "only show this topic")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum events to show")
	return cmd
}
