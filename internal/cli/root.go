package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/toko-pos/internal/app"
	"github.com/noah-isme/toko-pos/internal/cart"
	"github.com/noah-isme/toko-pos/internal/config"
	"github.com/noah-isme/toko-pos/internal/menu"
	"github.com/noah-isme/toko-pos/internal/obs"
)

// Execute runs the pos command tree and exits non-zero on failure.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	debug bool
	// seed overrides SEED_ON_START when set.
	seed *bool
}

// NewRootCmd assembles the pos command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "pos",
		Short:        "Point-of-sale terminal utilities: shop checkout, leave portal, parking allocator",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(
		shopCmd(opts),
		catalogCmd(opts),
		leaveCmd(opts),
		parkingCmd(opts),
		migrateCmd(opts),
		doctorCmd(opts),
		seedCmd(opts),
		eventsCmd(opts),
	)
	return cmd
}

func loadLogger(opts *options, cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if opts.debug {
		level = "debug"
	}
	return obs.NewLogger(cfg.LogFormat, level).With().Str("env", cfg.AppEnv).Logger()
}

// withDeps runs fn with fully wired dependencies and releases them afterwards.
func withDeps(cmd *cobra.Command, opts *options, fn func(ctx context.Context, deps *app.Dependencies) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := loadLogger(opts, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = obs.WithSession(ctx, uuid.NewString())
	ctx, span := app.Tracer("pos").Start(ctx, "pos."+cmd.Name())
	defer span.End()

	deps, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := deps.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("shutdown")
			err = errors.Join(err, cerr)
		}
	}()

	seed := cfg.SeedOnStart
	if opts.seed != nil {
		seed = *opts.seed
	}
	if seed {
		if _, _, err := deps.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return fn(ctx, deps)
}

func runLoop(ctx context.Context, cmd *cobra.Command, logger zerolog.Logger, title string, table menu.Table) error {
	loop := menu.Loop{
		Title:  title,
		Table:  table,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func shopCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Interactive checkout with the buy-one-get-one promotion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, opts, func(ctx context.Context, deps *app.Dependencies) error {
				c := cart.New(deps.Validator)
				title := "=== STORE ==="
				if !deps.Cart.Pricer.Disabled() {
					title = fmt.Sprintf("=== STORE === (buy one get one free on %s)", deps.Cart.Pricer.Category)
				}
				return runLoop(ctx, cmd, deps.Logger, title, ShopCommands(deps.Catalog, deps.Cart, c))
			})
		},
	}
}

func catalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Interactive product catalog maintenance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, opts, func(ctx context.Context, deps *app.Dependencies) error {
				return runLoop(ctx, cmd, deps.Logger, "=== CATALOG ===", CatalogCommands(deps.Catalog))
			})
		},
	}
}

func leaveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Interactive employee leave portal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, opts, func(ctx context.Context, deps *app.Dependencies) error {
				return runLoop(ctx, cmd, deps.Logger, "=== LEAVE PORTAL ===", LeaveCommands(deps.Leave))
			})
		},
	}
}

func parkingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parking",
		Short: "Interactive parking allocator with VIP billing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, opts, func(ctx context.Context, deps *app.Dependencies) error {
				return runLoop(ctx, cmd, deps.Logger, "=== PARKING ===", ParkingCommands(deps.Parking))
			})
		},
	}
}
