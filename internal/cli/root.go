// Package cli exposes the menu planner as a cobra command tree
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	menuapp "github.com/alchemorsel/menuplanner/internal/application/menu"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/config"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/container"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/monitoring"
	"github.com/alchemorsel/menuplanner/pkg/healthcheck"
)

// Runtime is the part of the application graph the commands use
type Runtime struct {
	Service *menuapp.MenuService
	Metrics *monitoring.EngineMetrics
	Config  *config.Config
	Health  *healthcheck.HealthCheck
}

// Options are the global flags shared by every command
type Options struct {
	ConfigPath string
	Seed       bool
}

// NewRootCmd creates the top-level "menuplanner" command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&Options{})
}

func newRootCmd(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "menuplanner",
		Short:         "Personalized menu recommendations and outcome predictions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the config file")
	root.PersistentFlags().BoolVar(&opts.Seed, "seed", false, "Load the demo catalog before running")

	root.AddCommand(
		newGenerateCmd(opts),
		newCachedCmd(opts),
		newSeedCmd(opts),
		newHealthCmd(opts),
	)
	return root
}

// withRuntime starts the application graph, runs fn and stops the graph
func withRuntime(ctx context.Context, opts *Options, fn func(ctx context.Context, rt Runtime) error) error {
	var rt Runtime
	fxOpts := []fx.Option{
		container.Module(opts.ConfigPath),
		fx.NopLogger,
		fx.Populate(&rt.Service, &rt.Metrics, &rt.Config, &rt.Health),
	}
	if opts.Seed {
		fxOpts = append(fxOpts, fx.Decorate(func(cfg *config.Config) *config.Config {
			seeded := *cfg
			seeded.Database.Seed = true
			return &seeded
		}))
	}

	app := fx.New(fxOpts...)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	runErr := fn(ctx, rt)
	if err := app.Stop(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
