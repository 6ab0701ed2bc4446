package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/menuplanner/internal/ports/inbound"
)

const dateLayout = "2006-01-02"

func newGenerateCmd(opts *Options) *cobra.Command {
	var (
		userID, date          string
		mealTypes, local      []string
		persist, skipCache    bool
		showMetrics           bool
		maxPerSlot            int
		seasonal, novelty     float64
		noBiomarkerOptimizing bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a menu for a user and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return err
			}

			command := inbound.GenerateMenuCommand{
				UserID:           userID,
				Date:             day,
				MaxPerSlot:       maxPerSlot,
				LocalIngredients: local,
				PersistLearning:  persist,
				SkipCache:        skipCache,
			}
			for _, name := range mealTypes {
				command.MealTypes = append(command.MealTypes, recipe.MealType(name))
			}
			flags := cmd.Flags()
			if flags.Changed("seasonal-weight") {
				command.SeasonalWeight = &seasonal
			}
			if flags.Changed("novelty-weight") {
				command.NoveltyWeight = &novelty
			}
			if flags.Changed("no-biomarkers") {
				optimize := !noBiomarkerOptimizing
				command.OptimizeForBiomarkers = &optimize
			}

			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt Runtime) error {
				dto, err := rt.Service.GenerateMenu(ctx, command)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), dto); err != nil {
					return err
				}
				if showMetrics {
					snap, err := rt.Metrics.Snapshot()
					if err != nil {
						return err
					}
					printSnapshot(cmd.ErrOrStderr(), snap)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", sqlite.DemoUserID, "User to plan for")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Menu date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringSliceVarP(&mealTypes, "meal-types", "m", nil, "Slots to fill, in order")
	cmd.Flags().StringSliceVar(&local, "local", nil, "Locally available ingredients")
	cmd.Flags().IntVar(&maxPerSlot, "max-per-slot", 0, "Recipes per slot")
	cmd.Flags().Float64Var(&seasonal, "seasonal-weight", 0, "Weight of the seasonal score")
	cmd.Flags().Float64Var(&novelty, "novelty-weight", 0, "Weight of the novelty score")
	cmd.Flags().BoolVar(&noBiomarkerOptimizing, "no-biomarkers", false, "Ignore biomarker targeting")
	cmd.Flags().BoolVar(&persist, "persist", false, "Merge the learning delta into the stored profile")
	cmd.Flags().BoolVar(&skipCache, "skip-cache", false, "Regenerate even when a cached menu exists")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print engine metrics to stderr")

	return cmd
}

func newCachedCmd(opts *Options) *cobra.Command {
	var userID, date string

	cmd := &cobra.Command{
		Use:   "cached",
		Short: "Print the cached menu for a user and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt Runtime) error {
				dto, err := rt.Service.GetCachedMenu(ctx, userID, day)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dto)
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", sqlite.DemoUserID, "User the menu was planned for")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Menu date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newSeedCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog and demo user",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded := *opts
			seeded.Seed = true
			return withRuntime(cmd.Context(), &seeded, func(ctx context.Context, rt Runtime) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d recipes for %s\n", len(sqlite.DemoCatalog()), sqlite.DemoUserID)
				return nil
			})
		},
	}
}

func newHealthCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the database, cache and recipe catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), opts, func(ctx context.Context, rt Runtime) error {
				resp := rt.Health.Check(ctx)
				if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
					return err
				}
				return resp.Err()
			})
		},
	}
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", value)
	}
	return day, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSnapshot(w io.Writer, snap map[string]float64) {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s %g\n", name, snap[name])
	}
}
