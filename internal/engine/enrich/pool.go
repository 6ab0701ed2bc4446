package enrich

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/alchemorsel/menuplanner/internal/domain/menu"
	"github.com/alchemorsel/menuplanner/internal/domain/recipe"
	"github.com/alchemorsel/menuplanner/internal/domain/user"
	"github.com/alchemorsel/menuplanner/internal/engine/knowledge"
)

// PoolOptions controls how a candidate pool is fanned out
type PoolOptions struct {
	Workers           int // <= 0 uses GOMAXPROCS
	ParallelThreshold int // pools at or below this size are enriched inline
}

// DefaultPoolOptions returns the settings used when none are configured
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{Workers: runtime.GOMAXPROCS(0), ParallelThreshold: 256}
}

// EnrichAll enriches every recipe in the pool. Output order matches input
// order regardless of how the work was split. The context is only checked
// between chunks; a single Enrich call always runs to completion.
func EnrichAll(ctx context.Context, pool []recipe.Recipe, uctx user.Context, biomarkers knowledge.BiomarkerIngredients, opts PoolOptions) ([]menu.EnrichedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]menu.EnrichedRecipe, len(pool))

	if len(pool) <= opts.ParallelThreshold || opts.Workers == 1 {
		for i, r := range pool {
			out[i] = Enrich(r, uctx, biomarkers)
		}
		return out, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pool) {
		workers = len(pool)
	}
	chunk := (len(pool) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(pool); start += chunk {
		start, end := start, min(start+chunk, len(pool))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = Enrich(pool[i], uctx, biomarkers)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
