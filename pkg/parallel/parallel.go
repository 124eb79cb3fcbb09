// Package parallel fans independent work items out over a bounded pool of
// goroutines while keeping results in input order.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapErr applies fn to every item using at most workers goroutines and
// returns the results in input order: slot i always holds fn(i, items[i]),
// whatever order the tasks complete in. With workers == 1 the items are
// processed sequentially in input order. A workers value below 1 is treated
// as 1; callers are expected to reject it earlier.
//
// The first error returned by fn is returned; items not yet dispatched are
// skipped once an error has occurred.
func MapErr[T, R any](items []T, workers int, fn func(i int, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		for i, item := range items {
			r, err := fn(i, item)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := fn(i, item)
			if err != nil {
				return err
			}
			// each task owns slot i exclusively
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Map is MapErr for functions that cannot fail
func Map[T, R any](items []T, workers int, fn func(i int, item T) R) []R {
	results, _ := MapErr(items, workers, func(i int, item T) (R, error) {
		return fn(i, item), nil
	})
	return results
}
