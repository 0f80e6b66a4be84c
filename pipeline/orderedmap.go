package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// orderedMap applies fn to every item concurrently, with at most limit
// calls running at a time. Results are in the order of items, independent
// of completion order. The first error cancels the context passed to the
// remaining calls and is returned.
func orderedMap[S, T any](ctx context.Context, limit int, items []S,
	fn func(ctx context.Context, i int, item S) (T, error)) ([]T, error) {
	//
	results := make([]T, len(items))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, item := range items {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, i, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
