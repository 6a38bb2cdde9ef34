package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Multi fans each write out to every sink concurrently.
type Multi []Sink

// Write returns the first sink error. The remaining writes see a cancelled context.
func (m Multi) Write(ctx context.Context, name string, records any) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range m {
		g.Go(func() error {
			return s.Write(gctx, name, records)
		})
	}
	return g.Wait()
}

// Close closes every sink and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
