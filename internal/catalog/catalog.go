// Package catalog loads asset records from persistent sources and feeds them
// into the entity store as actions.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/safe-ui/safe_assets/internal/store"
)

// Source produces the actions that bring the store up to date with a backend.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]store.Action, error)
}

// Hydrate loads every source in order and dispatches its actions. It stops
// at the first failing source or rejected action.
func Hydrate(ctx context.Context, st *store.Store, logger *slog.Logger, sources ...Source) error {
	for _, src := range sources {
		actions, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Name(), err)
		}
		for _, a := range actions {
			if _, err := st.Dispatch(ctx, a); err != nil {
				return fmt.Errorf("apply %s from %s: %w", a.Type(), src.Name(), err)
			}
		}
		if logger != nil {
			logger.Info("catalog hydrated",
				slog.String("source", src.Name()),
				slog.Int("actions", len(actions)),
				slog.Uint64("version", st.State().Version()),
			)
		}
	}
	return nil
}
