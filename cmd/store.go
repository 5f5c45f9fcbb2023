package main

import (
	"context"

	"github.com/Prastabm/SafeLanes-Research/internal/config"
	"github.com/Prastabm/SafeLanes-Research/internal/store"
)

// initStore opens the configured store and applies its migration.
func initStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
