package bootstrap

import (
	"context"
	"fmt"

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/contact/domain"
	"github.com/nexora-labs/website-backend/internal/contact/repository"
	"github.com/nexora-labs/website-backend/internal/storage/postgres"
)

// Store is the configured document store behind every interface the
// service, digest and health check consume.
type Store interface {
	domain.SubmissionStore
	domain.SubmissionCounter
	Ping(ctx context.Context) error
}

// OpenStore connects the backend named by cfg.Store.Backend. The returned
// close func releases the underlying client.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreFirestore:
		client, err := OpenFirestore(ctx, &cfg.Firebase)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFirestoreStore(client), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
