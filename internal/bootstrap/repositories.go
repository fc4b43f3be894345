package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calderw/mirrorsync/internal/database/postgres"
	"github.com/calderw/mirrorsync/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Sync repository.Sync
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Sync: postgres.NewSyncRepository(dbPool),
	}
}
