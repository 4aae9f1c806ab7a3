package bootstrap

import (
	"context"
	"fmt"

	"github.com/projectdesk/projectdesk-backend/config"
	"github.com/projectdesk/projectdesk-backend/internal/projects"
	"github.com/projectdesk/projectdesk-backend/internal/storage/postgres"
	"github.com/projectdesk/projectdesk-backend/internal/storage/sqlite"
)

// OpenStore constructs the persistence adapter selected by configuration.
// The store is built once at process start and injected into the resources
// that need it.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (projects.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case "postgres":
		return postgres.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
