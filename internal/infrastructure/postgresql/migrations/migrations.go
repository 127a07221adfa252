// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import (
	"context"
	"embed"

	"github.com/muhammadchandra19/flashsale/pkg/logger"
	migrationpg "github.com/muhammadchandra19/flashsale/pkg/migration-pg"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
)

//go:embed *.sql
var files embed.FS

// NewRunner returns a migration runner over the embedded files.
func NewRunner(client postgresql.PostgreSQLClient, log logger.Interface) *migrationpg.Runner {
	return migrationpg.NewRunner(client, log, migrationpg.Config{
		Files:     files,
		Schema:    "public",
		TableName: "schema_migrations",
	})
}

// Up applies every pending migration. It matches the signature expected by
// postgresql.TestContainerConfig.Migrate.
func Up(ctx context.Context, client postgresql.PostgreSQLClient) error {
	return NewRunner(client, logger.NewNop()).MigrateUp(ctx, 0)
}
