// Package credential provides linkedin.Store implementations.
//
//   - Memory: in-process map, for tests and single-instance demos
//   - Redis: JSON documents keyed "{prefix}:{id}" with optional TTL
//   - Postgres: linkedin_credentials table created by the embedded goose migrations
//
// Every backend writes whole records; there are no partial updates.
// Access tokens are stored as TEXT so long LinkedIn tokens are never truncated.
//
//	pool, err := db.Connect(ctx, dbCfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, credential.Migrations, dbCfg.MigrationsTable, log); err != nil {
//		return err
//	}
//	store := credential.NewPostgres(pool)
package credential
