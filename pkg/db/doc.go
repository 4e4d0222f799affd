// Package db opens the PostgreSQL pool backing the credential store and runs
// its goose migrations.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, credential.Migrations, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Errors are sentinels joined with the cause via errors.Join.
package db
