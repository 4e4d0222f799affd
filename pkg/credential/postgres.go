package credential

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/dropin/pkg/linkedin"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations holds the goose migrations for the Postgres store,
// rooted at the migrations directory as db.Migrate expects.
var Migrations = mustSub(migrations, "migrations")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	upsertCredential = `
INSERT INTO linkedin_credentials (id, access_token, profile_json)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET access_token = EXCLUDED.access_token,
    profile_json = EXCLUDED.profile_json,
    updated_at   = now()`

	selectCredential = `
SELECT id, access_token, COALESCE(profile_json, '')
FROM linkedin_credentials
WHERE id = $1`

	deleteCredential = `DELETE FROM linkedin_credentials WHERE id = $1`

	lookupTimeout = 5 * time.Second
)

// Postgres stores credentials in the linkedin_credentials table.
type Postgres struct {
	pool  *pgxpool.Pool
	group singleflight.Group
}

// NewPostgres creates a Postgres-backed store.
// Run db.Migrate with Migrations before using it.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Put replaces every column of the row keyed by cred.ID.
func (p *Postgres) Put(ctx context.Context, cred *linkedin.Credential) error {
	if err := validate(cred); err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, upsertCredential, cred.ID, cred.AccessToken, cred.ProfileJSON); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Get loads a credential. Concurrent lookups of the same ID share one query.
// The shared query runs detached from any single caller's cancellation,
// bounded by lookupTimeout; each caller still returns when its own ctx is done.
func (p *Postgres) Get(ctx context.Context, id string) (*linkedin.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	ch := p.group.DoChan(id, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		var cred linkedin.Credential
		err := p.pool.QueryRow(qctx, selectCredential, id).Scan(&cred.ID, &cred.AccessToken, &cred.ProfileJSON)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, linkedin.ErrCredentialNotFound
			}
			return nil, errors.Join(ErrStore, err)
		}
		return cred, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.Join(ErrStore, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		cred := res.Val.(linkedin.Credential)
		return &cred, nil
	}
}

// Delete removes the credential.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, deleteCredential, id); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

var _ linkedin.Store = (*Postgres)(nil)
