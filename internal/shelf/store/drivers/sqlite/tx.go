package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/shelf/internal/shelf/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op for transactions; the connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx

func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx} }
func (t *txStore) Challenges() store.Challenges   { return &challengesRepo{db: t.tx} }
func (t *txStore) ResetGrants() store.ResetGrants { return &resetGrantsRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions       { return &sessionsRepo{db: t.tx} }
func (t *txStore) Books() store.Books             { return &booksRepo{db: t.tx} }
func (t *txStore) ReadingList() store.ReadingList { return &readingListRepo{db: t.tx} }
func (t *txStore) Profiles() store.Profiles       { return &profilesRepo{db: t.tx} }
