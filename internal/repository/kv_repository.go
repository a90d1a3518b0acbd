package repository // repository holds data access logic for the MySQL backend

import (
	"context"      // context carries request deadlines into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is for sql.ErrNoRows
	"time"         // updated_at timestamps
)

// kvSchema creates the table the planner state lives in.  Values are JSON
// documents; a hall with many tables easily exceeds TEXT, hence LONGTEXT.
const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	k          VARCHAR(191) NOT NULL PRIMARY KEY,
	v          LONGTEXT     NOT NULL,
	updated_at DATETIME     NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// KVRepo stores string keys and JSON values in the kv_store table.  It
// satisfies storage.Store.
type KVRepo struct {
	db  *sql.DB          // db is the underlying database connection
	now func() time.Time // now stamps updated_at
}

// NewKVRepo constructs a KVRepo with the given DB handle.
func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db, now: time.Now}
}

// EnsureSchema creates kv_store when it does not exist yet.
func (r *KVRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, kvSchema)
	return err
}

// Get returns the value stored under key.  found is false when no row
// exists.
func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT v FROM kv_store WHERE k = ?`
	var v []byte
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// Set inserts or replaces the value under key.
func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`
	_, err := r.db.ExecContext(ctx, q, key, value, r.now().UTC())
	return err
}

// Delete removes key.  Deleting a missing key is not an error.
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE k = ?`
	_, err := r.db.ExecContext(ctx, q, key)
	return err
}
