package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL,
	created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_on TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

type Store struct {
	db *sql.DB
	repository.RecordStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		RecordStore: NewDocumentRepository(db),
	}
}

// EnsureSchema creates the documents table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	logger.StoreCall("ensure_schema", "documents")
	_, err := s.db.ExecContext(ctx, schema)
	logger.StoreResult("ensure_schema", "documents", 0, err)
	return err
}
