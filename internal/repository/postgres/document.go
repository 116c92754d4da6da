package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) repository.RecordStore {
	return &documentRepository{db: db}
}

func (r *documentRepository) NewID(collection string) string {
	return uuid.NewString()
}

func (r *documentRepository) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return &repository.Document{ID: id, Data: data}, nil
}

// Query compares "==" filters on the text form of the field; range filters apply only to
// fields holding a numeric value.
func (r *documentRepository) Query(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Document, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, data FROM documents WHERE collection = $1`)
	args := []any{collection}
	for _, f := range filters {
		if !fieldPattern.MatchString(f.Field) {
			return nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		if !repository.ValidOp(f.Op) {
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		args = append(args, f.Field)
		fieldArg := len(args)
		if f.Op == "==" {
			args = append(args, textValue(f.Value))
			fmt.Fprintf(&b, ` AND data->>($%d::text) = $%d`, fieldArg, len(args))
			continue
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, ` AND (CASE WHEN data->>($%d::text) ~ '^\s*-?[0-9]+(\.[0-9]+)?\s*$' THEN (data->>($%d::text))::numeric END) %s $%d`,
			fieldArg, fieldArg, f.Op, len(args))
	}
	b.WriteString(` ORDER BY id`)

	logger.StoreCall("query", collection, "filters", len(filters))
	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		logger.StoreResult("query", collection, 0, err)
		return nil, err
	}
	defer rows.Close()

	var docs []repository.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, repository.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.StoreResult("query", collection, int64(len(docs)), nil)
	return docs, nil
}

// CommitBatch runs every op in one transaction. Collections touched by unique writes are
// serialized with a transaction-scoped advisory lock so the uniqueness check and the write
// cannot interleave with another committer.
func (r *documentRepository) CommitBatch(ctx context.Context, ops []repository.BatchOp) error {
	if err := repository.ValidateBatch(ops); err != nil {
		return err
	}

	logger.StoreCall("commit_batch", "documents", "ops", len(ops))
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, collection := range uniqueCollections(ops) {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, collection); err != nil {
			return fmt.Errorf("failed to lock %s: %w", collection, err)
		}
	}

	now := time.Now()
	for i, op := range ops {
		if err := applyOp(ctx, tx, op, now); err != nil {
			return fmt.Errorf("op %d (%s %s/%s): %w", i, op.Kind, op.Collection, op.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.StoreResult("commit_batch", "documents", int64(len(ops)), nil)
	return nil
}

func applyOp(ctx context.Context, tx *sql.Tx, op repository.BatchOp, now time.Time) error {
	switch op.Kind {
	case repository.OpSet, repository.OpCreate:
		if op.UniqueField != "" {
			var holder string
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM documents WHERE collection = $1 AND id <> $2 AND data->>($3::text) = $4 LIMIT 1`,
				op.Collection, op.ID, op.UniqueField, textValue(op.Data[op.UniqueField]),
			).Scan(&holder)
			if err == nil {
				return fmt.Errorf("%s already held by %s: %w", op.UniqueField, holder, repository.ErrUniqueViolation)
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
		raw, err := json.Marshal(op.Data)
		if err != nil {
			return err
		}
		if op.Kind == repository.OpCreate {
			result, err := tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, data, created_on, updated_on) VALUES ($1, $2, $3, $4, $4)
				 ON CONFLICT (collection, id) DO NOTHING`,
				op.Collection, op.ID, string(raw), now)
			if err != nil {
				return err
			}
			if err := requireRows(result); errors.Is(err, repository.ErrNotFound) {
				return repository.ErrAlreadyExists
			} else if err != nil {
				return err
			}
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (collection, id, data, created_on, updated_on) VALUES ($1, $2, $3, $4, $4)
			 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_on = EXCLUDED.updated_on`,
			op.Collection, op.ID, string(raw), now)
		return err

	case repository.OpUpdate:
		raw, err := json.Marshal(op.Data)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE documents SET data = data || $3::jsonb, updated_on = $4 WHERE collection = $1 AND id = $2`,
			op.Collection, op.ID, string(raw), now)
		if err != nil {
			return err
		}
		return requireRows(result)

	case repository.OpDelete:
		result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, op.Collection, op.ID)
		if err != nil {
			return err
		}
		if op.RequireExists {
			return requireRows(result)
		}
		return nil
	}
	return fmt.Errorf("unknown op kind %q", op.Kind)
}

func requireRows(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func uniqueCollections(ops []repository.BatchOp) []string {
	seen := make(map[string]bool)
	var out []string
	for _, op := range ops {
		if op.UniqueField != "" && !seen[op.Collection] {
			seen[op.Collection] = true
			out = append(out, op.Collection)
		}
	}
	sort.Strings(out)
	return out
}

// textValue renders a value the way jsonb ->> renders it.
func textValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
	}
	return fmt.Sprint(v)
}

func decode(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
