package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Dialect captures the SQL differences between supported backends.
type Dialect struct {
	Name     string
	DataType string
	// FieldExpr renders a text-valued expression for a validated top-level field.
	FieldExpr func(field string) string
}

// Postgres stores documents as JSONB.
var Postgres = Dialect{
	Name:     "postgres",
	DataType: "JSONB",
	FieldExpr: func(field string) string {
		return fmt.Sprintf("data->>'%s'", field)
	},
}

// SQLite stores documents as JSON text and reads fields with json_extract.
// Booleans come back from json_extract as 1/0, so they are spelled out to
// match StringValue.
var SQLite = Dialect{
	Name:     "sqlite",
	DataType: "TEXT",
	FieldExpr: func(field string) string {
		path := fmt.Sprintf("'$.%s'", field)
		return fmt.Sprintf("CASE json_type(data, %s) WHEN 'true' THEN 'true' WHEN 'false' THEN 'false' ELSE CAST(json_extract(data, %s) AS TEXT) END", path, path)
	},
}

const documentColumns = "id, data, version, created_at, updated_at"

// maxMergeAttempts bounds unconditioned merge retries under contention.
const maxMergeAttempts = 3

type documentRow struct {
	ID        string `db:"id"`
	Data      []byte `db:"data"`
	Version   int64  `db:"version"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

// SQLStore persists documents in a single relational table keyed by
// (collection, id).
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sqlx.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the clock used for server timestamps and metadata.
func (s *SQLStore) WithClock(now func() time.Time) *SQLStore {
	s.now = now
	return s
}

// EnsureSchema creates the documents table when missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	data %s NOT NULL,
	version BIGINT NOT NULL DEFAULT 1,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL,
	PRIMARY KEY (collection, id)
)`, s.dialect.DataType),
		`CREATE INDEX IF NOT EXISTS idx_documents_collection_updated ON documents (collection, updated_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("docstore: ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}
	var row documentRow
	query := s.db.Rebind(`SELECT ` + documentColumns + ` FROM documents WHERE collection = ? AND id = ?`)
	if err := s.db.GetContext(ctx, &row, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	return row.document(collection)
}

func (s *SQLStore) Query(ctx context.Context, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(`SELECT ` + documentColumns + ` FROM documents WHERE collection = ?`)
	args := []interface{}{q.Collection}
	for _, w := range q.Where {
		sb.WriteString(" AND ")
		sb.WriteString(s.dialect.FieldExpr(w.Field))
		sb.WriteString(" = ?")
		args = append(args, w.Value)
	}
	if q.OrderBy == nil && q.Limit > 0 {
		sb.WriteString(" ORDER BY id")
		sb.WriteString(fmt.Sprintf(" LIMIT %d", q.Limit))
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(sb.String()), args...); err != nil {
		return nil, fmt.Errorf("docstore: query %s: %w", q.Collection, err)
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document(q.Collection)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return applyOrder(docs, q), nil
}

func (s *SQLStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	now := s.now()
	payload, err := s.payload(data, now)
	if err != nil {
		return err
	}
	query := s.db.Rebind(`INSERT INTO documents (collection, id, data, version, created_at, updated_at)
VALUES (?, ?, ?, 1, ?, ?) ON CONFLICT (collection, id) DO NOTHING`)
	res, err := s.db.ExecContext(ctx, query, collection, id, payload, now.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("docstore: create %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("docstore: create %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQLStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	now := s.now()
	payload, err := s.payload(data, now)
	if err != nil {
		return err
	}
	query := s.db.Rebind(`INSERT INTO documents (collection, id, data, version, created_at, updated_at)
VALUES (?, ?, ?, 1, ?, ?)
ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, version = documents.version + 1, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload, now.UnixNano(), now.UnixNano()); err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update reads the current document, merges data and writes it back guarded
// by the version it read. Without a precondition a lost race is retried.
func (s *SQLStore) Update(ctx context.Context, collection, id string, data map[string]any, pre Precondition) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	attempts := 1
	if pre.Version == 0 {
		attempts = maxMergeAttempts
	}
	for i := 0; i < attempts; i++ {
		current, err := s.Get(ctx, collection, id)
		if err != nil {
			return err
		}
		if pre.Version != 0 && current.Version != pre.Version {
			return ErrVersionConflict
		}
		now := s.now()
		prepared, err := prepare(data, now)
		if err != nil {
			return err
		}
		for k, v := range prepared {
			current.Data[k] = v
		}
		payload, err := json.Marshal(current.Data)
		if err != nil {
			return fmt.Errorf("docstore: encode %s/%s: %w", collection, id, err)
		}
		query := s.db.Rebind(`UPDATE documents SET data = ?, version = version + 1, updated_at = ?
WHERE collection = ? AND id = ? AND version = ?`)
		res, err := s.db.ExecContext(ctx, query, string(payload), now.UnixNano(), collection, id, current.Version)
		if err != nil {
			return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
		}
		if affected == 1 {
			return nil
		}
	}
	return ErrVersionConflict
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string, pre Precondition) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	query := `DELETE FROM documents WHERE collection = ? AND id = ?`
	args := []interface{}{collection, id}
	if pre.Version != 0 {
		query += ` AND version = ?`
		args = append(args, pre.Version)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.Get(ctx, collection, id); err != nil {
		return err
	}
	return ErrVersionConflict
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) payload(data map[string]any, now time.Time) (string, error) {
	prepared, err := prepare(data, now)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(prepared)
	if err != nil {
		return "", fmt.Errorf("docstore: encode: %w", err)
	}
	return string(raw), nil
}

func (r documentRow) document(collection string) (*Document, error) {
	data := map[string]any{}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection, r.ID, err)
		}
	}
	return &Document{
		ID:         r.ID,
		Collection: collection,
		Data:       data,
		Version:    r.Version,
		CreateTime: time.Unix(0, r.CreatedAt).UTC(),
		UpdateTime: time.Unix(0, r.UpdatedAt).UTC(),
	}, nil
}
