package storage

import (
	"context"
	"fmt"
)

// Schema version tracking:
// 1 - events(ts, kind, level, note)
// 2 - nullable resident_id and edge_id columns
// 3 - indexes on ts and resident_id
const currentSchemaVersion = 3

// optionalColumns are added to older tables that predate them.
var optionalColumns = []string{"resident_id", "edge_id"}

// EnsureSchema creates or upgrades the events table. It is idempotent and
// never rewrites existing rows. Safe to call while the store is writing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return &StorageError{Op: "ensure schema", Err: err}
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return &StorageError{Op: "ensure schema", Err: fmt.Errorf("read schema version: %w", err)}
	}

	steps := []func(context.Context) error{s.migrateToV1, s.migrateToV2, s.migrateToV3}
	for v := version; v < currentSchemaVersion; v++ {
		if err := steps[v](ctx); err != nil {
			return &StorageError{Op: "ensure schema", Err: fmt.Errorf("migrate to v%d: %w", v+1, err)}
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", v+1); err != nil {
			return &StorageError{Op: "ensure schema", Err: fmt.Errorf("record v%d: %w", v+1, err)}
		}
	}

	notNull, err := s.dialect.notNullColumns(ctx, s.db)
	if err != nil {
		return &StorageError{Op: "ensure schema", Err: fmt.Errorf("inspect constraints: %w", err)}
	}
	s.notNull = notNull
	return nil
}

// migrateToV1 creates the table in its original shape. An existing table is left alone.
func (s *Store) migrateToV1(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.dialect.createEvents())
	return err
}

// migrateToV2 adds whichever optional columns the table lacks.
func (s *Store) migrateToV2(ctx context.Context) error {
	cols, err := s.dialect.columns(ctx, s.db)
	if err != nil {
		return fmt.Errorf("inspect columns: %w", err)
	}
	for _, col := range optionalColumns {
		if cols[col] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, s.dialect.addColumn(col)); err != nil {
			return fmt.Errorf("add column %s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) migrateToV3(ctx context.Context) error {
	if err := s.dialect.createIndex(ctx, s.db, "idx_events_ts", "ts"); err != nil {
		return fmt.Errorf("index ts: %w", err)
	}
	if err := s.dialect.createIndex(ctx, s.db, "idx_events_resident", "resident_id"); err != nil {
		return fmt.Errorf("index resident_id: %w", err)
	}
	return nil
}
