package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dhima/rural-vitals/internal/models"
)

// tsKey compares stored timestamps on the persisted layout. Legacy RFC3339 text
// ("2025-11-05T09:00:00Z") is folded onto it; offsets are taken as UTC.
const tsKey = "REPLACE(SUBSTR(ts, 1, 19), 'T', ' ')"

// Log appends one event as an independent, immediately committed insert.
func (s *Store) Log(ctx context.Context, e models.Event) error {
	if !e.Kind.Valid() {
		return &StorageError{Op: "log", Err: fmt.Errorf("%w: kind %q", ErrInvalidEvent, e.Kind)}
	}
	if !e.Level.Valid() {
		return &StorageError{Op: "log", Err: fmt.Errorf("%w: level %q", ErrInvalidEvent, e.Level)}
	}
	if e.Timestamp.IsZero() {
		return &StorageError{Op: "log", Err: fmt.Errorf("%w: missing timestamp", ErrInvalidEvent)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (ts, resident_id, edge_id, kind, level, note) VALUES (?, ?, ?, ?, ?, ?)",
		models.FormatTimestamp(e.Timestamp),
		s.optional("resident_id", e.ResidentID),
		s.optional("edge_id", e.EdgeID),
		string(e.Kind),
		string(e.Level),
		e.Note,
	)
	if err != nil {
		return &StorageError{Op: "log", Err: err}
	}
	return nil
}

// Query returns events matching filter ordered by timestamp, ties broken by insertion order.
// Latest first unless filter.Ascending is set.
func (s *Store) Query(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	where, args := buildWhere(filter)

	dir := "DESC"
	if filter.Ascending {
		dir = "ASC"
	}
	seq := s.dialect.seq()
	query := fmt.Sprintf(
		"SELECT %s, ts, resident_id, edge_id, kind, level, note FROM events %s ORDER BY %s %s, %s %s",
		seq, where, tsKey, dir, seq, dir)
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, &StorageError{Op: "query", Err: err}
	}
	return events, nil
}

// Count returns how many events match filter. Limit and ordering are ignored.
func (s *Store) Count(ctx context.Context, filter models.EventFilter) (int64, error) {
	where, args := buildWhere(filter)

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events "+where, args...).Scan(&n); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// LatestPerResident maps each resident id to its most recent event.
// Rows without a resident id are excluded.
func (s *Store) LatestPerResident(ctx context.Context) (map[string]models.Event, error) {
	return s.latest(ctx, "")
}

// LatestPerResidentOfKind is LatestPerResident restricted to one kind.
func (s *Store) LatestPerResidentOfKind(ctx context.Context, kind models.Kind) (map[string]models.Event, error) {
	return s.latest(ctx, kind)
}

func (s *Store) latest(ctx context.Context, kind models.Kind) (map[string]models.Event, error) {
	seq := s.dialect.seq()
	where := "WHERE resident_id IS NOT NULL AND resident_id <> ''"
	var args []interface{}
	if kind != "" {
		where += " AND kind = ?"
		args = append(args, string(kind))
	}

	query := fmt.Sprintf(`
		SELECT seq, ts, resident_id, edge_id, kind, level, note FROM (
			SELECT %[1]s AS seq, ts, resident_id, edge_id, kind, level, note,
			       ROW_NUMBER() OVER (PARTITION BY resident_id ORDER BY %[3]s DESC, %[1]s DESC) AS rn
			FROM events
			%[2]s
		) ranked
		WHERE rn = 1
	`, seq, where, tsKey)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "latest per resident", Err: err}
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, &StorageError{Op: "latest per resident", Err: err}
	}

	out := make(map[string]models.Event, len(events))
	for _, e := range events {
		out[e.ResidentID] = e
	}
	return out, nil
}

func buildWhere(filter models.EventFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if filter.ResidentID != "" {
		clauses = append(clauses, "resident_id = ?")
		args = append(args, filter.ResidentID)
	}
	if filter.EdgeID != "" {
		clauses = append(clauses, "edge_id = ?")
		args = append(args, filter.EdgeID)
	}
	if len(filter.Kinds) > 0 {
		clauses = append(clauses, "kind IN ("+placeholders(len(filter.Kinds))+")")
		for _, k := range filter.Kinds {
			args = append(args, string(k))
		}
	}
	if len(filter.Levels) > 0 {
		clauses = append(clauses, "level IN ("+placeholders(len(filter.Levels))+")")
		for _, l := range filter.Levels {
			args = append(args, string(l))
		}
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, tsKey+" >= ?")
		args = append(args, models.FormatTimestamp(filter.Since))
	}
	if !filter.Until.IsZero() {
		clauses = append(clauses, tsKey+" < ?")
		args = append(args, models.FormatTimestamp(filter.Until))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	events := []models.Event{}
	for rows.Next() {
		var (
			e          models.Event
			ts         sql.NullString
			residentID sql.NullString
			edgeID     sql.NullString
			kind       string
			level      string
			note       sql.NullString
		)
		if err := rows.Scan(&e.Seq, &ts, &residentID, &edgeID, &kind, &level, &note); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Timestamp, _ = models.ParseTimestamp(ts.String)
		e.ResidentID = residentID.String
		e.EdgeID = edgeID.String
		e.Kind = models.Kind(kind)
		e.Level = models.Level(level)
		e.Note = note.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// optional binds an empty optional column as NULL, or as "" when the table
// declares the column NOT NULL. Callers hold s.mu.
func (s *Store) optional(column, v string) interface{} {
	if v == "" && s.notNull[column] {
		return ""
	}
	return nullable(v)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
