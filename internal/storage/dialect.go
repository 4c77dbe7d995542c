package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// dialect isolates the statements that differ between sqlite and mysql.
type dialect interface {
	name() string
	// seq is the column expression giving insertion order.
	seq() string
	createEvents() string
	addColumn(column string) string
	columns(ctx context.Context, db *sql.DB) (map[string]bool, error)
	// notNullColumns lists columns the existing table declares NOT NULL.
	notNullColumns(ctx context.Context, db *sql.DB) (map[string]bool, error)
	createIndex(ctx context.Context, db *sql.DB, index, column string) error
}

func dialectFor(driver string) dialect {
	if driver == DriverMySQL {
		return mysqlDialect{}
	}
	return sqliteDialect{}
}

type sqliteDialect struct{}

func (sqliteDialect) name() string { return DriverSQLite }

func (sqliteDialect) seq() string { return "rowid" }

func (sqliteDialect) createEvents() string {
	return `CREATE TABLE IF NOT EXISTS events (
		ts TEXT NOT NULL,
		kind TEXT NOT NULL,
		level TEXT NOT NULL,
		note TEXT
	)`
}

func (sqliteDialect) addColumn(column string) string {
	return fmt.Sprintf("ALTER TABLE events ADD COLUMN %s TEXT DEFAULT NULL", column)
}

func (sqliteDialect) columns(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	info, err := sqliteTableInfo(ctx, db)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]bool, len(info))
	for name := range info {
		cols[name] = true
	}
	return cols, nil
}

// Tables written by older edge agents may declare resident_id NOT NULL.
func (sqliteDialect) notNullColumns(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	info, err := sqliteTableInfo(ctx, db)
	if err != nil {
		return nil, err
	}
	required := map[string]bool{}
	for name, notNull := range info {
		if notNull {
			required[name] = true
		}
	}
	return required, nil
}

// sqliteTableInfo maps each events column to its NOT NULL flag.
func sqliteTableInfo(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info(events)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   sql.NullString
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		info[name] = notNull == 1
	}
	return info, rows.Err()
}

func (sqliteDialect) createIndex(ctx context.Context, db *sql.DB, index, column string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON events(%s)", index, column))
	return err
}

type mysqlDialect struct{}

func (mysqlDialect) name() string { return DriverMySQL }

func (mysqlDialect) seq() string { return "id" }

func (mysqlDialect) createEvents() string {
	return `CREATE TABLE IF NOT EXISTS events (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		ts VARCHAR(32) NOT NULL,
		kind VARCHAR(16) NOT NULL,
		level VARCHAR(8) NOT NULL,
		note TEXT
	)`
}

func (mysqlDialect) addColumn(column string) string {
	return fmt.Sprintf("ALTER TABLE events ADD COLUMN %s VARCHAR(64) NULL DEFAULT NULL", column)
}

func (mysqlDialect) columns(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ?",
		"events")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// The mysql table is only ever created by this store, with nullable optional columns.
func (mysqlDialect) notNullColumns(context.Context, *sql.DB) (map[string]bool, error) {
	return nil, nil
}

// MySQL has no CREATE INDEX IF NOT EXISTS.
func (mysqlDialect) createIndex(ctx context.Context, db *sql.DB, index, column string) error {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?",
		"events", index).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE INDEX %s ON events(%s)", index, column))
	return err
}
