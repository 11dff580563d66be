package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
)

// RunReader reads back what a RunRecorder and the execution recorder wrote.
type RunReader struct {
	db *sql.DB
}

// NewRunReader opens a database file for reading.
func NewRunReader(dbFilename string) *RunReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewRunReaderWithDB(db)
}

// NewRunReaderWithDB creates a RunReader on an opened database.
func NewRunReaderWithDB(db *sql.DB) *RunReader {
	return &RunReader{db: db}
}

// Runs returns the runs that satisfy where, in insertion order. The condition
// is written without the WHERE keyword, e.g. "Ratio < ?". An empty where
// selects every run.
func (r *RunReader) Runs(
	ctx context.Context,
	where string,
	args ...any,
) ([]RunEntry, error) {
	query := "SELECT * FROM " + RunTable
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rowid"

	runs, err := queryRows[RunEntry](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", RunTable, err)
	}

	return runs, nil
}

// Hops returns the hop log of a run in arrival order.
func (r *RunReader) Hops(ctx context.Context, runID string) ([]HopEntry, error) {
	hops, err := queryRows[HopEntry](ctx, r.db,
		"SELECT * FROM "+HopTable+" WHERE RunID = ? ORDER BY rowid", runID)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", HopTable, err)
	}

	return hops, nil
}

// ExecInfo returns the properties of the execution that wrote the database.
func (r *RunReader) ExecInfo(ctx context.Context) ([]ExecInfo, error) {
	return queryRows[ExecInfo](ctx, r.db,
		"SELECT * FROM "+ExecInfoTable+" ORDER BY rowid")
}

// Close closes the database.
func (r *RunReader) Close() error {
	return r.db.Close()
}

func queryRows[T any](
	ctx context.Context,
	db *sql.DB,
	query string,
	args ...any,
) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	structType := reflect.TypeOf((*T)(nil)).Elem()
	fieldMap := make(map[string]int)
	for i := 0; i < structType.NumField(); i++ {
		fieldMap[structType.Field(i).Name] = i
	}

	var results []T
	for rows.Next() {
		var entry T
		structVal := reflect.ValueOf(&entry).Elem()
		scanTargets := make([]any, len(columns))

		for i, colName := range columns {
			if fieldIdx, ok := fieldMap[colName]; ok {
				scanTargets[i] = structVal.Field(fieldIdx).Addr().Interface()
			} else {
				var placeholder any
				scanTargets[i] = &placeholder
			}
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}

		results = append(results, entry)
	}

	return results, rows.Err()
}
