package gateway

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLResult carries the rows of one query in column order.
type SQLResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// RunSelect executes a read-only query against the sqlite database at
// dbPath. Only SELECT is permitted; the arbitrary-SQL variant of this
// endpoint is deliberately not supported.
func RunSelect(ctx context.Context, dbPath, query string) (*SQLResult, error) {
	if !isSelectQuery(query) {
		return nil, Errf(KindDestructiveOperation, "only SELECT queries are allowed")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, Errf(KindAdapterFailure, "open database: %v", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, Errf(KindAdapterFailure, "query failed: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, Errf(KindAdapterFailure, "read columns: %v", err)
	}

	result := &SQLResult{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, Errf(KindAdapterFailure, "scan row: %v", err)
		}
		for i, v := range values {
			// The driver hands TEXT back as []byte; JSON should see strings.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, Errf(KindAdapterFailure, "iterate rows: %v", err)
	}
	return result, nil
}

// isSelectQuery tolerates leading whitespace and SQL line comments before
// the verb.
func isSelectQuery(query string) bool {
	for _, line := range strings.Split(query, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return strings.HasPrefix(strings.ToLower(line), "select")
	}
	return false
}
