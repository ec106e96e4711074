package gateway

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// TaskRecord is one persisted execution attempt. Rows are append-only for
// the lifetime of the process; nothing updates or deletes them.
type TaskRecord struct {
	ID          int64
	Description string
	Status      string
	Output      string
}

// HistoryStore is the durable task log, backed by a SQLite file inside the
// data root. Each Record call is its own transaction, so concurrent
// dispatches cannot lose or interleave writes.
type HistoryStore struct {
	Root   string
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error
}

func NewHistoryStore(root string) (*HistoryStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("history store requires a data root")
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	st := &HistoryStore{
		Root:   root,
		dbPath: filepath.Join(root, "task_history.db"),
	}
	// Initialize eagerly so callers fail fast.
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *HistoryStore) init() error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		// Keep sqlite responsive under contention.
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")
		_, _ = db.Exec("PRAGMA synchronous = NORMAL;")

		schema := `CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task TEXT,
			status TEXT,
			output TEXT
		);`
		if _, err := db.Exec(schema); err != nil {
			_ = db.Close()
			s.err = err
			return
		}
		s.db = db
	})
	return s.err
}

func (s *HistoryStore) dbConn() (*sql.DB, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, errors.New("history store unavailable")
	}
	return db, nil
}

// Record appends one row. Replays append again: there is no dedup, ids are
// assigned by the store and strictly increase.
func (s *HistoryStore) Record(description, status, output string) error {
	db, err := s.dbConn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO tasks (task, status, output) VALUES (?, ?, ?)`,
		description, status, output,
	)
	return err
}

// Recent returns up to limit records, newest first.
func (s *HistoryStore) Recent(limit int) ([]TaskRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	db, err := s.dbConn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT id, task, status, output FROM tasks ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskRecord
	for rows.Next() {
		var rec TaskRecord
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Status, &rec.Output); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count reports the number of recorded tasks.
func (s *HistoryStore) Count() (int64, error) {
	db, err := s.dbConn()
	if err != nil {
		return 0, err
	}
	var n int64
	err = db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
