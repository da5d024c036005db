package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// KV returns the key-value repository that holds the settings record.
func (s *Store) KV() KVRepo {
	return &kvRepo{db: s.db}
}

// History returns the repository for quiz results and answers.
func (s *Store) History() HistoryRepo {
	return &historyRepo{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

var (
	kvTable = schema.NewTable("kv").
		AddPrimary(&schema.Column{Name: "key", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "value", Type: field.TypeBytes}).
		AddColumn(&schema.Column{Name: "updated_at", Type: field.TypeInt64})

	resultsTable = schema.NewTable("quiz_results").
		AddPrimary(&schema.Column{Name: "session_id", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "started_at", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "ended_at", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "score", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "total", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "percent", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "answered", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "served", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "time_spent_secs", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "avg_secs", Type: field.TypeFloat64}).
		AddColumn(&schema.Column{Name: "timer_expired", Type: field.TypeBool}).
		AddColumn(&schema.Column{Name: "difficulty", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "category", Type: field.TypeString, Default: ""})

	answersTable = schema.NewTable("answer_events").
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "session_id", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "question_index", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "question_text", Type: field.TypeString}).
		AddColumn(&schema.Column{Name: "correct_answer", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "chosen", Type: field.TypeInt}).
		AddColumn(&schema.Column{Name: "correct", Type: field.TypeBool}).
		AddColumn(&schema.Column{Name: "time_ms", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "created_at", Type: field.TypeInt64}).
		AddIndex("answer_events_session", false, []string{"session_id", "sequence"})

	tables = []*schema.Table{kvTable, resultsTable, answersTable}
)

// migrate creates or updates the tables through ent's migrator.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

// withForeignKeys asks the driver to enable foreign keys on every pooled
// connection, which ent's SQLite migrator requires.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MATHQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/mathquiz/mathquiz.db
// 3. ~/.local/share/mathquiz/mathquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MATHQUIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathquiz", "mathquiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
