package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/risk-copilot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driven"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// timestampLayout is fixed width so that ts sorts as text in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	_ driven.AuditLog    = (*Store)(nil)
	_ driven.AuditReader = (*Store)(nil)
)

// Store is a SQLite-backed audit event store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the audit database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: audit database path is empty", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Write inserts one event. Failures are logged and swallowed.
func (s *Store) Write(ctx context.Context, event domain.AuditEvent) {
	if err := s.insert(ctx, event); err != nil {
		logger.Warn("audit database write failed: %v", err)
	}
}

func (s *Store) insert(ctx context.Context, event domain.AuditEvent) error {
	topk, err := json.Marshal(event.TopK)
	if err != nil {
		return fmt.Errorf("marshalling topk: %w", err)
	}

	var usage sql.NullString
	if event.Usage != nil {
		raw, err := json.Marshal(event.Usage)
		if err != nil {
			return fmt.Errorf("marshalling usage: %w", err)
		}
		usage = sql.NullString{String: string(raw), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, ts, question, max_sim, decision, topk, prompt_hash, usage, latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.Timestamp.UTC().Format(timestampLayout),
		event.Question,
		event.MaxSim,
		string(event.Decision),
		string(topk),
		nullIfEmpty(event.PromptHash),
		usage,
		event.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		return []domain.AuditEvent{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, question, max_sim, decision, topk, prompt_hash, usage, latency_ms
		FROM audit_events
		ORDER BY ts DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.AuditEvent, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit events: %w", err)
	}

	return events, nil
}

func scanEvent(rows *sql.Rows) (domain.AuditEvent, error) {
	var (
		event      domain.AuditEvent
		ts         string
		decision   string
		topk       string
		promptHash sql.NullString
		usage      sql.NullString
	)

	err := rows.Scan(&event.ID, &ts, &event.Question, &event.MaxSim, &decision,
		&topk, &promptHash, &usage, &event.LatencyMS)
	if err != nil {
		return event, fmt.Errorf("scanning audit event: %w", err)
	}

	event.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return event, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	event.Decision = domain.Decision(decision)
	event.PromptHash = promptHash.String

	if err := json.Unmarshal([]byte(topk), &event.TopK); err != nil {
		return event, fmt.Errorf("unmarshalling topk: %w", err)
	}
	if usage.Valid && usage.String != jsonNull {
		event.Usage = &domain.Usage{}
		if err := json.Unmarshal([]byte(usage.String), event.Usage); err != nil {
			return event, fmt.Errorf("unmarshalling usage: %w", err)
		}
	}

	return event, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_audit_events.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
