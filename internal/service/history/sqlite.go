package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	model "github.com/zhouzirui/moodlens/internal/model/history"
)

// createdLayout 固定九位小数，保证 created_utc 的文本序与时间序一致。
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists history in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" is allowed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// 每个连接都是独立的内存库
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(path != ":memory:"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(wal bool) error {
	var stmts []string
	if wal {
		stmts = append(stmts, `PRAGMA journal_mode=WAL;`)
	}
	stmts = append(stmts,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service_id INTEGER,
			session_id TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			top_label TEXT NOT NULL,
			confidence REAL NOT NULL,
			scores_json TEXT NOT NULL DEFAULT '{}',
			emoji_count INTEGER NOT NULL DEFAULT 0,
			created_utc TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_utc DESC);`,
	)
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate history db: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, entry model.Entry) (model.Entry, error) {
	scores, err := json.Marshal(copyScores(entry.Scores))
	if err != nil {
		return model.Entry{}, fmt.Errorf("encode scores: %w", err)
	}

	var serviceID sql.NullInt64
	if entry.ServiceID != nil {
		serviceID = sql.NullInt64{Int64: *entry.ServiceID, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (service_id, session_id, text, top_label, confidence, scores_json, emoji_count, created_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		serviceID, entry.SessionID, entry.Text, entry.TopLabel, entry.Confidence,
		string(scores), entry.EmojiCount, entry.CreatedAt.UTC().Format(createdLayout))
	if err != nil {
		return model.Entry{}, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Entry{}, fmt.Errorf("history entry id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

const selectColumns = `SELECT id, service_id, session_id, text, top_label, confidence, scores_json, emoji_count, created_utc FROM analyses`

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_utc DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (model.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, ErrEntryNotFound
	}
	return e, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (model.Entry, error) {
	var (
		e         model.Entry
		serviceID sql.NullInt64
		scores    string
		created   string
	)
	if err := row.Scan(&e.ID, &serviceID, &e.SessionID, &e.Text, &e.TopLabel, &e.Confidence, &scores, &e.EmojiCount, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Entry{}, err
		}
		return model.Entry{}, fmt.Errorf("scan history entry: %w", err)
	}
	if serviceID.Valid {
		v := serviceID.Int64
		e.ServiceID = &v
	}
	if err := json.Unmarshal([]byte(scores), &e.Scores); err != nil {
		return model.Entry{}, fmt.Errorf("decode scores: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return model.Entry{}, fmt.Errorf("parse created_utc: %w", err)
	}
	e.CreatedAt = ts
	return e, nil
}
