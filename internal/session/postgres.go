package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SoniDharini/Fleet-Flow/internal/models"
)

const createTable = `
CREATE TABLE IF NOT EXISTS console_sessions (
	id         TEXT PRIMARY KEY,
	user_id    BIGINT NOT NULL,
	data       JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps sessions in the console_sessions table so they
// survive restarts and are shared between console replicas.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// OpenPostgres opens a pgx-backed database/sql handle for dsn.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping session db: %w", err)
	}
	return db, nil
}

// Migrate creates the sessions table if missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("migrate console_sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, sess models.Session) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO console_sessions (id, user_id, data, expires_at) VALUES ($1, $2, $3, $4)",
		id, sess.UserID, data, sess.Expiry)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT data FROM console_sessions WHERE id = $1 AND expires_at > $2",
		id, s.now())
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNotFound
		}
		return models.Session{}, fmt.Errorf("get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) Save(ctx context.Context, id string, sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE console_sessions SET data = $2, expires_at = $3 WHERE id = $1",
		id, data, sess.Expiry)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Update locks the row for the duration of fn.
func (s *PostgresStore) Update(ctx context.Context, id string, fn func(*models.Session) error) (models.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Session{}, fmt.Errorf("begin session update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var data []byte
	err = tx.QueryRowContext(ctx,
		"SELECT data FROM console_sessions WHERE id = $1 AND expires_at > $2 FOR UPDATE",
		id, s.now()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("lock session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if err := fn(&sess); err != nil {
		return models.Session{}, err
	}
	if data, err = json.Marshal(sess); err != nil {
		return models.Session{}, fmt.Errorf("encode session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE console_sessions SET data = $2, expires_at = $3 WHERE id = $1",
		id, data, sess.Expiry); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Session{}, fmt.Errorf("commit session update: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM console_sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM console_sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM console_sessions WHERE expires_at > $1 ORDER BY expires_at",
		s.now())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var sess models.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
		out = append(out, Entry{ID: id, Session: sess})
	}
	return out, rows.Err()
}
