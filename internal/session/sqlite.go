package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

// SQLiteStore persists client state in a single-table SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	sealer *Sealer
}

// OpenSQLite opens (and if needed creates) the state database at path.
func OpenSQLite(path string, sealer *Sealer) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS client_state (
			key TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			user_json TEXT,
			updated_at INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init state db: %w", err)
		}
	}
	return &SQLiteStore{db: db, sealer: sealer}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (State, error) {
	var sealed string
	var userJSON sql.NullString
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_json, updated_at FROM client_state WHERE key = ?`, key,
	).Scan(&sealed, &userJSON, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("load state: %w", err)
	}
	token, err := s.sealer.Open(sealed)
	if err != nil {
		return State{}, fmt.Errorf("load state %s: %w", key, err)
	}
	st := State{Token: token, UpdatedAt: time.Unix(updated, 0).UTC()}
	if userJSON.Valid && userJSON.String != "" {
		var u models.User
		if err := json.Unmarshal([]byte(userJSON.String), &u); err != nil {
			return State{}, fmt.Errorf("decode user: %w", err)
		}
		st.User = &u
	}
	return st, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, st State) error {
	sealed, err := s.sealer.Seal(st.Token)
	if err != nil {
		return err
	}
	var userJSON sql.NullString
	if st.User != nil {
		b, err := json.Marshal(st.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		userJSON = sql.NullString{String: string(b), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO client_state (key, token, user_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, updated_at = excluded.updated_at`,
		key, sealed, userJSON, st.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
