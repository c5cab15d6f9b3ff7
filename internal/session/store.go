package session

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"freshthreads/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
  id            TEXT PRIMARY KEY,
  user_id       INTEGER NOT NULL,
  email         TEXT NOT NULL,
  name          TEXT NOT NULL DEFAULT '',
  username      TEXT NOT NULL DEFAULT '',
  role          TEXT NOT NULL DEFAULT 'CUSTOMER',
  access_token  TEXT NOT NULL DEFAULT '',
  refresh_token TEXT NOT NULL DEFAULT '',
  created_at    TEXT NOT NULL,
  updated_at    TEXT NOT NULL
);
`

type sessionRow struct {
	ID           string `db:"id"`
	UserID       int64  `db:"user_id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	Username     string `db:"username"`
	Role         string `db:"role"`
	AccessToken  string `db:"access_token"`
	RefreshToken string `db:"refresh_token"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

// Store persists sessions locally so the backend credential never
// travels to the browser; the cookie only carries the sealed session id.
type Store struct {
	db *sqlx.DB
}

func OpenStore(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Create(sid string, u domain.User, accessToken, refreshToken string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO sessions
		(id, user_id, email, name, username, role, access_token, refresh_token, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		sid, u.ID, u.Email, u.Name, u.Username, u.Role, accessToken, refreshToken, now, now)
	return err
}

// Get returns nil, nil when no session exists for sid.
func (s *Store) Get(sid string) (*sessionRow, error) {
	var row sessionRow
	err := s.db.Get(&row, `SELECT * FROM sessions WHERE id = ?`, sid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) UpdateAccessToken(sid, token string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`UPDATE sessions SET access_token = ?, updated_at = ? WHERE id = ?`, token, now, sid)
	return err
}

func (s *Store) Delete(sid string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sid)
	return err
}

// PurgeBefore removes sessions not touched since the cutoff.
func (s *Store) PurgeBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
