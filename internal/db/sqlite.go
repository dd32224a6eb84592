package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc регистрирует драйвер как "sqlite", sqlx знает только "sqlite3".
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// NewSQLite открывает файл SQLite (или ":memory:") и включает прагмы.
// Используется для разработки и тестов.
func NewSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: не удалось открыть %s: %w", path, err)
	}

	// У каждого соединения с :memory: своя база.
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: не удалось выполнить %q: %w", p, err)
		}
	}
	return conn, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    type          TEXT NOT NULL CHECK (type IN ('lost', 'found')),
    title         TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL,
    category      TEXT NOT NULL,
    color         TEXT NOT NULL DEFAULT '',
    brand         TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    item_date     DATE NOT NULL,
    image_url     TEXT NOT NULL DEFAULT '',
    reward_amount REAL NOT NULL DEFAULT 0,
    item_condition TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'matched', 'closed')),
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_type_status ON items(type, status);
CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);

CREATE TABLE IF NOT EXISTS matches (
    id               TEXT PRIMARY KEY,
    lost_item_id     TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    found_item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    similarity_score REAL NOT NULL CHECK (similarity_score >= 0 AND similarity_score <= 1),
    status           TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'confirmed', 'rejected')),
    created_at       DATETIME NOT NULL,
    updated_at       DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_pair ON matches(lost_item_id, found_item_id);

CREATE TABLE IF NOT EXISTS claims (
    id                   TEXT PRIMARY KEY,
    claimant_id          TEXT NOT NULL,
    target_item_id       TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    target_type          TEXT NOT NULL CHECK (target_type IN ('lost', 'found')),
    claimant_description TEXT NOT NULL,
    question_text        TEXT NOT NULL,
    options_json         TEXT NOT NULL,
    correct_option_id    TEXT NOT NULL,
    status               TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'verified', 'failed')),
    created_at           DATETIME NOT NULL,
    verified_at          DATETIME
);

CREATE INDEX IF NOT EXISTS idx_claims_claimant ON claims(claimant_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_one_pending ON claims(claimant_id, target_item_id) WHERE status = 'pending';
`

// EnsureSchema создаёт таблицы SQLite, если их ещё нет.
func EnsureSchema(ctx context.Context, conn *sqlx.DB) error {
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("sqlite: не удалось создать схему: %w", err)
	}
	return nil
}
