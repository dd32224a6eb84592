package db

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
)

// NewTestDB создаёт чистую SQLite в памяти со схемой.
func NewTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := NewSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("открытие тестовой базы: %v", err)
	}
	if err := EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		t.Fatalf("создание схемы тестовой базы: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}
