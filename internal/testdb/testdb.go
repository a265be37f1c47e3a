// Package testdb opens a migrated, emptied Postgres database for tests that
// need real SQL. Tests skip when LOVE_TEST_DATABASE_URL is unset.
package testdb

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/love-prep/backend/internal/database"
)

const envURL = "LOVE_TEST_DATABASE_URL"

// Open returns a clean database or skips the test.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(envURL)
	if url == "" {
		t.Skipf("%s not set, skipping database test", envURL)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	if _, err := db.Exec(`TRUNCATE users, questions, user_question_progress, question_attempts,
		active_sessions, user_achievements, distractor_attempts, password_reset_tokens
		RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate test database: %v", err)
	}
	return db
}

// CreateUser inserts a minimal active user and returns its id.
func CreateUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO users (username, email, password) VALUES ($1, $2, 'x') RETURNING id`,
		username, username+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

// CreateQuestion inserts a question with raw options text and returns its id.
func CreateQuestion(t *testing.T, db *sql.DB, options string, correct int, category, difficulty string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO questions (question, explanation, options, correct, category, difficulty)
		 VALUES ('Q', 'E', $1, $2, $3, $4) RETURNING id`,
		options, correct, category, difficulty,
	).Scan(&id)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return id
}
