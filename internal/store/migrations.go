package store

import (
	"context"
	"database/sql"
	"fmt"
)

// runMigrations creates the schema inside a single transaction.
func (s *SQLiteStore) runMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = createUsersTable(ctx, tx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	if err = createInquiriesTable(ctx, tx); err != nil {
		return fmt.Errorf("failed to create inquiries table: %w", err)
	}
	if err = createResponsesTable(ctx, tx); err != nil {
		return fmt.Errorf("failed to create responses table: %w", err)
	}
	if err = createTemplatesTable(ctx, tx); err != nil {
		return fmt.Errorf("failed to create templates table: %w", err)
	}
	if err = createActivitiesTable(ctx, tx); err != nil {
		return fmt.Errorf("failed to create activities table: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	return nil
}

func createUsersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`)
	return err
}

func createInquiriesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS inquiries (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			language TEXT NOT NULL,
			detected_language TEXT,
			user_id TEXT NOT NULL REFERENCES users(id),
			created_at TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_inquiries_user ON inquiries(user_id)`)
	return err
}

func createResponsesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS responses (
			id TEXT PRIMARY KEY,
			inquiry_id TEXT NOT NULL REFERENCES inquiries(id),
			content TEXT NOT NULL,
			language TEXT NOT NULL,
			tone TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			response_time INTEGER NOT NULL DEFAULT 0,
			generated_at TEXT NOT NULL,
			sent_at TEXT
		)`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_responses_inquiry ON responses(inquiry_id)`)
	return err
}

func createTemplatesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			language TEXT NOT NULL,
			usage_count INTEGER NOT NULL DEFAULT 0,
			user_id TEXT NOT NULL REFERENCES users(id),
			created_at TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_templates_user ON templates(user_id)`)
	return err
}

func createActivitiesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			user_id TEXT NOT NULL REFERENCES users(id),
			created_at TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id)`)
	return err
}
