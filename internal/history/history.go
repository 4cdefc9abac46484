// Package history records generated drafts in a local SQLite database so
// earlier output can be reviewed after the session ends.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apexai/draftkit/internal/common"
	"github.com/apexai/draftkit/internal/dbx"
)

// Draft is one recorded generation result.
type Draft struct {
	ID         string
	CreatedAt  time.Time
	Situation  string
	OutputType string
	Provider   string
	Model      string
	Content    string
}

// Repository describes persistence operations for drafts.
type Repository interface {
	// Add stores a draft, assigning ID and CreatedAt when unset.
	Add(ctx context.Context, d *Draft) error

	// List returns the most recent drafts, newest first, at most limit.
	List(ctx context.Context, limit int) ([]Draft, error)

	// Get returns a draft by id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*Draft, error)

	// Purge removes all drafts.
	Purge(ctx context.Context) error
}

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, d *Draft) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO drafts (id, created_at, situation, output_type, provider, model, content)
			values (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.CreatedAt, d.Situation, d.OutputType, d.Provider, d.Model, d.Content)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Draft, error) {
	query := `select id, created_at, situation, output_type, provider, model, content
			from drafts order by created_at desc, id limit ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.Situation, &d.OutputType,
			&d.Provider, &d.Model, &d.Content); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Draft, error) {
	query := `select id, created_at, situation, output_type, provider, model, content
			from drafts where id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	d := &Draft{}
	err := row.Scan(&d.ID, &d.CreatedAt, &d.Situation, &d.OutputType,
		&d.Provider, &d.Model, &d.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return d, nil
}

// trim keeps only the newest keep drafts.
func (r *SQLiteRepository) trim(ctx context.Context, keep int) error {
	query := `delete from drafts where id not in
			(select id from drafts order by created_at desc, id limit ?)`
	if _, err := r.db.ExecContext(ctx, query, keep); err != nil {
		return fmt.Errorf("failed to trim drafts: %w", err)
	}
	return nil
}

// Record inserts a draft and prunes entries beyond keep in one transaction.
// keep <= 0 disables pruning.
func Record(ctx context.Context, db *sql.DB, d *Draft, keep int) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Add(ctx, d); err != nil {
			return err
		}
		if keep > 0 {
			return repo.trim(ctx, keep)
		}
		return nil
	})
}

func (r *SQLiteRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from drafts`); err != nil {
		return fmt.Errorf("failed to purge drafts: %w", err)
	}
	return nil
}
