package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

// recordSelectColumns lists columns for SELECT queries on records.
const recordSelectColumns = `id, type, title, body, excerpt, status, comment_status, ping_status,
	parent_id, menu_order, password, author_id, created_at, updated_at`

var errNoRows = errors.New("no rows affected")

// Repository reads and writes records, their terms and their attributes.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repository over db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetRecord loads a record. Missing records yield models.ErrNotFound.
func (r *Repository) GetRecord(ctx context.Context, id int64) (*models.Record, error) {
	query := `SELECT ` + recordSelectColumns + ` FROM records WHERE id = $1`

	var rec models.Record
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record %d: %w", id, err)
	}
	return &rec, nil
}

// CreateRecord inserts a draft and returns the new record ID.
func (r *Repository) CreateRecord(ctx context.Context, d models.Draft) (int64, error) {
	query := `
		INSERT INTO records (
			type, title, body, excerpt, status, comment_status, ping_status,
			parent_id, menu_order, password, author_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		d.Type, d.Title, d.Body, d.Excerpt, d.Status, d.CommentStatus, d.PingStatus,
		d.ParentID, d.MenuOrder, d.Password, d.AuthorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create record: %w", err)
	}
	return id, nil
}

// ObjectTerms returns the term IDs of a record in one taxonomy, in assignment order.
func (r *Repository) ObjectTerms(ctx context.Context, recordID int64, taxonomy string) ([]int64, error) {
	query := `
		SELECT term_id FROM record_terms
		WHERE record_id = $1 AND taxonomy = $2
		ORDER BY term_order, term_id
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, recordID, taxonomy); err != nil {
		return nil, fmt.Errorf("failed to list %s terms of record %d: %w", taxonomy, recordID, err)
	}
	return ids, nil
}

// SetObjectTerms replaces the record's terms in one taxonomy.
func (r *Repository) SetObjectTerms(ctx context.Context, recordID int64, taxonomy string, termIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM record_terms WHERE record_id = $1 AND taxonomy = $2`,
		recordID, taxonomy,
	); err != nil {
		return fmt.Errorf("failed to clear %s terms: %w", taxonomy, err)
	}

	insert := `
		INSERT INTO record_terms (record_id, taxonomy, term_id, term_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (record_id, taxonomy, term_id) DO NOTHING
	`
	for i, termID := range termIDs {
		if _, err = tx.ExecContext(ctx, insert, recordID, taxonomy, termID, i); err != nil {
			return fmt.Errorf("failed to assign term %d: %w", termID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit terms: %w", err)
	}
	return nil
}

// Attributes returns every attribute value of a record in insertion order.
func (r *Repository) Attributes(ctx context.Context, recordID int64) ([]models.Attribute, error) {
	query := `SELECT meta_key, meta_value FROM record_attributes WHERE record_id = $1 ORDER BY id`

	var attrs []models.Attribute
	if err := r.db.SelectContext(ctx, &attrs, query, recordID); err != nil {
		return nil, fmt.Errorf("failed to list attributes of record %d: %w", recordID, err)
	}
	return attrs, nil
}

// AddAttribute appends one value; existing values of key are kept.
func (r *Repository) AddAttribute(ctx context.Context, recordID int64, key, value string) error {
	query := `INSERT INTO record_attributes (record_id, meta_key, meta_value) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, recordID, key, value); err != nil {
		return fmt.Errorf("failed to add attribute %s: %w", key, err)
	}
	return nil
}

// PrimaryImage returns the record's primary image ID, or 0 when it has none.
func (r *Repository) PrimaryImage(ctx context.Context, recordID int64) (int64, error) {
	query := `
		SELECT meta_value FROM record_attributes
		WHERE record_id = $1 AND meta_key = $2
		ORDER BY id LIMIT 1
	`

	var raw string
	if err := r.db.GetContext(ctx, &raw, query, recordID, models.PrimaryImageKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get primary image of record %d: %w", recordID, err)
	}
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid primary image reference %q: %w", raw, err)
	}
	return id, nil
}

// SetPrimaryImage sets the primary image, replacing any existing reference.
func (r *Repository) SetPrimaryImage(ctx context.Context, recordID, imageID int64) error {
	value := strconv.FormatInt(imageID, 10)

	update := `UPDATE record_attributes SET meta_value = $3 WHERE record_id = $1 AND meta_key = $2`
	result, err := r.db.ExecContext(ctx, update, recordID, models.PrimaryImageKey, value)
	err = execRequireRows(result, err, errNoRows)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errNoRows) {
		return fmt.Errorf("failed to update primary image: %w", err)
	}

	return r.AddAttribute(ctx, recordID, models.PrimaryImageKey, value)
}
