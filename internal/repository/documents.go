package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blockedby/interview-list/internal/logger"
)

// ErrInvalidOrder is returned for an order field the collection cannot sort by.
var ErrInvalidOrder = errors.New("invalid order field")

// Document is one interview document as stored: its owner, id and raw fields.
type Document struct {
	UserID    string
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentsRepository handles the interview_documents table. Documents are
// schemaless JSONB; only createdAt is lifted into a column for ordering.
type DocumentsRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewDocumentsRepository creates a new documents repository
func NewDocumentsRepository(pool *pgxpool.Pool, log *logger.Logger) *DocumentsRepository {
	return &DocumentsRepository{pool: pool, log: log.Component("documents_repo")}
}

// orderColumns maps document fields to sortable SQL expressions.
var orderColumns = map[string]string{
	"createdAt":   "created_at",
	"companyName": "data->>'companyName'",
	"status":      "data->>'status'",
}

// Set replaces the document, creating it if needed.
func (r *DocumentsRepository) Set(ctx context.Context, userID, id string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["id"] = id

	_, err := r.pool.Exec(ctx, `
		INSERT INTO interview_documents (user_id, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, NOW())
		ON CONFLICT (user_id, id) DO UPDATE
		SET data = EXCLUDED.data,
		    created_at = EXCLUDED.created_at,
		    updated_at = NOW()
	`, userID, id, data, createdAtOf(data, time.Now()))
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}

	r.log.Info().Str("user_id", userID).Str("id", id).Msg("set document")
	return nil
}

// Merge applies patch on top of the stored fields. Missing documents
// return ErrNotFound.
func (r *DocumentsRepository) Merge(ctx context.Context, userID, id string, patch map[string]any) error {
	delete(patch, "id")

	var createdAt *time.Time
	if _, ok := patch["createdAt"]; ok {
		t := createdAtOf(patch, time.Now())
		createdAt = &t
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE interview_documents
		SET data = data || $3::jsonb,
		    created_at = COALESCE($4, created_at),
		    updated_at = NOW()
		WHERE user_id = $1 AND id = $2
	`, userID, id, patch, createdAt)
	if err != nil {
		return fmt.Errorf("merge document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info().Str("user_id", userID).Str("id", id).Int("fields", len(patch)).Msg("merged document")
	return nil
}

// Get returns one document, or ErrNotFound.
func (r *DocumentsRepository) Get(ctx context.Context, userID, id string) (*Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, id, data, created_at, updated_at
		FROM interview_documents
		WHERE user_id = $1 AND id = $2
	`, userID, id).Scan(&d.UserID, &d.ID, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (r *DocumentsRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM interview_documents WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	r.log.Info().Str("user_id", userID).Str("id", id).Int64("rows", tag.RowsAffected()).Msg("deleted document")
	return nil
}

// List returns every document of the user ordered by orderBy. An empty
// orderBy keeps insertion order by id.
func (r *DocumentsRepository) List(ctx context.Context, userID, orderBy string, desc bool) ([]Document, error) {
	orderExpr, err := orderClause(orderBy, desc)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT user_id, id, data, created_at, updated_at
		FROM interview_documents
		WHERE user_id = $1
		ORDER BY `+orderExpr, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.UserID, &d.ID, &d.Data, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// CountByStatus returns the number of the user's documents per status field.
func (r *DocumentsRepository) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(data->>'status', ''), COUNT(*)
		FROM interview_documents
		WHERE user_id = $1
		GROUP BY 1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func orderClause(orderBy string, desc bool) (string, error) {
	if orderBy == "" {
		return "id", nil
	}
	col, ok := orderColumns[orderBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, orderBy)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return col + " " + dir + ", id " + dir, nil
}

// createdAtOf reads the createdAt field as RFC 3339, falling back to def.
func createdAtOf(data map[string]any, def time.Time) time.Time {
	s, ok := data["createdAt"].(string)
	if !ok {
		return def
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return def
	}
	return t
}
