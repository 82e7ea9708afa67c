package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"template-registry-service/internal/core/domain"
	"template-registry-service/internal/core/ports/output"
)

// templateRepo stores each aggregate as one row: scalar columns for the
// fields queried directly, jsonb documents for the embedded versions and
// status history. Update replaces the whole document, matching the
// repository's full-replace contract.
type templateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) ports.TemplateRepository {
	return &templateRepo{pool: pool}
}

const schema = `
	CREATE TABLE IF NOT EXISTS template (
		id             uuid PRIMARY KEY,
		name           text NOT NULL UNIQUE,
		description    text NOT NULL DEFAULT '',
		version        int NOT NULL,
		is_active      boolean NOT NULL,
		created_at     timestamptz NOT NULL,
		updated_at     timestamptz NOT NULL,
		versions       jsonb NOT NULL,
		status_history jsonb NOT NULL
	)
`

// EnsureSchema creates the template table when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure template schema: %w", err)
	}
	return nil
}

func (r *templateRepo) Create(ctx context.Context, t *domain.Template) error {
	rec := t.Snapshot()
	versionsJSON, historyJSON, err := marshalDocuments(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO template
			(id, name, description, version, is_active, created_at, updated_at, versions, status_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err = r.pool.Exec(ctx, query,
		rec.ID, rec.Name, rec.Description, rec.Version, rec.IsActive,
		rec.CreatedAt, rec.UpdatedAt, versionsJSON, historyJSON,
	)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *templateRepo) Update(ctx context.Context, t *domain.Template) (bool, error) {
	rec := t.Snapshot()
	versionsJSON, historyJSON, err := marshalDocuments(rec)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE template
		SET name=$1, description=$2, version=$3, is_active=$4,
			updated_at=$5, versions=$6, status_history=$7
		WHERE id=$8
	`
	result, err := r.pool.Exec(ctx, query,
		rec.Name, rec.Description, rec.Version, rec.IsActive,
		rec.UpdatedAt, versionsJSON, historyJSON, rec.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update template: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *templateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	return r.getOne(ctx, "WHERE id=$1", id)
}

func (r *templateRepo) GetByName(ctx context.Context, name string) (*domain.Template, error) {
	return r.getOne(ctx, "WHERE name=$1", name)
}

func (r *templateRepo) getOne(ctx context.Context, where string, arg interface{}) (*domain.Template, error) {
	query := `
		SELECT id, name, description, version, is_active, created_at, updated_at, versions, status_history
		FROM template ` + where
	t, err := scanTemplate(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (r *templateRepo) GetAll(ctx context.Context) ([]*domain.Template, error) {
	query := `
		SELECT id, name, description, version, is_active, created_at, updated_at, versions, status_history
		FROM template
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("list templates: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (r *templateRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM template WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func marshalDocuments(rec domain.TemplateRecord) ([]byte, []byte, error) {
	versionsJSON, err := json.Marshal(rec.Versions)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal versions: %w", err)
	}
	historyJSON, err := json.Marshal(rec.StatusHistory)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal status history: %w", err)
	}
	return versionsJSON, historyJSON, nil
}

func scanTemplate(row pgx.Row) (*domain.Template, error) {
	var rec domain.TemplateRecord
	var versionsJSON, historyJSON []byte

	err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Version, &rec.IsActive,
		&rec.CreatedAt, &rec.UpdatedAt, &versionsJSON, &historyJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(versionsJSON, &rec.Versions); err != nil {
		return nil, fmt.Errorf("unmarshal versions: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &rec.StatusHistory); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	return domain.RehydrateTemplate(rec), nil
}
