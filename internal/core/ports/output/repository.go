package ports

import (
	"context"

	"github.com/google/uuid"

	"template-registry-service/internal/core/domain"
)

// TemplateRepository persists Template aggregates as whole documents. Update
// replaces the stored document and reports whether anything was modified.
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.Template) error
	Update(ctx context.Context, t *domain.Template) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	GetByName(ctx context.Context, name string) (*domain.Template, error)
	GetAll(ctx context.Context) ([]*domain.Template, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
