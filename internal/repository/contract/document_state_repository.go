package contract

import (
	"context"

	"collab-docs-be/internal/entity"
)

type DocumentStateRepository interface {
	// FindById returns nil, nil when no state row exists for the id yet.
	FindById(ctx context.Context, id string) (*entity.Document, error)
	Upsert(ctx context.Context, doc *entity.Document) error
}
