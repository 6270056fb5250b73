package implementation

import (
	"context"
	"errors"
	"time"

	"collab-docs-be/internal/entity"
	"collab-docs-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentStateRepositoryImpl struct {
	db *gorm.DB
}

func NewDocumentStateRepository(db *gorm.DB) contract.DocumentStateRepository {
	return &DocumentStateRepositoryImpl{db: db}
}

func (r *DocumentStateRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Document, error) {
	var doc entity.Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentStateRepositoryImpl) Upsert(ctx context.Context, doc *entity.Document) error {
	doc.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"work_group_id", "storage_server_url", "state", "extension", "metadata", "updated_at"}),
	}).Create(doc).Error
}
