package repository

import (
	"context"
	"errors"

	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/analysis"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) analysis.Repository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Save(ctx context.Context, a *analysis.FileAnalysis) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *analysisRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*analysis.FileAnalysis, error) {
	var a analysis.FileAnalysis
	if err := r.db.WithContext(ctx).
		Preload("Fields").
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("file_analysis", id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]analysis.FileAnalysis, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	var out []analysis.FileAnalysis
	if err := r.db.WithContext(ctx).
		Preload("Fields").
		Where("user_id = ?", userID).
		Order("scanned_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *analysisRepository) MarkCleaned(ctx context.Context, id uuid.UUID, update analysis.CleanedUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := pq.StringArray(update.RemovedTags)
		if removed == nil {
			removed = pq.StringArray{}
		}
		result := tx.Model(&analysis.FileAnalysis{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"sha256_after": update.SHA256After,
				"cleaned_at":   update.CleanedAt,
				"removed_tags": removed,
				"updated_at":   update.CleanedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("file_analysis", id)
		}
		if len(update.RemovedTags) == 0 {
			return nil
		}
		return tx.Model(&analysis.Field{}).
			Where("analysis_id = ? AND tag IN ?", id, update.RemovedTags).
			Update("removed", true).Error
	})
}

func (r *analysisRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&analysis.FileAnalysis{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("file_analysis", id)
	}
	return nil
}
