package repository

import (
	"context"
	"errors"

	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type policyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) policy.Repository {
	return &policyRepository{db: db}
}

func (r *policyRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*policy.UserPolicy, error) {
	var p policy.UserPolicy
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Two concurrent first requests race on the unique user_id; the loser reads the winner's row.
	created := policy.NewUserPolicy(userID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(created).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *policyRepository) Update(ctx context.Context, p *policy.UserPolicy) error {
	result := r.db.WithContext(ctx).
		Model(p).
		Select("remove_location", "remove_device", "remove_software", "remove_personal", "updated_at").
		Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("policy", p.ID)
	}
	return nil
}
