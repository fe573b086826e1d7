package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/pingjob/internal/model"
)

var ErrAuditNotFound = errors.New("no distribution recorded for job")

// SocialPostRepository 分发审计记录仓储（只追加）
type SocialPostRepository interface {
	Create(ctx context.Context, rec *model.SocialMediaPost) error
	Latest(ctx context.Context, jobID int64) (*model.SocialMediaPost, error)
	ListByJob(ctx context.Context, jobID int64, offset, limit int) ([]*model.SocialMediaPost, error)
}

type socialPostRepository struct{ db *gorm.DB }

func NewSocialPostRepository(db *gorm.DB) SocialPostRepository {
	return &socialPostRepository{db: db}
}

func (r *socialPostRepository) Create(ctx context.Context, rec *model.SocialMediaPost) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *socialPostRepository) Latest(ctx context.Context, jobID int64) (*model.SocialMediaPost, error) {
	var rec model.SocialMediaPost
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuditNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *socialPostRepository) ListByJob(ctx context.Context, jobID int64, offset, limit int) ([]*model.SocialMediaPost, error) {
	var res []*model.SocialMediaPost
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}
