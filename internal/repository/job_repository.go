package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/pingjob/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

// JobRepository 只读访问 CRUD 层维护的职位表
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*model.JobPosting, error)
}

type jobRepository struct{ db *gorm.DB }

func NewJobRepository(db *gorm.DB) JobRepository { return &jobRepository{db: db} }

func (r *jobRepository) GetByID(ctx context.Context, id int64) (*model.JobPosting, error) {
	var job model.JobPosting
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
