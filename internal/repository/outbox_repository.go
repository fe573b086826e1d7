package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/pingjob/internal/model"
)

// OutboxRepository 分发事件外发盒
type OutboxRepository interface {
	// Enqueue 在事务内确认职位存在后写入 pending 事件
	Enqueue(ctx context.Context, jobID int64) (*model.DistributionOutbox, error)
	// ClaimPending 将一批 pending 事件标记为 processing 并返回
	ClaimPending(ctx context.Context, limit int) ([]model.DistributionOutbox, error)
	MarkDone(ctx context.Context, id string, successCount int) error
}

type outboxRepository struct{ db *gorm.DB }

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepository{db: db} }

func (r *outboxRepository) Enqueue(ctx context.Context, jobID int64) (*model.DistributionOutbox, error) {
	out := &model.DistributionOutbox{
		ID:        uuid.New().String(),
		JobID:     jobID,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.JobPosting{}).Where("id = ?", jobID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrJobNotFound
		}
		return tx.Create(out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimPending returns only the events this call moved from pending to
// processing; rows taken by a concurrent claimer in between are skipped.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]model.DistributionOutbox, error) {
	var claimed []model.DistributionOutbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var batch []model.DistributionOutbox
		q := tx.Where("status = ?", model.OutboxStatusPending).Order("created_at").Limit(limit)
		// sqlite 不支持 SKIP LOCKED，靠下面的条件更新判定归属
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Find(&batch).Error; err != nil {
			return err
		}
		claimed = claimed[:0]
		for _, ev := range batch {
			res := tx.Model(&model.DistributionOutbox{}).
				Where("id = ? AND status = ?", ev.ID, model.OutboxStatusPending).
				Update("status", model.OutboxStatusProcessing)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				ev.Status = model.OutboxStatusProcessing
				claimed = append(claimed, ev)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *outboxRepository) MarkDone(ctx context.Context, id string, successCount int) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.DistributionOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxStatusDone, "processed_at": now, "success_count": successCount}).Error
}
