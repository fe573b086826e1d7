package model

import "time"

const (
	OutboxStatusPending    = "pending"
	OutboxStatusProcessing = "processing"
	OutboxStatusDone       = "done"
)

// DistributionOutbox 待分发事件（职位审核通过后写入，由 worker 消费一次）
type DistributionOutbox struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	JobID        int64     `gorm:"index:idx_outbox_job;not null"`
	Status       string    `gorm:"type:varchar(16);index"` // pending, processing, done
	CreatedAt    time.Time `gorm:"index"`
	ProcessedAt  *time.Time
	SuccessCount int
}

func (DistributionOutbox) TableName() string { return "distribution_outbox" }
