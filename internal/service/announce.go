package service

import (
	"context"

	"github.com/d60-Lab/pingjob/internal/repository"
)

// Announcer 职位审核通过后登记分发事件，由 DistributionWorker 异步消费
type Announcer struct{ outbox repository.OutboxRepository }

func NewAnnouncer(outbox repository.OutboxRepository) *Announcer { return &Announcer{outbox: outbox} }

// Announce returns the outbox event id. repository.ErrJobNotFound when the job is unknown.
func (a *Announcer) Announce(ctx context.Context, jobID int64) (string, error) {
	out, err := a.outbox.Enqueue(ctx, jobID)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}
