package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/pkg/logger"
)

// DistributionWorker 从 outbox 拉取事件并分发，每个事件只处理一次（不重试）
type DistributionWorker struct {
	outbox       repository.OutboxRepository
	jobs         repository.JobRepository
	distributor  JobDistributor
	claimLimit   int
	pollInterval time.Duration
	workers      int
}

func NewDistributionWorker(outbox repository.OutboxRepository, jobs repository.JobRepository, distributor JobDistributor, workers, claimLimit int, pollInterval time.Duration) *DistributionWorker {
	if workers <= 0 {
		workers = 2
	}
	if claimLimit <= 0 {
		claimLimit = 16
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &DistributionWorker{
		outbox:       outbox,
		jobs:         jobs,
		distributor:  distributor,
		claimLimit:   claimLimit,
		pollInterval: pollInterval,
		workers:      workers,
	}
}

// Start 启动若干 worker 轮询 outbox；返回停止函数（等待在途事件处理完）。
func (w *DistributionWorker) Start() func(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	return func(stopCtx context.Context) error {
		cancel()
		finished := make(chan struct{})
		go func() { wg.Wait(); close(finished) }()
		select {
		case <-finished:
			return nil
		case <-stopCtx.Done():
			return stopCtx.Err()
		}
	}
}

func (w *DistributionWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox poll failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce claims one batch and distributes each job. Returns the number of
// events handled.
func (w *DistributionWorker) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := w.outbox.ClaimPending(ctx, w.claimLimit)
	if err != nil {
		return 0, err
	}
	for _, ev := range batch {
		w.handle(ctx, ev)
	}
	return len(batch), nil
}

func (w *DistributionWorker) handle(ctx context.Context, ev model.DistributionOutbox) {
	// 已认领的事件不随停机取消
	ctx = context.WithoutCancel(ctx)

	succeeded := 0
	job, err := w.jobs.GetByID(ctx, ev.JobID)
	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		logger.Warn("outbox job vanished", zap.String("event_id", ev.ID), zap.Int64("job_id", ev.JobID))
	case err != nil:
		logger.Error("outbox job load failed", zap.String("event_id", ev.ID), zap.Int64("job_id", ev.JobID), zap.Error(err))
	default:
		succeeded = w.distributor.DistributeToAll(ctx, job).SuccessCount()
	}

	if err := w.outbox.MarkDone(ctx, ev.ID, succeeded); err != nil {
		logger.Error("outbox mark done failed", zap.String("event_id", ev.ID), zap.Error(err))
	}
}
