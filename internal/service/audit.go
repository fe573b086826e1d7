package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/internal/social"
	"github.com/d60-Lab/pingjob/pkg/logger"
)

const auditWriteTimeout = 5 * time.Second

// AuditRecorder persists one audit record per distribution. It is best-effort:
// failures are logged and swallowed.
type AuditRecorder interface {
	Record(ctx context.Context, jobID int64, result social.Result)
}

// auditInvalidator is notified after a record lands so cached reads refresh.
type auditInvalidator interface {
	Invalidate(ctx context.Context, jobID int64)
}

type auditRecorder struct {
	repo  repository.SocialPostRepository
	cache auditInvalidator
}

// NewAuditRecorder writes synchronously. cache may be nil.
func NewAuditRecorder(repo repository.SocialPostRepository, cache auditInvalidator) AuditRecorder {
	return &auditRecorder{repo: repo, cache: cache}
}

func (r *auditRecorder) Record(ctx context.Context, jobID int64, result social.Result) {
	// 请求结束不应取消审计写入
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()
	r.write(ctx, jobID, result)
}

func (r *auditRecorder) write(ctx context.Context, jobID int64, result social.Result) {
	// 审计失败不能影响分发结果，也不能打死 worker
	defer func() {
		if p := recover(); p != nil {
			sentry.CurrentHub().Clone().Recover(p)
			logger.Error("audit write panicked", zap.Int64("job_id", jobID), zap.Any("panic", p))
		}
	}()
	rec, err := newAuditRecord(jobID, result)
	if err == nil {
		err = r.repo.Create(ctx, rec)
	}
	if err != nil {
		logger.Error("failed to log social media post",
			zap.Int64("job_id", jobID),
			zap.Strings("platforms", result.Platforms()),
			zap.Error(err))
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("component", "audit")
			scope.SetExtra("job_id", jobID)
			sentry.CaptureException(err)
		})
		return
	}
	if r.cache != nil {
		r.cache.Invalidate(ctx, jobID)
	}
}

func newAuditRecord(jobID int64, result social.Result) (*model.SocialMediaPost, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &model.SocialMediaPost{
		ID:              uuid.New().String(),
		JobID:           jobID,
		PlatformsPosted: result.Platforms(),
		Results:         string(data),
		SuccessCount:    result.SuccessCount(),
		CreatedAt:       time.Now(),
	}, nil
}

type auditJob struct {
	jobID  int64
	result social.Result
}

// AsyncAuditRecorder 异步落审计，避免拖慢分发响应。
// 队列满或已停止时退化为同步写，保证每次分发恰好一条记录。
type AsyncAuditRecorder struct {
	inline *auditRecorder
	ch     chan auditJob

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewAsyncAuditRecorder(repo repository.SocialPostRepository, cache auditInvalidator, queueSize int) *AsyncAuditRecorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &AsyncAuditRecorder{
		inline: &auditRecorder{repo: repo, cache: cache},
		ch:     make(chan auditJob, queueSize),
	}
}

func (r *AsyncAuditRecorder) Record(ctx context.Context, jobID int64, result social.Result) {
	r.mu.RLock()
	if !r.stopped {
		select {
		case r.ch <- auditJob{jobID: jobID, result: result}:
			r.mu.RUnlock()
			return
		default:
			logger.Warn("audit queue full, writing inline", zap.Int64("job_id", jobID))
		}
	}
	r.mu.RUnlock()
	r.inline.Record(ctx, jobID, result)
}

// Start launches workers and returns a stop func that drains the queue.
func (r *AsyncAuditRecorder) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.writeOne(job)
				case <-done:
					for {
						select {
						case job := <-r.ch:
							r.writeOne(job)
						default:
							return
						}
					}
				}
			}
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() {
			r.mu.Lock()
			r.stopped = true
			r.mu.Unlock()
			close(done)
		})
		finished := make(chan struct{})
		go func() { r.wg.Wait(); close(finished) }()
		select {
		case <-finished:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *AsyncAuditRecorder) writeOne(job auditJob) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()
	r.inline.write(ctx, job.jobID, job.result)
}

// QueueLen 返回当前队列长度（采样值）
func (r *AsyncAuditRecorder) QueueLen() int { return len(r.ch) }
