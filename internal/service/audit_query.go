package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/pkg/logger"
)

// AuditQuery reads distribution history. Latest goes through redis when a
// client is configured; any cache error falls back to the database.
type AuditQuery struct {
	repo  repository.SocialPostRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewAuditQuery(repo repository.SocialPostRepository, cache *redis.Client, ttl time.Duration) *AuditQuery {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AuditQuery{repo: repo, cache: cache, ttl: ttl}
}

func latestKey(jobID int64) string { return fmt.Sprintf("audit:latest:%d", jobID) }

func (q *AuditQuery) Latest(ctx context.Context, jobID int64) (*model.SocialMediaPost, error) {
	if q.cache != nil {
		if data, err := q.cache.Get(ctx, latestKey(jobID)).Bytes(); err == nil {
			var rec model.SocialMediaPost
			if uErr := json.Unmarshal(data, &rec); uErr == nil {
				return &rec, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Warn("audit cache get failed", zap.Int64("job_id", jobID), zap.Error(err))
		}
	}

	rec, err := q.repo.Latest(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if q.cache != nil {
		if payload, err := json.Marshal(rec); err == nil {
			_ = q.cache.Set(ctx, latestKey(jobID), payload, q.ttl).Err()
		}
	}
	return rec, nil
}

func (q *AuditQuery) History(ctx context.Context, jobID int64, page, size int) ([]*model.SocialMediaPost, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return q.repo.ListByJob(ctx, jobID, (page-1)*size, size)
}

// Invalidate drops the cached latest record for jobID.
func (q *AuditQuery) Invalidate(ctx context.Context, jobID int64) {
	if q.cache == nil {
		return
	}
	if err := q.cache.Del(ctx, latestKey(jobID)).Err(); err != nil {
		logger.Warn("audit cache invalidate failed", zap.Int64("job_id", jobID), zap.Error(err))
	}
}
