package service

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/social"
	"github.com/d60-Lab/pingjob/pkg/logger"
)

// JobDistributor 分发入口（handler / worker / CLI 共用）
type JobDistributor interface {
	DistributeToAll(ctx context.Context, job *model.JobPosting) social.Result
}

// PlatformStatus reports whether a platform had credentials at startup.
type PlatformStatus struct {
	Platform   social.Platform `json:"platform"`
	Configured bool            `json:"configured"`
}

// Distributor fans one job out to every publisher. Platform failures become
// failed outcomes; DistributeToAll has no error path.
type Distributor struct {
	publishers []social.Publisher
	recorder   AuditRecorder
	tracer     trace.Tracer
}

func NewDistributor(publishers []social.Publisher, recorder AuditRecorder) *Distributor {
	return &Distributor{
		publishers: publishers,
		recorder:   recorder,
		tracer:     otel.Tracer("github.com/d60-Lab/pingjob/internal/service"),
	}
}

func (d *Distributor) Platforms() []PlatformStatus {
	out := make([]PlatformStatus, len(d.publishers))
	for i, p := range d.publishers {
		out[i] = PlatformStatus{Platform: p.Platform(), Configured: p.Configured()}
	}
	return out
}

// DistributeToAll attempts every platform concurrently and returns one outcome
// per platform in publisher order. Once started, every publish runs to
// completion even if ctx is canceled. The audit record is written after the
// result is complete; its failure never reaches the caller.
func (d *Distributor) DistributeToAll(ctx context.Context, job *model.JobPosting) social.Result {
	ctx, span := d.tracer.Start(ctx, "distribution.DistributeToAll",
		trace.WithAttributes(attribute.Int64("job.id", job.ID)))
	defer span.End()

	start := time.Now()
	result := make(social.Result, len(d.publishers))

	// 已发出的请求不随调用方取消而中断，只受 http 超时约束
	pubCtx := context.WithoutCancel(ctx)

	// 每个 goroutine 只写自己的槽位
	var g errgroup.Group
	for i, p := range d.publishers {
		i, p := i, p
		g.Go(func() error {
			result[i] = d.publishOne(pubCtx, p, job)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := result.SuccessCount()
	span.SetAttributes(attribute.Int("distribution.succeeded", succeeded))
	logger.Info("job distributed",
		zap.Int64("job_id", job.ID),
		zap.Int("platforms", len(result)),
		zap.Int("succeeded", succeeded),
		zap.Duration("elapsed", time.Since(start)))

	if d.recorder != nil {
		d.recorder.Record(ctx, job.ID, result.Clone())
	}
	return result
}

func (d *Distributor) publishOne(ctx context.Context, p social.Publisher, job *model.JobPosting) (out social.Outcome) {
	platform := p.Platform()
	ctx, span := d.tracer.Start(ctx, "social.publish",
		trace.WithAttributes(attribute.String("platform", string(platform)), attribute.Int64("job.id", job.ID)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s publisher panic: %v", platform, r)
			sentry.CurrentHub().Clone().Recover(r)
			logger.Error("publisher panicked", zap.String("platform", string(platform)), zap.Any("panic", r))
			span.SetStatus(codes.Error, err.Error())
			out = social.Failed(platform, err)
		}
	}()

	postID, err := p.Publish(ctx, job)
	if err == nil && postID == "" {
		err = fmt.Errorf("%s: empty post id", platform)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("publish failed",
			zap.String("platform", string(platform)),
			zap.Int64("job_id", job.ID),
			zap.Error(err))
		return social.Failed(platform, err)
	}

	span.SetAttributes(attribute.String("post.id", postID))
	logger.Debug("published", zap.String("platform", string(platform)), zap.Int64("job_id", job.ID), zap.String("post_id", postID))
	return social.Succeeded(platform, postID)
}
