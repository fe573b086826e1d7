package handler

import (
	"context"
	"time"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/internal/service"
	"github.com/d60-Lab/pingjob/internal/social"
)

// Distributor is satisfied by *service.Distributor.
type Distributor interface {
	DistributeToAll(ctx context.Context, job *model.JobPosting) social.Result
	Platforms() []service.PlatformStatus
}

type Announcer interface {
	Announce(ctx context.Context, jobID int64) (string, error)
}

type AuditReader interface {
	Latest(ctx context.Context, jobID int64) (*model.SocialMediaPost, error)
	History(ctx context.Context, jobID int64, page, size int) ([]*model.SocialMediaPost, error)
}

type Authenticator interface {
	Login(username, password string) (string, time.Time, error)
}

// Pinger 健康检查依赖（*sql.DB）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler 聚合所有 HTTP 处理函数
type Handler struct {
	jobs        repository.JobRepository
	distributor Distributor
	announcer   Announcer
	audits      AuditReader
	auth        Authenticator
	db          Pinger
}

func NewHandler(jobs repository.JobRepository, distributor Distributor, announcer Announcer, audits AuditReader, auth Authenticator, db Pinger) *Handler {
	return &Handler{
		jobs:        jobs,
		distributor: distributor,
		announcer:   announcer,
		audits:      audits,
		auth:        auth,
		db:          db,
	}
}
