package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/pingjob/config"
	"github.com/d60-Lab/pingjob/internal/api"
	"github.com/d60-Lab/pingjob/internal/api/handler"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/internal/service"
	"github.com/d60-Lab/pingjob/internal/social"
	"github.com/d60-Lab/pingjob/pkg/auth"
	"github.com/d60-Lab/pingjob/pkg/cache"
	"github.com/d60-Lab/pingjob/pkg/database"
	"github.com/d60-Lab/pingjob/pkg/logger"
)

// Wire bundles stores, services and clients shared by the CLI commands.
type Wire struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Jobs        repository.JobRepository
	Audits      *service.AuditQuery
	Distributor *service.Distributor
	Announcer   *service.Announcer
	Worker      *service.DistributionWorker
	Auth        *auth.Manager

	asyncAudit *service.AsyncAuditRecorder
}

// NewWire constructs the dependency graph from cfg. A redis failure is logged
// and the audit cache is disabled; a database failure is fatal.
func NewWire(cfg *config.Config) (*Wire, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return newWire(cfg, db)
}

func newWire(cfg *config.Config, db *gorm.DB) (*Wire, error) {
	rdb, err := cache.InitRedis(cfg)
	if err != nil {
		logger.Warn("redis unavailable, audit cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	jobs := repository.NewJobRepository(db)
	posts := repository.NewSocialPostRepository(db)
	outbox := repository.NewOutboxRepository(db)
	audits := service.NewAuditQuery(posts, rdb, cfg.Distribution.CacheTTL)

	w := &Wire{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Jobs:   jobs,
		Audits: audits,
		Auth:   auth.NewManager(cfg.JWT, cfg.Admin),
	}

	var recorder service.AuditRecorder
	if cfg.Distribution.AsyncAudit {
		w.asyncAudit = service.NewAsyncAuditRecorder(posts, audits, cfg.Distribution.AuditQueueSize)
		recorder = w.asyncAudit
	} else {
		recorder = service.NewAuditRecorder(posts, audits)
	}

	publishers := social.NewPublishers(social.CredentialsFromConfig(cfg.Social), social.Options{
		GraphBaseURL:   cfg.Social.GraphBaseURL,
		TwitterBaseURL: cfg.Social.TwitterBaseURL,
		HTTPClient:     &http.Client{Timeout: cfg.Social.HTTPTimeout},
		Formatter:      social.NewFormatter(cfg.Social.Brand, cfg.Social.ImageURLTemplate),
	})
	for _, p := range publishers {
		if !p.Configured() {
			logger.Warn("platform credentials missing, publishes will fail", zap.String("platform", string(p.Platform())))
		}
	}

	w.Distributor = service.NewDistributor(publishers, recorder)
	w.Announcer = service.NewAnnouncer(outbox)
	wc := cfg.Distribution.Worker
	w.Worker = service.NewDistributionWorker(outbox, jobs, w.Distributor, wc.Workers, wc.ClaimLimit, wc.PollInterval)
	return w, nil
}

// Router builds the HTTP API over the wired services.
func (w *Wire) Router() (*gin.Engine, error) {
	sqlDB, err := w.DB.DB()
	if err != nil {
		return nil, err
	}
	h := handler.NewHandler(w.Jobs, w.Distributor, w.Announcer, w.Audits, w.Auth, sqlDB)
	return api.NewRouter(w.Config, h, w.Auth), nil
}

// StartBackground starts the async audit writer and, when enabled, the outbox
// worker. The returned func stops the worker first so its last audits drain.
func (w *Wire) StartBackground() func(context.Context) error {
	var stops []func(context.Context) error
	if w.Config.Distribution.Worker.Enabled {
		stops = append(stops, w.Worker.Start())
	}
	if w.asyncAudit != nil {
		stops = append(stops, w.asyncAudit.Start(w.Config.Distribution.AuditWorkers))
	}
	return func(ctx context.Context) error {
		var errs []error
		for _, stop := range stops {
			if err := stop(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

func (w *Wire) Close() error {
	var errs []error
	if w.Redis != nil {
		errs = append(errs, w.Redis.Close())
	}
	errs = append(errs, database.Close(w.DB))
	return errors.Join(errs...)
}
