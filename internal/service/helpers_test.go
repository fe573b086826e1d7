package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/social"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.JobPosting{}, &model.SocialMediaPost{}, &model.DistributionOutbox{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fakePublisher struct {
	platform   social.Platform
	configured bool
	postID     string
	err        error
	panicWith  any
	block      chan struct{}
	calls      atomic.Int32
}

func (f *fakePublisher) Platform() social.Platform { return f.platform }
func (f *fakePublisher) Configured() bool          { return f.configured }

func (f *fakePublisher) Publish(ctx context.Context, job *model.JobPosting) (string, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.postID, f.err
}

// memoryAuditRepo records creates; failWith makes every Create fail.
type memoryAuditRepo struct {
	mu       sync.Mutex
	records  []*model.SocialMediaPost
	failWith error
}

func (r *memoryAuditRepo) Create(ctx context.Context, rec *model.SocialMediaPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *memoryAuditRepo) Latest(ctx context.Context, jobID int64) (*model.SocialMediaPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].JobID == jobID {
			return r.records[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memoryAuditRepo) ListByJob(ctx context.Context, jobID int64, offset, limit int) ([]*model.SocialMediaPost, error) {
	return nil, nil
}

func (r *memoryAuditRepo) Records() []*model.SocialMediaPost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.SocialMediaPost(nil), r.records...)
}

func testJob() *model.JobPosting {
	return &model.JobPosting{
		ID:              101,
		Title:           "Backend Engineer",
		Company:         "Acme Corp",
		Location:        "Remote",
		Description:     "Build things.",
		EmploymentType:  "Full-time",
		ExperienceLevel: "Mid",
	}
}
