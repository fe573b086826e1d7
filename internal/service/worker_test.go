package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/internal/social"
)

type recordingDistributor struct {
	mu   sync.Mutex
	jobs []int64
}

func (d *recordingDistributor) DistributeToAll(ctx context.Context, job *model.JobPosting) social.Result {
	d.mu.Lock()
	d.jobs = append(d.jobs, job.ID)
	d.mu.Unlock()
	return social.Result{social.Succeeded(social.Facebook, "fb"), social.Outcome{Platform: social.Twitter, Error: "x"}}
}

func (d *recordingDistributor) Jobs() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int64(nil), d.jobs...)
}

func TestDistributionWorker_ProcessOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.JobPosting{ID: 1, Title: "Go Dev", Company: "Acme"}).Error)
	require.NoError(t, db.Create(&model.JobPosting{ID: 2, Title: "SRE", Company: "Initech"}).Error)

	outbox := repository.NewOutboxRepository(db)
	announcer := NewAnnouncer(outbox)
	id1, err := announcer.Announce(ctx, 1)
	require.NoError(t, err)
	_, err = announcer.Announce(ctx, 2)
	require.NoError(t, err)

	_, err = announcer.Announce(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrJobNotFound)

	dist := &recordingDistributor{}
	w := NewDistributionWorker(outbox, repository.NewJobRepository(db), dist, 1, 10, time.Second)

	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []int64{1, 2}, dist.Jobs())

	var ev model.DistributionOutbox
	require.NoError(t, db.First(&ev, "id = ?", id1).Error)
	assert.Equal(t, model.OutboxStatusDone, ev.Status)
	assert.Equal(t, 1, ev.SuccessCount)
	assert.NotNil(t, ev.ProcessedAt)

	// processed events are never claimed again
	n, err = w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, dist.Jobs(), 2)
}

func TestDistributionWorker_VanishedJob(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.JobPosting{ID: 3, Title: "QA", Company: "Acme"}).Error)

	outbox := repository.NewOutboxRepository(db)
	id, err := NewAnnouncer(outbox).Announce(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&model.JobPosting{}, 3).Error)

	dist := &recordingDistributor{}
	w := NewDistributionWorker(outbox, repository.NewJobRepository(db), dist, 1, 10, time.Second)
	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, dist.Jobs())

	var ev model.DistributionOutbox
	require.NoError(t, db.First(&ev, "id = ?", id).Error)
	assert.Equal(t, model.OutboxStatusDone, ev.Status)
	assert.Zero(t, ev.SuccessCount)
}

func TestDistributionWorker_StartStop(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&model.JobPosting{ID: 6, Title: "PM", Company: "Acme"}).Error)
	outbox := repository.NewOutboxRepository(db)
	_, err := NewAnnouncer(outbox).Announce(context.Background(), 6)
	require.NoError(t, err)

	dist := &recordingDistributor{}
	w := NewDistributionWorker(outbox, repository.NewJobRepository(db), dist, 1, 10, 10*time.Millisecond)
	stop := w.Start()

	require.Eventually(t, func() bool { return len(dist.Jobs()) == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
}
