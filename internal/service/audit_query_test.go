package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestAuditQuery_LatestCaches(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewSocialPostRepository(db)
	mr, client := newTestRedis(t)
	q := NewAuditQuery(repo, client, time.Minute)
	ctx := context.Background()

	NewAuditRecorder(repo, q).Record(ctx, 5, sampleResult())

	first, err := q.Latest(ctx, 5)
	require.NoError(t, err)
	assert.True(t, mr.Exists("audit:latest:5"))
	assert.Equal(t, 1, first.SuccessCount)

	// delete from db; cached copy still served
	require.NoError(t, db.Where("job_id = ?", 5).Delete(&model.SocialMediaPost{}).Error)
	cached, err := q.Latest(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, first.ID, cached.ID)
	assert.Equal(t, first.PlatformsPosted, cached.PlatformsPosted)

	q.Invalidate(ctx, 5)
	assert.False(t, mr.Exists("audit:latest:5"))
	_, err = q.Latest(ctx, 5)
	assert.ErrorIs(t, err, repository.ErrAuditNotFound)
}

func TestAuditQuery_RecordInvalidates(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewSocialPostRepository(db)
	_, client := newTestRedis(t)
	q := NewAuditQuery(repo, client, time.Minute)
	rec := NewAuditRecorder(repo, q)
	ctx := context.Background()

	rec.Record(ctx, 9, sampleResult())
	first, err := q.Latest(ctx, 9)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	rec.Record(ctx, 9, nil)
	second, err := q.Latest(ctx, 9)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 0, second.SuccessCount)
}

func TestAuditQuery_CacheDownFallsBack(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewSocialPostRepository(db)
	mr, client := newTestRedis(t)
	q := NewAuditQuery(repo, client, time.Minute)
	ctx := context.Background()

	NewAuditRecorder(repo, nil).Record(ctx, 3, sampleResult())
	mr.Close()

	rec, err := q.Latest(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.JobID)
}

func TestAuditQuery_History(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewSocialPostRepository(db)
	q := NewAuditQuery(repo, nil, 0)
	ctx := context.Background()

	rec := NewAuditRecorder(repo, nil)
	for i := 0; i < 5; i++ {
		rec.Record(ctx, 4, sampleResult())
	}

	page1, err := q.History(ctx, 4, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page3, err := q.History(ctx, 4, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	all, err := q.History(ctx, 4, 0, 500)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
