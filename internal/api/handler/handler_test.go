package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/pingjob/internal/model"
	"github.com/d60-Lab/pingjob/internal/repository"
	"github.com/d60-Lab/pingjob/internal/service"
	"github.com/d60-Lab/pingjob/internal/social"
	"github.com/d60-Lab/pingjob/pkg/auth"
)

func init() { gin.SetMode(gin.TestMode) }

type stubJobs struct{ jobs map[int64]*model.JobPosting }

func (s stubJobs) GetByID(ctx context.Context, id int64) (*model.JobPosting, error) {
	if j, ok := s.jobs[id]; ok {
		return j, nil
	}
	return nil, repository.ErrJobNotFound
}

type stubDistributor struct{ got []*model.JobPosting }

func (s *stubDistributor) DistributeToAll(ctx context.Context, job *model.JobPosting) social.Result {
	s.got = append(s.got, job)
	return social.Result{
		social.Succeeded(social.Facebook, "fb-1"),
		social.Failed(social.Twitter, errors.New("Twitter API error: Unknown error")),
	}
}

func (s *stubDistributor) Platforms() []service.PlatformStatus {
	return []service.PlatformStatus{{Platform: social.Facebook, Configured: true}}
}

type stubAnnouncer struct{}

func (stubAnnouncer) Announce(ctx context.Context, jobID int64) (string, error) {
	if jobID == 1 {
		return "evt-1", nil
	}
	return "", repository.ErrJobNotFound
}

type stubAudits struct{}

func (stubAudits) Latest(ctx context.Context, jobID int64) (*model.SocialMediaPost, error) {
	if jobID == 1 {
		return &model.SocialMediaPost{ID: "rec-1", JobID: 1, SuccessCount: 1}, nil
	}
	return nil, repository.ErrAuditNotFound
}

func (stubAudits) History(ctx context.Context, jobID int64, page, size int) ([]*model.SocialMediaPost, error) {
	return []*model.SocialMediaPost{}, nil
}

type stubAuth struct{}

func (stubAuth) Login(username, password string) (string, time.Time, error) {
	if username == "admin" && password == "pw" {
		return "tok", time.Unix(1700000000, 0), nil
	}
	return "", time.Time{}, auth.ErrInvalidCredentials
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(pingErr error) (*gin.Engine, *stubDistributor) {
	dist := &stubDistributor{}
	h := NewHandler(
		stubJobs{jobs: map[int64]*model.JobPosting{1: {ID: 1, Title: "Go Dev", Company: "Acme"}}},
		dist, stubAnnouncer{}, stubAudits{}, stubAuth{}, stubPinger{err: pingErr},
	)
	r := gin.New()
	r.GET("/health", h.Health)
	r.POST("/login", h.Login)
	r.POST("/distributions", h.Distribute)
	r.POST("/jobs/:id/distribute", h.DistributeJob)
	r.POST("/jobs/:id/announce", h.Announce)
	r.GET("/jobs/:id/distributions", h.ListDistributions)
	r.GET("/platforms", h.Platforms)
	return r, dist
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestDistribute(t *testing.T) {
	r, dist := setup(nil)

	w, env := do(r, http.MethodPost, "/distributions", `{"id":1,"title":"Go Dev","company":"Acme","description":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var result []social.Outcome
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result, 2)
	assert.Equal(t, "fb-1", result[0].PostID)
	assert.Equal(t, "Twitter API error: Unknown error", result[1].Error)
	require.Len(t, dist.got, 1)
	assert.Equal(t, "Acme", dist.got[0].Company)

	w, _ = do(r, http.MethodPost, "/distributions", `{"id":1,"title":"Go Dev"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDistribute_RequiresPersistedJob(t *testing.T) {
	r, dist := setup(nil)

	for body, code := range map[string]int{
		`{"title":"Go Dev","company":"Acme"}`:         http.StatusBadRequest,
		`{"id":0,"title":"Go Dev","company":"Acme"}`:  http.StatusBadRequest,
		`{"id":-3,"title":"Go Dev","company":"Acme"}`: http.StatusBadRequest,
		`{"id":2,"title":"Go Dev","company":"Acme"}`:  http.StatusNotFound,
	} {
		w, _ := do(r, http.MethodPost, "/distributions", body)
		assert.Equal(t, code, w.Code, body)
	}
	assert.Empty(t, dist.got)
}

func TestDistributeJob(t *testing.T) {
	r, dist := setup(nil)

	w, _ := do(r, http.MethodPost, "/jobs/1/distribute", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, dist.got, 1)

	w, _ = do(r, http.MethodPost, "/jobs/2/distribute", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(r, http.MethodPost, "/jobs/abc/distribute", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, dist.got, 1)
}

func TestAnnounce(t *testing.T) {
	r, _ := setup(nil)

	w, env := do(r, http.MethodPost, "/jobs/1/announce", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, string(env.Data), "evt-1")

	w, _ = do(r, http.MethodPost, "/jobs/9/announce", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDistributions(t *testing.T) {
	r, _ := setup(nil)

	w, env := do(r, http.MethodGet, "/jobs/1/distributions?page=2&page_size=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Latest   *model.SocialMediaPost `json:"latest"`
		Page     int                    `json:"page"`
		PageSize int                    `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.Latest)
	assert.Equal(t, 2, data.Page)
	assert.Equal(t, 5, data.PageSize)

	w, env = do(r, http.MethodGet, "/jobs/2/distributions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"latest":null`)
}

func TestLogin(t *testing.T) {
	r, _ := setup(nil)

	w, env := do(r, http.MethodPost, "/login", `{"username":"admin","password":"pw"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"token":"tok"`)

	w, _ = do(r, http.MethodPost, "/login", `{"username":"admin","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(r, http.MethodPost, "/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndPlatforms(t *testing.T) {
	r, _ := setup(nil)
	w, _ := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(r, http.MethodGet, "/platforms", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"platform":"facebook","configured":true}]`, string(env.Data))

	down, _ := setup(errors.New("connection refused"))
	w, _ = do(down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
