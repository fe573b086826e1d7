package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/d60-Lab/pingjob/internal/model"
)

// TwitterPublisher creates a tweet through the v2 API with OAuth 1.0a user context.
type TwitterPublisher struct {
	creds      TwitterCredentials
	configured bool
	opts       Options
	client     *http.Client
}

func NewTwitterPublisher(creds TwitterCredentials, opts Options) *TwitterPublisher {
	opts = opts.withDefaults()
	return &TwitterPublisher{
		creds:      creds,
		configured: creds.Configured(),
		opts:       opts,
		client:     newOAuth1Client(creds, opts.HTTPClient),
	}
}

func (p *TwitterPublisher) Platform() Platform { return Twitter }
func (p *TwitterPublisher) Configured() bool   { return p.configured }

func (p *TwitterPublisher) Endpoint() string {
	return strings.TrimRight(p.opts.TwitterBaseURL, "/") + "/2/tweets"
}

func (p *TwitterPublisher) Publish(ctx context.Context, job *model.JobPosting) (string, error) {
	if !p.configured {
		return "", notConfigured(Twitter)
	}

	res, err := postJSON(ctx, p.client, p.Endpoint(), map[string]string{"text": p.opts.Formatter.TwitterText(job)}, nil)
	if err != nil {
		return "", fmt.Errorf("twitter request: %w", err)
	}
	if !res.ok() {
		return "", &APIError{Platform: Twitter, StatusCode: res.StatusCode, Message: twitterErrorMessage(res.Body)}
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Body, &created); err != nil || created.Data.ID == "" {
		return "", &APIError{Platform: Twitter, StatusCode: res.StatusCode, Message: "response missing data.id"}
	}
	return created.Data.ID, nil
}
