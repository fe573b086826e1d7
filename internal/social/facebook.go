package social

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/d60-Lab/pingjob/internal/model"
)

// FacebookPublisher posts to a page feed, or to /me/feed without a page id.
type FacebookPublisher struct {
	creds      FacebookCredentials
	configured bool
	opts       Options
}

func NewFacebookPublisher(creds FacebookCredentials, opts Options) *FacebookPublisher {
	return &FacebookPublisher{creds: creds, configured: creds.Configured(), opts: opts.withDefaults()}
}

func (p *FacebookPublisher) Platform() Platform { return Facebook }
func (p *FacebookPublisher) Configured() bool   { return p.configured }

func (p *FacebookPublisher) Endpoint() string {
	base := strings.TrimRight(p.opts.GraphBaseURL, "/")
	if p.creds.HasPage() {
		return base + "/" + url.PathEscape(p.creds.PageID) + "/feed"
	}
	return base + "/me/feed"
}

func (p *FacebookPublisher) Publish(ctx context.Context, job *model.JobPosting) (string, error) {
	if !p.configured {
		return "", notConfigured(Facebook)
	}

	body := map[string]string{
		"message":      p.opts.Formatter.FacebookMessage(job),
		"access_token": p.creds.AccessToken,
	}
	res, err := postJSON(ctx, p.opts.HTTPClient, p.Endpoint(), body, nil)
	if err != nil {
		return "", fmt.Errorf("facebook request: %w", err)
	}
	if !res.ok() {
		return "", &APIError{Platform: Facebook, StatusCode: res.StatusCode, Message: graphErrorMessage(res.Body)}
	}

	id := graphID(res.Body)
	if id == "" {
		return "", &APIError{Platform: Facebook, StatusCode: res.StatusCode, Message: "response missing post id"}
	}
	return id, nil
}
