package social

import (
	"context"
	"net/http"
	"time"

	"github.com/d60-Lab/pingjob/internal/model"
)

// Publisher posts one job to one platform and returns the remote post id.
// Implementations fail fast with ErrNotConfigured when credentials are missing.
type Publisher interface {
	Platform() Platform
	Configured() bool
	Publish(ctx context.Context, job *model.JobPosting) (string, error)
}

// Options are shared by every publisher built by NewPublishers.
type Options struct {
	GraphBaseURL   string
	TwitterBaseURL string
	HTTPClient     *http.Client
	Formatter      *Formatter
}

const (
	DefaultGraphBaseURL   = "https://graph.facebook.com/v18.0"
	DefaultTwitterBaseURL = "https://api.twitter.com"
)

func (o Options) withDefaults() Options {
	if o.GraphBaseURL == "" {
		o.GraphBaseURL = DefaultGraphBaseURL
	}
	if o.TwitterBaseURL == "" {
		o.TwitterBaseURL = DefaultTwitterBaseURL
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if o.Formatter == nil {
		o.Formatter = NewFormatter("", "")
	}
	return o
}

// NewPublishers returns one publisher per platform, in Platforms order.
func NewPublishers(creds Credentials, opts Options) []Publisher {
	opts = opts.withDefaults()
	return []Publisher{
		NewFacebookPublisher(creds.Facebook, opts),
		NewTwitterPublisher(creds.Twitter, opts),
		NewInstagramPublisher(creds.Instagram, opts),
	}
}
