package social

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/d60-Lab/pingjob/internal/model"
)

// InstagramPublisher runs the two-step container protocol: create a media
// object, then publish its creation id. A failed publish step leaves the
// created container behind; there is no cleanup call.
type InstagramPublisher struct {
	creds      InstagramCredentials
	configured bool
	opts       Options
}

func NewInstagramPublisher(creds InstagramCredentials, opts Options) *InstagramPublisher {
	return &InstagramPublisher{creds: creds, configured: creds.Configured(), opts: opts.withDefaults()}
}

func (p *InstagramPublisher) Platform() Platform { return Instagram }
func (p *InstagramPublisher) Configured() bool   { return p.configured }

func (p *InstagramPublisher) userURL(suffix string) string {
	return strings.TrimRight(p.opts.GraphBaseURL, "/") + "/" + url.PathEscape(p.creds.UserID) + "/" + suffix
}

func (p *InstagramPublisher) Publish(ctx context.Context, job *model.JobPosting) (string, error) {
	if !p.configured {
		return "", notConfigured(Instagram)
	}

	payload, err := p.opts.Formatter.Format(Instagram, job)
	if err != nil {
		return "", err
	}

	creationID, err := p.createMedia(ctx, payload)
	if err != nil {
		return "", err
	}
	return p.publishMedia(ctx, creationID)
}

func (p *InstagramPublisher) createMedia(ctx context.Context, payload Payload) (string, error) {
	body := map[string]string{
		"image_url":    payload.MediaURL,
		"caption":      payload.Text,
		"access_token": p.creds.AccessToken,
	}
	res, err := postJSON(ctx, p.opts.HTTPClient, p.userURL("media"), body, nil)
	if err != nil {
		return "", fmt.Errorf("instagram media request: %w", err)
	}
	if !res.ok() {
		return "", &APIError{Platform: Instagram, Stage: "Media", StatusCode: res.StatusCode, Message: graphErrorMessage(res.Body)}
	}
	id := graphID(res.Body)
	if id == "" {
		return "", &APIError{Platform: Instagram, Stage: "Media", StatusCode: res.StatusCode, Message: "response missing creation id"}
	}
	return id, nil
}

func (p *InstagramPublisher) publishMedia(ctx context.Context, creationID string) (string, error) {
	body := map[string]string{
		"creation_id":  creationID,
		"access_token": p.creds.AccessToken,
	}
	res, err := postJSON(ctx, p.opts.HTTPClient, p.userURL("media_publish"), body, nil)
	if err != nil {
		return "", fmt.Errorf("instagram publish request: %w", err)
	}
	if !res.ok() {
		return "", &APIError{Platform: Instagram, Stage: "Publish", StatusCode: res.StatusCode, Message: graphErrorMessage(res.Body)}
	}
	id := graphID(res.Body)
	if id == "" {
		return "", &APIError{Platform: Instagram, Stage: "Publish", StatusCode: res.StatusCode, Message: "response missing media id"}
	}
	return id, nil
}
