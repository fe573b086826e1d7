package social

import (
	"context"
	"net/http"

	"github.com/dghubble/oauth1"
)

// newOAuth1Client wraps base with a transport that signs every request with
// OAuth 1.0a HMAC-SHA1 (one-legged, user context). Query and form parameters
// are part of the signature base string; JSON bodies are not.
func newOAuth1Client(creds TwitterCredentials, base *http.Client) *http.Client {
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	client := config.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret))
	client.Timeout = base.Timeout
	return client
}
