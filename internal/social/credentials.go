package social

import (
	"strings"

	"github.com/d60-Lab/pingjob/config"
)

// placeholderPageID is shipped in sample configs; it means "no page configured".
const placeholderPageID = "demo-page-id"

type FacebookCredentials struct {
	AccessToken string
	PageID      string
}

func (c FacebookCredentials) Configured() bool { return !blank(c.AccessToken) }

// HasPage reports whether posts should go to a page feed instead of /me/feed.
func (c FacebookCredentials) HasPage() bool {
	return !blank(c.PageID) && c.PageID != placeholderPageID
}

type TwitterCredentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

func (c TwitterCredentials) Configured() bool {
	return !blank(c.APIKey) && !blank(c.APISecret) && !blank(c.AccessToken) && !blank(c.AccessTokenSecret)
}

type InstagramCredentials struct {
	AccessToken string
	UserID      string
}

func (c InstagramCredentials) Configured() bool {
	return !blank(c.AccessToken) && !blank(c.UserID)
}

// Credentials is loaded once at startup and never mutated.
type Credentials struct {
	Facebook  FacebookCredentials
	Twitter   TwitterCredentials
	Instagram InstagramCredentials
}

func CredentialsFromConfig(cfg config.SocialConfig) Credentials {
	return Credentials{
		Facebook: FacebookCredentials{
			AccessToken: cfg.Facebook.AccessToken,
			PageID:      cfg.Facebook.PageID,
		},
		Twitter: TwitterCredentials{
			APIKey:            cfg.Twitter.APIKey,
			APISecret:         cfg.Twitter.APISecret,
			AccessToken:       cfg.Twitter.AccessToken,
			AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		},
		Instagram: InstagramCredentials{
			AccessToken: cfg.Instagram.AccessToken,
			UserID:      cfg.Instagram.UserID,
		},
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
