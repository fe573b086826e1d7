package social

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/pingjob/config"
)

func TestCredentialsConfigured(t *testing.T) {
	assert.False(t, FacebookCredentials{}.Configured())
	assert.False(t, FacebookCredentials{AccessToken: "   "}.Configured())
	assert.True(t, FacebookCredentials{AccessToken: "t"}.Configured())

	assert.False(t, FacebookCredentials{AccessToken: "t", PageID: "demo-page-id"}.HasPage())
	assert.True(t, FacebookCredentials{AccessToken: "t", PageID: "123"}.HasPage())

	assert.False(t, InstagramCredentials{AccessToken: "t"}.Configured())
	assert.True(t, InstagramCredentials{AccessToken: "t", UserID: "u"}.Configured())

	assert.False(t, TwitterCredentials{APIKey: "a", APISecret: "b", AccessToken: "c"}.Configured())
	assert.True(t, TwitterCredentials{APIKey: "a", APISecret: "b", AccessToken: "c", AccessTokenSecret: "d"}.Configured())
}

func TestCredentialsFromConfig(t *testing.T) {
	creds := CredentialsFromConfig(config.SocialConfig{
		Facebook:  config.FacebookConfig{AccessToken: "fb", PageID: "p"},
		Twitter:   config.TwitterConfig{APIKey: "k", APISecret: "s", AccessToken: "t", AccessTokenSecret: "ts"},
		Instagram: config.InstagramConfig{AccessToken: "ig", UserID: "u"},
	})

	assert.Equal(t, FacebookCredentials{AccessToken: "fb", PageID: "p"}, creds.Facebook)
	assert.Equal(t, "ts", creds.Twitter.AccessTokenSecret)
	assert.Equal(t, "u", creds.Instagram.UserID)
}
