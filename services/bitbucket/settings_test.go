package bitbucket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsWithFallback(t *testing.T) {
	settings := Settings{Endpoint: "https://api.bitbucket.org", Username: "flag-user"}
	fallback := Settings{
		Endpoint: "https://other.example.com",
		Username: "file-user",
		Password: "file-secret",
		AuthUrl:  "https://auth.example.com/token",
	}

	merged := settings.WithFallback(fallback)

	assert.Equal(t, Settings{
		Endpoint: "https://api.bitbucket.org",
		Username: "flag-user",
		Password: "file-secret",
		AuthUrl:  "https://auth.example.com/token",
	}, merged)
	assert.Empty(t, settings.Password, "receiver must not be modified")
}

func TestSettingsGetAuthUrl(t *testing.T) {
	assert.Equal(t, DefaultAuthUrl, Settings{}.GetAuthUrl())
	assert.Equal(t, "http://127.0.0.1/token", Settings{AuthUrl: "http://127.0.0.1/token"}.GetAuthUrl())
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, Settings{Endpoint: "https://api.bitbucket.org", Username: "u", Password: "p"}.Validate())

	err := Settings{Username: "u"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSettings))
	assert.Contains(t, err.Error(), "endpoint")
	assert.Contains(t, err.Error(), "password")
	assert.NotContains(t, err.Error(), "username")
}
