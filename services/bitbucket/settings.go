package bitbucket

import (
	"fmt"
	"strings"
)

const DefaultAuthUrl = "https://bitbucket.org/site/oauth2/access_token"

type Settings struct {
	Endpoint string `mapstructure:"endpoint"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	AuthUrl  string `mapstructure:"auth-url"`
}

// WithFallback returns a copy of s where every empty field is taken from fallback.
func (s Settings) WithFallback(fallback Settings) Settings {
	if s.Endpoint == "" {
		s.Endpoint = fallback.Endpoint
	}
	if s.Username == "" {
		s.Username = fallback.Username
	}
	if s.Password == "" {
		s.Password = fallback.Password
	}
	if s.AuthUrl == "" {
		s.AuthUrl = fallback.AuthUrl
	}
	return s
}

func (s Settings) GetAuthUrl() string {
	if s.AuthUrl == "" {
		return DefaultAuthUrl
	}
	return s.AuthUrl
}

func (s Settings) Validate() error {
	var missing []string
	if s.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if s.Username == "" {
		missing = append(missing, "username")
	}
	if s.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(missing, ", "))
	}
	return nil
}
