// Package config
package config

import (
	"errors"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"golang.org/x/oauth2"
)

// OAuthConfig describes the VATSIM Connect endpoint the login flow
// authenticates against.
type OAuthConfig struct {
	Enabled      bool   `json:"enabled"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AuthURL      string `json:"auth_url"`
	TokenURL     string `json:"token_url"`
	UserInfoURL  string `json:"user_info_url"`
	RedirectURL  string `json:"redirect_url"`

	Endpoint *oauth2.Config `json:"-"`
}

func defaultOAuthConfig() *OAuthConfig {
	return &OAuthConfig{
		Enabled:     false,
		AuthURL:     "https://auth.vatsim.net/oauth/authorize",
		TokenURL:    "https://auth.vatsim.net/oauth/token",
		UserInfoURL: "https://auth.vatsim.net/api/user",
	}
}

func (config *OAuthConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	envOverride(&config.ClientSecret, "PMP_OAUTH_CLIENT_SECRET")
	if !config.Enabled {
		return ValidPass()
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return ValidFail(errors.New("oauth enabled but client_id or client_secret missing"))
	}
	if config.RedirectURL == "" {
		return ValidFail(errors.New("oauth enabled but redirect_url missing"))
	}
	config.Endpoint = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       []string{"full_name", "vatsim_details", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  config.AuthURL,
			TokenURL: config.TokenURL,
		},
	}
	return ValidPass()
}
