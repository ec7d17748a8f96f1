// Package config
package config

import (
	"fmt"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
)

type HttpServerConfig struct {
	Host          string           `json:"host"`
	Port          uint             `json:"port"`
	Address       string           `json:"-"`
	ServerAddress string           `json:"server_address"` // public base URL, used in invite links
	ProxyType     int              `json:"proxy_type"`
	BodyLimit     string           `json:"body_limit"`
	Limits        *HttpServerLimit `json:"limits"`
	JWT           *JWTConfig       `json:"jwt"`
	Email         *EmailConfig     `json:"email"`
	OAuth         *OAuthConfig     `json:"oauth"`
	Gdpr          *GdprConfig      `json:"gdpr"`
}

func defaultHttpServerConfig() *HttpServerConfig {
	return &HttpServerConfig{
		Host:          "0.0.0.0",
		Port:          6810,
		ServerAddress: "http://127.0.0.1:6810",
		ProxyType:     0,
		BodyLimit:     "1MB",
		Limits:        defaultHttpServerLimit(),
		JWT:           defaultJWTConfig(),
		Email:         defaultEmailConfig(),
		OAuth:         defaultOAuthConfig(),
		Gdpr:          defaultGdprConfig(),
	}
}

func (config *HttpServerConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if result := checkPort(config.Port); result.IsFail() {
		return result
	}

	config.Address = fmt.Sprintf("%s:%d", config.Host, config.Port)

	if config.BodyLimit == "" {
		logger.Warn("body_limit is empty, request body length is not restricted")
	}

	if result := config.Limits.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.JWT.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Email.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.OAuth.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Gdpr.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}
