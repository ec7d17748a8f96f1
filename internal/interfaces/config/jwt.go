// Package config
package config

import (
	"errors"
	"time"

	"github.com/thanhpk/randstr"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
)

type JWTConfig struct {
	Secret          string        `json:"secret"`
	ExpiresTime     string        `json:"expires_time"`
	ExpiresDuration time.Duration `json:"-"`
	RefreshTime     string        `json:"refresh_time"`
	RefreshDuration time.Duration `json:"-"`
}

func defaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:      randstr.String(64),
		ExpiresTime: "15m",
		RefreshTime: "24h",
	}
}

func (config *JWTConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if duration, err := time.ParseDuration(config.ExpiresTime); err != nil {
		return ValidFailWith(errors.New("invalid json field http_server.jwt.expires_time"), err)
	} else {
		config.ExpiresDuration = duration
	}

	if duration, err := time.ParseDuration(config.RefreshTime); err != nil {
		return ValidFailWith(errors.New("invalid json field http_server.jwt.refresh_time"), err)
	} else {
		config.RefreshDuration = duration
	}

	envOverride(&config.Secret, "PMP_JWT_SECRET")
	if config.Secret == "" {
		config.Secret = randstr.String(64)
		logger.Debug("Generated random JWT secret")
	}

	return ValidPass()
}
