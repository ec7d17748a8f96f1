// Package config
package config

import (
	"github.com/thanhpk/randstr"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
)

// GdprConfig holds the static bearer token guarding the data-subject
// export/erasure interface.
type GdprConfig struct {
	Token string `json:"token"`
}

func defaultGdprConfig() *GdprConfig {
	return &GdprConfig{}
}

func (config *GdprConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	envOverride(&config.Token, "PMP_GDPR_TOKEN")
	if config.Token == "" {
		config.Token = randstr.String(48)
		logger.Warn("gdpr token not configured, generated a random one for this run")
	}
	return ValidPass()
}
