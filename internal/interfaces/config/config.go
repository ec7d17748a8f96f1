// Package config
package config

import (
	"errors"
	"fmt"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
)

type Config struct {
	ConfigVersion string          `json:"config_version"`
	HttpServer    *HttpServerConfig `json:"http_server"`
	Database      *DatabaseConfig   `json:"database"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigVersion: ConfVersion.String(),
		HttpServer:    defaultHttpServerConfig(),
		Database:      defaultDatabaseConfig(),
	}
}

func (c *Config) CheckValid(logger log.LoggerInterface) *ValidResult {
	if version, err := newVersion(c.ConfigVersion); err != nil {
		return ValidFailWith(errors.New("version string parse fail"), err)
	} else if result := ConfVersion.checkVersion(version); result != AllMatch {
		return ValidFail(fmt.Errorf("config version mismatch, expected %s, got %s", ConfVersion.String(), version.String()))
	}
	if result := c.Database.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.HttpServer.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}
