// Package interfaces
package interfaces

import (
	"github.com/vatger-pmp/pmp-server/internal/interfaces/config"
)

type ConfigManagerInterface interface {
	Config() *config.Config
	SaveConfig() error
}
