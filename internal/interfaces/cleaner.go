// Package interfaces
package interfaces

import (
	"github.com/vatger-pmp/pmp-server/internal/interfaces/global"
)

type CleanerInterface interface {
	Init()
	Add(callable global.Callable)
	Clean()
}
