// Package global
package global

import "flag"

var (
	DebugMode      = flag.Bool("debug", false, "Enable debug mode")
	ConfigFilePath = flag.String("config", "./config.json", "Path to configuration file")
	EnvFilePath    = flag.String("env", "./.env", "Path to environment file with secret overrides")
)

const (
	AppVersion    = "1.2.0"
	ConfigVersion = "1.2.0"

	DefaultFilePermissions     = 0644
	DefaultDirectoryPermission = 0755
)
