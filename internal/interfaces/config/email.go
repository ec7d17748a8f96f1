// Package config
package config

import (
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"gopkg.in/gomail.v2"
)

type EmailConfig struct {
	Host        string         `json:"host"`
	Port        int            `json:"port"`
	EmailServer *gomail.Dialer `json:"-"`
	Username    string         `json:"username"`
	Password    string         `json:"password"`
	Sender      string         `json:"sender"`
	Contact     string         `json:"contact"` // reply-to address shown in notification footers
}

func defaultEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:    "",
		Port:    465,
		Sender:  "pmp@vatger.de",
		Contact: "pmp@vatger.de",
	}
}

// An empty host leaves EmailServer nil and all notifications become
// logged no-ops. Workflows never depend on the channel being up.
func (config *EmailConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	envOverride(&config.Password, "PMP_SMTP_PASSWORD")
	if config.Host == "" {
		logger.Warn("smtp host not configured, email notifications disabled")
		return ValidPass()
	}
	config.EmailServer = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return ValidPass()
}
