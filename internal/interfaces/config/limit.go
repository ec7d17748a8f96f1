// Package config
package config

import (
	"errors"
	"time"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
)

type HttpServerLimit struct {
	RateLimit             int           `json:"rate_limit"`
	RateLimitTime         string        `json:"rate_limit_time"`
	RateLimitDuration     time.Duration `json:"-"`
	UsernameLengthMin     int           `json:"username_length_min"`
	UsernameLengthMax     int           `json:"username_length_max"`
	PasswordLengthMin     int           `json:"password_length_min"`
	PasswordLengthMax     int           `json:"password_length_max"`
	CidMin                int           `json:"cid_min"`
	CidMax                int           `json:"cid_max"`
}

func defaultHttpServerLimit() *HttpServerLimit {
	return &HttpServerLimit{
		RateLimit:         15,
		RateLimitTime:     "1m",
		UsernameLengthMin: 2,
		UsernameLengthMax: 64,
		PasswordLengthMin: 8,
		PasswordLengthMax: 64,
		CidMin:            100000,
		CidMax:            9999999,
	}
}

func (config *HttpServerLimit) checkValid(_ log.LoggerInterface) *ValidResult {
	if duration, err := time.ParseDuration(config.RateLimitTime); err != nil {
		return ValidFailWith(errors.New("invalid json field http_server.limits.rate_limit_time"), err)
	} else {
		config.RateLimitDuration = duration
	}
	return ValidPass()
}
