// Package service
package service

import (
	"time"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

type AuthServiceInterface interface {
	// UserLogin authenticates a seeded staff account by email+password.
	UserLogin(req *RequestUserLogin) *ApiResponse[ResponseUserLogin]
	// GetAuthURL hands out the VATSIM Connect authorize URL with state.
	GetAuthURL(req *RequestAuthURL) *ApiResponse[ResponseAuthURL]
	// HandleCallback exchanges the OAuth code, finds or creates the user
	// by cid (first login lands as VISITOR) and issues tokens.
	HandleCallback(req *RequestAuthCallback) *ApiResponse[ResponseUserLogin]
	// GetCurrentProfile returns the session user.
	GetCurrentProfile(req *RequestCurrentProfile) *ApiResponse[ResponseCurrentProfile]
	// GetTokenWithFlushToken refreshes the access token.
	GetTokenWithFlushToken(req *RequestGetToken) *ApiResponse[ResponseGetToken]
}

type RequestUserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResponseUserLogin struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestAuthURL struct {
	State string `query:"state"`
}

type ResponseAuthURL struct {
	URL string `json:"url"`
}

type RequestAuthCallback struct {
	Code  string `query:"code"`
	State string `query:"state"`
}

type RequestCurrentProfile struct {
	Uid uint
}

type ResponseCurrentProfile operation.User

type RequestGetToken struct {
	JwtHeader
	FlushToken bool
	ExpiresAt  time.Time
}

type ResponseGetToken struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}
