// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type InviteServiceInterface interface {
	// CreateInvite lets a mentor issue a single-use onboarding link for
	// a trainee who has not registered yet.
	CreateInvite(req *RequestCreateInvite) *ApiResponse[ResponseCreateInvite]
	// AcceptInvite validates token, expiry, single-use and cid match,
	// then materializes registration and training for the trainee.
	AcceptInvite(req *RequestAcceptInvite) *ApiResponse[ResponseAcceptInvite]
}

type RequestCreateInvite struct {
	JwtHeader
	TraineeCid  int    `json:"trainee_cid" validate:"required"`
	Email       string `json:"email"`
	Anmeldetext string `json:"anmeldetext" validate:"required"`
}

type ResponseCreateInvite struct {
	Invite *operation.MentorInvite `json:"invite"`
	URL    string                  `json:"url"`
}

type RequestAcceptInvite struct {
	JwtHeader
	Token string `param:"token"`
}

type ResponseAcceptInvite struct {
	Training *operation.Training `json:"training"`
}
