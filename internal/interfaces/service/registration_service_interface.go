// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type RegistrationServiceInterface interface {
	// SubmitRegistration validates the intake form, upserts the
	// registration keyed by cid and promotes VISITOR to PENDING_TRAINEE.
	SubmitRegistration(req *RequestSubmitRegistration) *ApiResponse[ResponseSubmitRegistration]
	// GetRegistrations lists intake records for mentors and leadership.
	GetRegistrations(req *RequestRegistrationList) *ApiResponse[ResponseRegistrationList]
	// DeclineRegistration drops an intake record and demotes a pending
	// trainee back to VISITOR.
	DeclineRegistration(req *RequestDeclineRegistration) *ApiResponse[ResponseDeclineRegistration]
}

type RequestSubmitRegistration struct {
	JwtHeader
	Simulator   string `json:"simulator" validate:"required"`
	Aircraft    string `json:"aircraft" validate:"required"`
	PilotClient string `json:"pilot_client" validate:"required"`
	Experience  string `json:"experience" validate:"required"`
	Schedule    string `json:"schedule" validate:"required"`
	Remarks     string `json:"remarks"`
}

type ResponseSubmitRegistration operation.Registration

type RequestRegistrationList struct {
	JwtHeader
	Page     int `query:"page_number"`
	PageSize int `query:"page_size"`
}

type RequestDeclineRegistration struct {
	JwtHeader
	Cid int `param:"cid"`
}

type ResponseDeclineRegistration struct {
	Declined bool `json:"declined"`
}

type ResponseRegistrationList struct {
	Items    []*operation.Registration `json:"items"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Total    int64                     `json:"total"`
}
