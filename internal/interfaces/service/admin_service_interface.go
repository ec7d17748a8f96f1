// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type AdminServiceInterface interface {
	// GetUsers returns one page of users for the leadership views.
	GetUsers(req *RequestUserList) *ApiResponse[ResponseUserList]
	// EditUserRole reassigns a role; only ADMIN may hand out ADMIN.
	EditUserRole(req *RequestEditUserRole) *ApiResponse[ResponseUser]
	// EditUserStatus sets the free-text user status; some statuses force
	// the role back to VISITOR.
	EditUserStatus(req *RequestEditUserStatus) *ApiResponse[ResponseUser]
	// GetCoverageReport aggregates curriculum coverage over every active
	// training for the leadership tracking view.
	GetCoverageReport(req *RequestCoverageReport) *ApiResponse[ResponseCoverageReport]
}

type RequestUserList struct {
	JwtHeader
	Page     int `query:"page_number"`
	PageSize int `query:"page_size"`
	// RoleFilter narrows the list to one role; paging is skipped then.
	RoleFilter operation.Role `query:"role"`
}

type ResponseUserList struct {
	Items    []*operation.User `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
}

type ResponseUser operation.User

type RequestEditUserRole struct {
	JwtHeader
	TargetUid uint           `param:"uid"`
	Role      operation.Role `json:"role"`
}

type RequestEditUserStatus struct {
	JwtHeader
	TargetUid uint   `param:"uid"`
	Status    string `json:"status"`
}

type RequestCoverageReport struct {
	JwtHeader
}

type TrainingCoverage struct {
	TrainingID uint    `json:"training_id"`
	TraineeID  uint    `json:"trainee_id"`
	Earned     float64 `json:"earned"`
	Possible   float64 `json:"possible"`
}

type ResponseCoverageReport struct {
	Items []*TrainingCoverage `json:"items"`
}
