// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type CheckrideServiceInterface interface {
	// CreateAvailability opens a fixed two-hour examiner slot.
	CreateAvailability(req *RequestCreateAvailability) *ApiResponse[ResponseAvailability]
	// ListAvailabilities lists slots; examiners see their own, trainees
	// the open ones. Runs the stale-data purge first.
	ListAvailabilities(req *RequestListAvailabilities) *ApiResponse[ResponseAvailabilityList]
	// DeleteAvailability withdraws an unbooked slot. Examiners may only
	// withdraw their own.
	DeleteAvailability(req *RequestDeleteAvailability) *ApiResponse[ResponseDeleteAvailability]
	// BookCheckride books a ready training onto an open slot.
	BookCheckride(req *RequestBookCheckride) *ApiResponse[ResponseCheckride]
	// ListCheckrides lists checkrides for examiners and leadership.
	// Runs the stale-data purge first.
	ListCheckrides(req *RequestListCheckrides) *ApiResponse[ResponseCheckrideList]
	// GetAssessment fetches a checkride with its assessment.
	GetAssessment(req *RequestGetAssessment) *ApiResponse[ResponseCheckride]
	// SaveAssessment upserts the assessment, optionally releasing or
	// un-releasing it, with pass/fail side effects on release.
	SaveAssessment(req *RequestSaveAssessment) *ApiResponse[ResponseCheckride]
	// CancelCheckride drops an INCOMPLETE checkride, freeing its slot.
	CancelCheckride(req *RequestCancelCheckride) *ApiResponse[ResponseCancelCheckride]
}

type RequestCreateAvailability struct {
	JwtHeader
	StartTime string `json:"start_time" validate:"required"` // RFC 3339
}

type ResponseAvailability operation.CheckrideAvailability

type RequestListAvailabilities struct {
	JwtHeader
}

type ResponseAvailabilityList struct {
	Items []*operation.CheckrideAvailability `json:"items"`
}

type RequestDeleteAvailability struct {
	JwtHeader
	AvailabilityID uint `param:"id"`
}

type ResponseDeleteAvailability struct {
	Deleted bool `json:"deleted"`
}

type RequestBookCheckride struct {
	JwtHeader
	TrainingID     uint `json:"training_id"`
	AvailabilityID uint `json:"availability_id"`
}

type ResponseCheckride operation.Checkride

type RequestListCheckrides struct {
	JwtHeader
}

type ResponseCheckrideList struct {
	Items []*operation.Checkride `json:"items"`
}

type RequestGetAssessment struct {
	JwtHeader
	CheckrideID uint `param:"id"`
}

type RequestSaveAssessment struct {
	JwtHeader
	CheckrideID    uint                      `param:"id"`
	FlightPlanning string                    `json:"flight_planning"`
	Airmanship     string                    `json:"airmanship"`
	Communication  string                    `json:"communication"`
	Procedures     string                    `json:"procedures"`
	OverallResult  operation.CheckrideResult `json:"overall_result"`
	ExaminerNotes  string                    `json:"examiner_notes"`
	// Release nil leaves the draft flag alone; true releases, false
	// explicitly reverts to draft.
	Release *bool `json:"release"`
}

type RequestCancelCheckride struct {
	JwtHeader
	CheckrideID uint `param:"id"`
}

type ResponseCancelCheckride struct {
	Cancelled bool `json:"cancelled"`
}
