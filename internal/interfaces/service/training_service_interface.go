// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type TrainingServiceInterface interface {
	// AssignTrainee pairs the requesting mentor with a pending trainee,
	// creating or reusing a training.
	AssignTrainee(req *RequestAssignTrainee) *ApiResponse[ResponseTraining]
	// AddCoMentor attaches a further mentor, capped at three.
	AddCoMentor(req *RequestAddCoMentor) *ApiResponse[ResponseTraining]
	// DropMentor removes one mentor from the training.
	DropMentor(req *RequestDropMentor) *ApiResponse[ResponseTraining]
	// DropTraining deletes the whole training with everything attached.
	DropTraining(req *RequestDropTraining) *ApiResponse[ResponseDropTraining]
	// GetTraining fetches one training; trainees only see their own.
	GetTraining(req *RequestGetTraining) *ApiResponse[ResponseTraining]
	// GetTrainings lists trainings for mentors and leadership.
	GetTrainings(req *RequestTrainingList) *ApiResponse[ResponseTrainingList]
	// CancelTraining moves a training to ABGEBROCHEN pending review.
	CancelTraining(req *RequestCancelTraining) *ApiResponse[ResponseTraining]
	// ReviewCancellation lets leadership delete or reactivate a
	// cancelled training.
	ReviewCancellation(req *RequestReviewCancellation) *ApiResponse[ResponseReviewCancellation]
	// SetReadiness toggles the ready-for-checkride flag.
	SetReadiness(req *RequestSetReadiness) *ApiResponse[ResponseTraining]
}

type RequestAssignTrainee struct {
	JwtHeader
	TraineeID uint `json:"trainee_id"`
}

type ResponseTraining operation.Training

type RequestAddCoMentor struct {
	JwtHeader
	TrainingID uint `param:"id"`
	MentorID   uint `json:"mentor_id"`
}

type RequestDropMentor struct {
	JwtHeader
	TrainingID uint `param:"id"`
	MentorID   uint `param:"mentor_id"`
}

type RequestDropTraining struct {
	JwtHeader
	TrainingID uint `param:"id"`
}

type ResponseDropTraining struct {
	Deleted bool `json:"deleted"`
}

type RequestGetTraining struct {
	JwtHeader
	TrainingID uint `param:"id"`
}

type RequestTrainingList struct {
	JwtHeader
	Page     int `query:"page_number"`
	PageSize int `query:"page_size"`
}

type ResponseTrainingList struct {
	Items    []*operation.Training `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Total    int64                 `json:"total"`
}

type RequestCancelTraining struct {
	JwtHeader
	TrainingID uint   `param:"id"`
	Reason     string `json:"reason" validate:"required"`
}

// CancellationAction is the leadership decision on a cancelled training.
type CancellationAction string

const (
	CancellationDelete     CancellationAction = "delete"
	CancellationReactivate CancellationAction = "reactivate"
)

type RequestReviewCancellation struct {
	JwtHeader
	TrainingID uint               `param:"id"`
	Action     CancellationAction `json:"action"`
}

type ResponseReviewCancellation struct {
	Action CancellationAction `json:"action"`
}

type RequestSetReadiness struct {
	JwtHeader
	TrainingID  uint   `param:"id"`
	Ready       bool   `json:"ready"`
	RequestText string `json:"request_text"`
}
