// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

type SessionServiceInterface interface {
	// LogSession records a new training session with its topics.
	LogSession(req *RequestLogSession) *ApiResponse[ResponseSession]
	// UpdateSession fully replaces an existing session's topics and
	// metadata while it is editable.
	UpdateSession(req *RequestUpdateSession) *ApiResponse[ResponseSession]
	// ReleaseSession flips a draft to released, a one-way gate.
	ReleaseSession(req *RequestReleaseSession) *ApiResponse[ResponseSession]
	// DeleteSession discards a draft session. Released sessions are
	// immutable and cannot be deleted.
	DeleteSession(req *RequestDeleteSession) *ApiResponse[ResponseDeleteSession]
	// ListSessions lists a training's sessions, drafts filtered out for
	// the trainee.
	ListSessions(req *RequestListSessions) *ApiResponse[ResponseSessionList]
	// GetProgress aggregates curriculum coverage for a training.
	GetProgress(req *RequestGetProgress) *ApiResponse[ResponseProgress]
}

type TopicEntry struct {
	Topic           string `json:"topic" validate:"required"`
	TheoryCovered   bool   `json:"theory_covered"`
	PracticeCovered bool   `json:"practice_covered"`
	Comment         string `json:"comment"`
	Order           int    `json:"order"`
}

type RequestLogSession struct {
	JwtHeader
	TrainingID  uint         `param:"id"`
	LessonType  string       `json:"lesson_type" validate:"required"`
	SessionDate string       `json:"session_date" validate:"required"` // RFC 3339
	Comments    string       `json:"comments"`
	IsDraft     *bool        `json:"is_draft"` // nil defaults to true
	Topics      []TopicEntry `json:"topics" validate:"dive"`
}

type ResponseSession operation.TrainingSession

type RequestUpdateSession struct {
	JwtHeader
	TrainingID uint `param:"id"`
	SessionID  uint `param:"sid"`
	RequestLogSession
}

type RequestReleaseSession struct {
	JwtHeader
	TrainingID uint `param:"id"`
	SessionID  uint `param:"sid"`
}

type RequestDeleteSession struct {
	JwtHeader
	TrainingID uint `param:"id"`
	SessionID  uint `param:"sid"`
}

type ResponseDeleteSession struct {
	Deleted bool `json:"deleted"`
}

type RequestListSessions struct {
	JwtHeader
	TrainingID uint `param:"id"`
}

type ResponseSessionList struct {
	Items []*operation.TrainingSession `json:"items"`
}

type RequestGetProgress struct {
	JwtHeader
	TrainingID uint `param:"id"`
	// IncludeDrafts widens the aggregation to draft sessions, honored
	// for mentors, leadership and an examiner with a planned checkride.
	IncludeDrafts bool `query:"include_drafts"`
}

type ResponseProgress struct {
	Topics   []*operation.TopicProgress `json:"topics"`
	Earned   float64                    `json:"earned"`
	Possible float64                    `json:"possible"`
}
