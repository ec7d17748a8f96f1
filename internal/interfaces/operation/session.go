// Package operation
package operation

import "errors"

var (
	ErrSessionNotFound = errors.New("training session does not exist")
	// ErrSessionReleased guards the one-way release gate.
	ErrSessionReleased = errors.New("training session already released")
)

type SessionOperationInterface interface {
	// GetSessionByID fetches a session with topics preloaded.
	GetSessionByID(id uint) (session *TrainingSession, err error)
	// GetSessionsByTraining lists sessions for a training, newest first.
	// Draft sessions are excluded unless includeDrafts is set.
	GetSessionsByTraining(trainingID uint, includeDrafts bool) (sessions []*TrainingSession, err error)
	// CreateSession persists a new session with its topic rows.
	CreateSession(session *TrainingSession) (err error)
	// ReplaceSession overwrites date, lesson type, comments and draft
	// flag and swaps the topic rows (delete then recreate) in one
	// transaction.
	ReplaceSession(sessionID uint, session *TrainingSession) (err error)
	// ReleaseSession flips a draft to released and stamps ReleasedAt.
	// Fails with ErrSessionReleased when already released.
	ReleaseSession(sessionID uint) (session *TrainingSession, err error)
	// DeleteSession removes a session and its topics.
	DeleteSession(sessionID uint) (err error)
}
