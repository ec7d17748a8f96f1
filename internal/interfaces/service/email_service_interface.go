// Package service
package service

import "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"

// EmailServiceInterface is the outbound notification channel. Every send
// is best effort: callers log failures and never roll back the workflow
// step that triggered the mail.
type EmailServiceInterface interface {
	SendAssignmentEmail(trainee *operation.User, mentor *operation.User) error
	SendInviteEmail(address string, invite *operation.MentorInvite, url string) error
	SendSessionReleasedEmail(trainee *operation.User, session *operation.TrainingSession) error
	SendCheckrideResultEmail(trainee *operation.User, checkride *operation.Checkride) error
	SendCancellationReviewedEmail(trainee *operation.User, action string) error
}
