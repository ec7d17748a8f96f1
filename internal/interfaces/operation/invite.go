// Package operation
package operation

import "errors"

var (
	ErrInviteNotFound = errors.New("invite does not exist")
	// ErrInviteExpired means the invite's 72h window has passed.
	ErrInviteExpired = errors.New("invite expired")
	// ErrInviteUsed enforces single use.
	ErrInviteUsed = errors.New("invite already used")
)

type InviteOperationInterface interface {
	// CreateInvite persists a new invite with a fresh random token and
	// an expiry of MentorInviteTTL from now.
	CreateInvite(mentorID uint, traineeCid int, anmeldetext string) (invite *MentorInvite, err error)
	// GetInviteByToken fetches an invite by its token.
	GetInviteByToken(token string) (invite *MentorInvite, err error)
	// ConsumeInvite marks the invite used, failing when it is expired or
	// already used. The check-and-mark runs in one transaction.
	ConsumeInvite(token string) (invite *MentorInvite, err error)
	// DeleteInvitesByCid removes all invites addressed to the cid,
	// part of erasure.
	DeleteInvitesByCid(cid int) (err error)
}
