// Package operation
package operation

import "errors"

var (
	ErrUserNotFound   = errors.New("user does not exist")
	ErrCidTaken       = errors.New("cid already registered")
	ErrPasswordEncode = errors.New("password encode error")
)

// UserOperationInterface is the persistence seam for the user aggregate.
type UserOperationInterface interface {
	// GetUserByUid fetches a user by primary key.
	GetUserByUid(uid uint) (user *User, err error)
	// GetUserByCid fetches a user by VATSIM cid.
	GetUserByCid(cid int) (user *User, err error)
	// GetUserByEmail fetches a user by email, used for staff password login.
	GetUserByEmail(email string) (user *User, err error)
	// GetUsers returns one page of users plus the unpaged total.
	GetUsers(page, pageSize int) (users []*User, total int64, err error)
	// GetUsersByRole returns every user currently holding the given role.
	GetUsersByRole(role Role) (users []*User, err error)
	// NewUser builds an unsaved user record. password may be empty for
	// OAuth-only accounts.
	NewUser(cid int, name string, email string, password string) (user *User, err error)
	// AddUser persists a new user after checking the cid is free.
	AddUser(user *User) (err error)
	// UpdateUserRole sets the role column.
	UpdateUserRole(user *User, role Role) (err error)
	// UpdateUserStatus sets the free-text status and, where the status
	// demands it, forces the role to VISITOR in the same transaction.
	UpdateUserStatus(user *User, status string) (err error)
	// VerifyUserPassword checks a staff password against its bcrypt hash.
	VerifyUserPassword(user *User, password string) (pass bool)
	// EraseUser removes the user and every row that references them:
	// registrations, trainings with mentors/sessions/topics, checkrides
	// with assessments, availability slots and invites. One transaction.
	EraseUser(cid int) (err error)
}
