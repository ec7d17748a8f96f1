// Package operation
package operation

import "errors"

var (
	ErrRegistrationNotFound = errors.New("registration does not exist")
	// ErrRegistrationActive means a non-completed registration already
	// exists for the cid; intake must not create a duplicate.
	ErrRegistrationActive = errors.New("active registration exists")
)

type RegistrationOperationInterface interface {
	// GetRegistrationByCid fetches the registration keyed by cid.
	GetRegistrationByCid(cid int) (registration *Registration, err error)
	// GetRegistrations returns one page of registrations plus the total.
	GetRegistrations(page, pageSize int) (registrations []*Registration, total int64, err error)
	// UpsertRegistration creates or replaces the intake record for the
	// cid. Fails with ErrRegistrationActive while a pending registration
	// exists; a completed one is reopened as pending.
	UpsertRegistration(registration *Registration) (err error)
	// CompleteRegistration flips the registration status to completed.
	CompleteRegistration(cid int) (err error)
	// DeleteRegistrationByCid removes the intake record, part of erasure.
	DeleteRegistrationByCid(cid int) (err error)
}
