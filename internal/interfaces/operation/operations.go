// Package operation
package operation

type DatabaseOperations struct {
	userOperation         UserOperationInterface
	registrationOperation RegistrationOperationInterface
	trainingOperation     TrainingOperationInterface
	sessionOperation      SessionOperationInterface
	checkrideOperation    CheckrideOperationInterface
	inviteOperation       InviteOperationInterface
}

func NewDatabaseOperations(
	userOperation UserOperationInterface,
	registrationOperation RegistrationOperationInterface,
	trainingOperation TrainingOperationInterface,
	sessionOperation SessionOperationInterface,
	checkrideOperation CheckrideOperationInterface,
	inviteOperation InviteOperationInterface,
) *DatabaseOperations {
	return &DatabaseOperations{
		userOperation:         userOperation,
		registrationOperation: registrationOperation,
		trainingOperation:     trainingOperation,
		sessionOperation:      sessionOperation,
		checkrideOperation:    checkrideOperation,
		inviteOperation:       inviteOperation,
	}
}

func (db *DatabaseOperations) UserOperation() UserOperationInterface { return db.userOperation }

func (db *DatabaseOperations) RegistrationOperation() RegistrationOperationInterface {
	return db.registrationOperation
}

func (db *DatabaseOperations) TrainingOperation() TrainingOperationInterface {
	return db.trainingOperation
}

func (db *DatabaseOperations) SessionOperation() SessionOperationInterface {
	return db.sessionOperation
}

func (db *DatabaseOperations) CheckrideOperation() CheckrideOperationInterface {
	return db.checkrideOperation
}

func (db *DatabaseOperations) InviteOperation() InviteOperationInterface {
	return db.inviteOperation
}
