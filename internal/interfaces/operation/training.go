// Package operation
package operation

import "errors"

var (
	ErrTrainingNotFound = errors.New("training does not exist")
	// ErrAlreadyAssigned means the trainee already has a mentored,
	// non-cancelled training.
	ErrAlreadyAssigned = errors.New("trainee already assigned")
	// ErrMentorCap means the training already carries the maximum number
	// of mentors.
	ErrMentorCap = errors.New("mentor limit reached")
	// ErrMentorAttached means this mentor is already on the training.
	ErrMentorAttached = errors.New("mentor already attached")
	// ErrMentorNotAttached means the mentor row to remove does not exist.
	ErrMentorNotAttached = errors.New("mentor not attached")
	// ErrTrainingNotActive guards transitions that require ACTIVE status.
	ErrTrainingNotActive = errors.New("training is not active")
)

// AssignOutcome tells the caller whether assignment created a fresh
// training or reattached a mentor to an orphaned one.
type AssignOutcome int

const (
	AssignCreated AssignOutcome = iota
	AssignReusedOrphan
)

// TrainingOperationInterface is the persistence seam for the training
// aggregate. Multi-step transitions run inside one locking transaction.
type TrainingOperationInterface interface {
	// GetTrainingByID fetches a training with its mentor rows preloaded.
	GetTrainingByID(id uint) (training *Training, err error)
	// GetNonCancelledByTrainee fetches the trainee's current ACTIVE or
	// COMPLETED training, ErrTrainingNotFound when none exists.
	GetNonCancelledByTrainee(traineeID uint) (training *Training, err error)
	// GetTrainings returns one page of trainings plus the total.
	GetTrainings(page, pageSize int) (trainings []*Training, total int64, err error)
	// GetTrainingsByMentor returns every training the mentor is attached to.
	GetTrainingsByMentor(mentorID uint) (trainings []*Training, err error)
	// AssignMentor creates a training for the trainee with the mentor
	// attached, or reuses an existing mentorless training. Fails with
	// ErrAlreadyAssigned when a mentored non-cancelled training exists.
	AssignMentor(traineeID, mentorID uint) (training *Training, outcome AssignOutcome, err error)
	// AddMentor attaches a further mentor, enforcing the cap and
	// duplicate check inside the transaction.
	AddMentor(trainingID, mentorID uint) (err error)
	// RemoveMentor detaches a single mentor row.
	RemoveMentor(trainingID, mentorID uint) (err error)
	// DeleteTraining removes the training and all dependent rows
	// (mentor links, sessions, topics, checkrides, assessments).
	DeleteTraining(trainingID uint) (err error)
	// CancelTraining moves ACTIVE to ABGEBROCHEN storing reason and time.
	CancelTraining(trainingID uint, reason string) (err error)
	// SetReadiness toggles the checkride readiness flag. ready=true
	// stores the mentor's request text and timestamp, ready=false clears
	// both.
	SetReadiness(trainingID uint, ready bool, requestText string) (err error)
	// CompleteTraining marks the training COMPLETED.
	CompleteTraining(trainingID uint) (err error)
}
