// Package service
package service

import (
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

// Policy bundles the access checks every workflow service needs. Role
// predicates come from the token; relationship checks go back to the
// database so a stale token never widens access.
type Policy struct {
	trainingOperation  operation.TrainingOperationInterface
	checkrideOperation operation.CheckrideOperationInterface
}

func NewPolicy(
	trainingOperation operation.TrainingOperationInterface,
	checkrideOperation operation.CheckrideOperationInterface,
) *Policy {
	return &Policy{
		trainingOperation:  trainingOperation,
		checkrideOperation: checkrideOperation,
	}
}

func (policy *Policy) IsLeadership(role operation.Role) bool {
	return role.IsLeadership()
}

func (policy *Policy) IsMentorEligible(role operation.Role) bool {
	return role.IsMentorEligible()
}

func (policy *Policy) IsExaminerEligible(role operation.Role) bool {
	return role.IsExaminerEligible()
}

// IsMentorOfTraining reports whether uid is attached to the training as
// a mentor.
func (policy *Policy) IsMentorOfTraining(training *operation.Training, uid uint) bool {
	for _, mentor := range training.Mentors {
		if mentor.MentorID == uid {
			return true
		}
	}
	return false
}

// CanManageTraining allows leadership and attached mentors.
func (policy *Policy) CanManageTraining(training *operation.Training, uid uint, role operation.Role) bool {
	if role.IsLeadership() {
		return true
	}
	return role.IsMentorEligible() && policy.IsMentorOfTraining(training, uid)
}

// CanViewTraining additionally allows the trainee to see their own
// training, and any examiner with a planned checkride on it.
func (policy *Policy) CanViewTraining(training *operation.Training, uid uint, role operation.Role) bool {
	if policy.CanManageTraining(training, uid, role) {
		return true
	}
	if training.TraineeID == uid {
		return true
	}
	if role.IsExaminerEligible() {
		planned, err := policy.checkrideOperation.HasPlannedCheckride(training.ID, uid)
		return err == nil && planned
	}
	return false
}

// CanViewDraftSessions widens draft visibility beyond the managing
// mentors to an examiner holding a planned checkride on the training,
// who needs the full picture before the ride.
func (policy *Policy) CanViewDraftSessions(training *operation.Training, uid uint, role operation.Role) bool {
	if policy.CanManageTraining(training, uid, role) {
		return true
	}
	if role.IsExaminerEligible() {
		planned, err := policy.checkrideOperation.HasPlannedCheckride(training.ID, uid)
		return err == nil && planned
	}
	return false
}

// CanViewCheckride allows leadership, the slot's examiner and the
// trainee who booked it.
func (policy *Policy) CanViewCheckride(checkride *operation.Checkride, uid uint, role operation.Role) bool {
	if role.IsLeadership() {
		return true
	}
	if checkride.TraineeID == uid {
		return true
	}
	return checkride.Availability != nil && checkride.Availability.ExaminerID == uid
}

// CanAssessCheckride restricts assessment writes to leadership and the
// slot's own examiner.
func (policy *Policy) CanAssessCheckride(checkride *operation.Checkride, uid uint, role operation.Role) bool {
	if role.IsLeadership() {
		return true
	}
	if !role.IsExaminerEligible() {
		return false
	}
	return checkride.Availability != nil && checkride.Availability.ExaminerID == uid
}
