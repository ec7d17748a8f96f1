// Package operation
package operation

import "slices"

// Role is the closed set of program roles. Every capability check in the
// http services goes through the predicates below instead of ad-hoc
// role-list literals.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleLeitung          Role = "PMP_LEITUNG"
	RolePruefer          Role = "PMP_PRUEFER"
	RoleMentor           Role = "MENTOR"
	RoleTrainee          Role = "TRAINEE"
	RolePendingTrainee   Role = "PENDING_TRAINEE"
	RoleCompletedTrainee Role = "COMPLETED_TRAINEE"
	RoleVisitor          Role = "VISITOR"
)

var AllRoles = []Role{
	RoleAdmin, RoleLeitung, RolePruefer, RoleMentor,
	RoleTrainee, RolePendingTrainee, RoleCompletedTrainee, RoleVisitor,
}

func (r Role) IsValid() bool {
	return slices.Contains(AllRoles, r)
}

// IsLeadership reports whether the role carries cross-cutting oversight
// permissions. Leadership implicitly satisfies any mentor or examiner
// relationship check.
func (r Role) IsLeadership() bool {
	return r == RoleAdmin || r == RoleLeitung
}

// IsMentorEligible reports whether the role may take on trainees.
func (r Role) IsMentorEligible() bool {
	return r == RoleMentor || r == RolePruefer || r.IsLeadership()
}

// IsExaminerEligible reports whether the role may own checkride
// availability slots and author assessments.
func (r Role) IsExaminerEligible() bool {
	return r == RolePruefer || r == RoleMentor || r.IsLeadership()
}

// CanGrant reports whether a holder of r may assign the target role to
// another user. Only ADMIN may hand out ADMIN.
func (r Role) CanGrant(target Role) bool {
	if !r.IsLeadership() {
		return false
	}
	if target == RoleAdmin {
		return r == RoleAdmin
	}
	return true
}

// User status values that force the visible role back to VISITOR.
const (
	StatusPausedMentor     = "Pausierter Mentor"
	StatusCancelledTrainee = "Cancelled Trainee"
	StatusCompletedTrainee = "Completed Trainee"
)

var visitorForcingStatuses = []string{StatusPausedMentor, StatusCancelledTrainee}

// StatusForcesVisitor reports whether setting the given free-text user
// status must demote the user's role to VISITOR.
func StatusForcesVisitor(status string) bool {
	return slices.Contains(visitorForcingStatuses, status)
}
