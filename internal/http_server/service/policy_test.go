// Package service
package service

import (
	"testing"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

func TestCanManageTraining(t *testing.T) {
	policy := NewPolicy(nil, nil)
	training := &operation.Training{
		ID:        1,
		TraineeID: 10,
		Mentors: []*operation.TrainingMentor{
			{TrainingID: 1, MentorID: 20},
		},
	}

	tests := []struct {
		name     string
		uid      uint
		role     operation.Role
		expected bool
	}{
		{"leadership without attachment", 99, operation.RoleLeitung, true},
		{"admin without attachment", 99, operation.RoleAdmin, true},
		{"attached mentor", 20, operation.RoleMentor, true},
		{"attached examiner", 20, operation.RolePruefer, true},
		{"unattached mentor", 21, operation.RoleMentor, false},
		{"trainee themselves", 10, operation.RoleTrainee, false},
		{"attached uid without mentor role", 20, operation.RoleTrainee, false},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := policy.CanManageTraining(training, test.uid, test.role)
		if result != test.expected {
			fail++
			t.Errorf("%s: CanManageTraining = %v; expected %v", test.name, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestCanManageTraining: %d pass, %d fail", pass, fail)
}

type plannedCheckrideStub struct {
	operation.CheckrideOperationInterface
	planned map[uint]bool
}

func (stub *plannedCheckrideStub) HasPlannedCheckride(_ uint, examinerID uint) (bool, error) {
	return stub.planned[examinerID], nil
}

func TestCanViewTraining(t *testing.T) {
	stub := &plannedCheckrideStub{planned: map[uint]bool{30: true}}
	policy := NewPolicy(nil, stub)
	training := &operation.Training{
		ID:        1,
		TraineeID: 10,
		Mentors: []*operation.TrainingMentor{
			{TrainingID: 1, MentorID: 20},
		},
	}

	tests := []struct {
		name     string
		uid      uint
		role     operation.Role
		expected bool
	}{
		{"trainee sees own training", 10, operation.RoleTrainee, true},
		{"attached mentor", 20, operation.RoleMentor, true},
		{"examiner with planned checkride", 30, operation.RolePruefer, true},
		{"examiner without planned checkride", 31, operation.RolePruefer, false},
		{"other trainee", 11, operation.RoleTrainee, false},
		{"visitor", 10, operation.RoleVisitor, true}, // uid match wins regardless of role
		{"unrelated visitor", 99, operation.RoleVisitor, false},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := policy.CanViewTraining(training, test.uid, test.role)
		if result != test.expected {
			fail++
			t.Errorf("%s: CanViewTraining = %v; expected %v", test.name, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestCanViewTraining: %d pass, %d fail", pass, fail)
}

func TestCanViewDraftSessions(t *testing.T) {
	stub := &plannedCheckrideStub{planned: map[uint]bool{30: true}}
	policy := NewPolicy(nil, stub)
	training := &operation.Training{
		ID:        1,
		TraineeID: 10,
		Mentors: []*operation.TrainingMentor{
			{TrainingID: 1, MentorID: 20},
		},
	}

	tests := []struct {
		name     string
		uid      uint
		role     operation.Role
		expected bool
	}{
		{"attached mentor", 20, operation.RoleMentor, true},
		{"leadership", 99, operation.RoleLeitung, true},
		{"examiner with planned checkride", 30, operation.RolePruefer, true},
		{"examiner without planned checkride", 31, operation.RolePruefer, false},
		{"trainee never sees drafts", 10, operation.RoleTrainee, false},
		{"planned uid without examiner role", 30, operation.RoleTrainee, false},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := policy.CanViewDraftSessions(training, test.uid, test.role)
		if result != test.expected {
			fail++
			t.Errorf("%s: CanViewDraftSessions = %v; expected %v", test.name, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestCanViewDraftSessions: %d pass, %d fail", pass, fail)
}

func TestCheckridePolicies(t *testing.T) {
	policy := NewPolicy(nil, nil)
	checkride := &operation.Checkride{
		ID:        1,
		TraineeID: 10,
		Availability: &operation.CheckrideAvailability{
			ID:         5,
			ExaminerID: 30,
		},
	}

	viewTests := []struct {
		name     string
		uid      uint
		role     operation.Role
		expected bool
	}{
		{"leadership", 99, operation.RoleLeitung, true},
		{"trainee", 10, operation.RoleTrainee, true},
		{"slot examiner", 30, operation.RolePruefer, true},
		{"other examiner", 31, operation.RolePruefer, false},
		{"unrelated trainee", 11, operation.RoleTrainee, false},
	}
	for _, test := range viewTests {
		if result := policy.CanViewCheckride(checkride, test.uid, test.role); result != test.expected {
			t.Errorf("%s: CanViewCheckride = %v; expected %v", test.name, result, test.expected)
		}
	}

	assessTests := []struct {
		name     string
		uid      uint
		role     operation.Role
		expected bool
	}{
		{"leadership", 99, operation.RoleAdmin, true},
		{"slot examiner", 30, operation.RolePruefer, true},
		{"trainee cannot assess own ride", 10, operation.RoleTrainee, false},
		{"slot uid without examiner role", 30, operation.RoleTrainee, false},
		{"other examiner", 31, operation.RolePruefer, false},
	}
	for _, test := range assessTests {
		if result := policy.CanAssessCheckride(checkride, test.uid, test.role); result != test.expected {
			t.Errorf("%s: CanAssessCheckride = %v; expected %v", test.name, result, test.expected)
		}
	}

	// A checkride loaded without its slot must fail closed.
	bare := &operation.Checkride{ID: 2, TraineeID: 10}
	if policy.CanAssessCheckride(bare, 30, operation.RolePruefer) {
		t.Errorf("assessment allowed without slot information")
	}
}
