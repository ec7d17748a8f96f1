package database

import (
	"errors"
	"testing"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

func TestAddUserRejectsDuplicateCid(t *testing.T) {
	db := openTestDB(t)
	userOperation := NewUserOperation(db, testQueryTimeout)

	user, err := userOperation.NewUser(1000001, "First", "first@example.com", "secret")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if err := userOperation.AddUser(user); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	duplicate, _ := userOperation.NewUser(1000001, "Second", "second@example.com", "")
	if err := userOperation.AddUser(duplicate); !errors.Is(err, ErrCidTaken) {
		t.Errorf("AddUser with duplicate cid = %v; expected ErrCidTaken", err)
	}

	loaded, err := userOperation.GetUserByCid(1000001)
	if err != nil {
		t.Fatalf("GetUserByCid failed: %v", err)
	}
	if loaded.Name != "First" {
		t.Errorf("duplicate insert overwrote the original user: %q", loaded.Name)
	}
}

func TestVerifyUserPassword(t *testing.T) {
	db := openTestDB(t)
	userOperation := NewUserOperation(db, testQueryTimeout)

	withPassword, err := userOperation.NewUser(1000002, "Local", "local@example.com", "hunter2")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	oauthOnly, err := userOperation.NewUser(1000003, "OAuth", "oauth@example.com", "")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}

	tests := []struct {
		name     string
		user     *User
		password string
		expected bool
	}{
		{"correct password", withPassword, "hunter2", true},
		{"wrong password", withPassword, "hunter3", false},
		{"empty attempt", withPassword, "", false},
		{"oauth account never matches", oauthOnly, "", false},
		{"oauth account never matches anything", oauthOnly, "hunter2", false},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		result := userOperation.VerifyUserPassword(test.user, test.password)
		if result != test.expected {
			fail++
			t.Errorf("%s: VerifyUserPassword = %v; expected %v", test.name, result, test.expected)
			continue
		}
		pass++
	}
	t.Logf("TestVerifyUserPassword: %d pass, %d fail", pass, fail)
}

func TestUpdateUserStatusForcesVisitor(t *testing.T) {
	db := openTestDB(t)
	userOperation := NewUserOperation(db, testQueryTimeout)
	mentor := seedUser(t, db, 1000004, RoleMentor)

	if err := userOperation.UpdateUserStatus(mentor, "On vacation"); err != nil {
		t.Fatalf("UpdateUserStatus failed: %v", err)
	}
	if mentor.Role != RoleMentor {
		t.Errorf("free-text status must not touch the role, got %q", mentor.Role)
	}

	if err := userOperation.UpdateUserStatus(mentor, StatusPausedMentor); err != nil {
		t.Fatalf("UpdateUserStatus failed: %v", err)
	}
	if mentor.Role != RoleVisitor {
		t.Errorf("paused mentor must be demoted to VISITOR, got %q", mentor.Role)
	}

	loaded, err := userOperation.GetUserByUid(mentor.ID)
	if err != nil {
		t.Fatalf("GetUserByUid failed: %v", err)
	}
	if loaded.Role != RoleVisitor || loaded.UserStatus != StatusPausedMentor {
		t.Errorf("persisted user = (%q, %q); expected (VISITOR, %q)", loaded.Role, loaded.UserStatus, StatusPausedMentor)
	}
}

func TestEraseUserCascade(t *testing.T) {
	db := openTestDB(t)
	userOperation := NewUserOperation(db, testQueryTimeout)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	sessionOperation := NewSessionOperation(db, testQueryTimeout)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	inviteOperation := NewInviteOperation(db, testQueryTimeout)

	trainee := seedUser(t, db, 1000005, RoleTrainee)
	mentor := seedUser(t, db, 1000006, RoleMentor)
	examiner := seedUser(t, db, 1000007, RolePruefer)

	training, _, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor failed: %v", err)
	}
	session := &TrainingSession{
		TrainingID: training.ID,
		MentorID:   mentor.ID,
		LessonType: "online",
		Topics:     []*TrainingSessionTopic{{Topic: "FLIGHT_PLANNING", TheoryCovered: true}},
	}
	if err := sessionOperation.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := inviteOperation.CreateInvite(mentor.ID, trainee.Cid, "welcome"); err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	if err := trainingOperation.SetReadiness(training.ID, true, "ready"); err != nil {
		t.Fatalf("SetReadiness failed: %v", err)
	}
	slot, err := checkrideOperation.CreateAvailability(examiner.ID, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("CreateAvailability failed: %v", err)
	}
	if _, err := checkrideOperation.BookCheckride(training.ID, trainee.ID, slot.ID); err != nil {
		t.Fatalf("BookCheckride failed: %v", err)
	}

	if err := userOperation.EraseUser(trainee.Cid); err != nil {
		t.Fatalf("EraseUser failed: %v", err)
	}

	if _, err := userOperation.GetUserByCid(trainee.Cid); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByCid after erase = %v; expected ErrUserNotFound", err)
	}
	if _, err := trainingOperation.GetTrainingByID(training.ID); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("GetTrainingByID after erase = %v; expected ErrTrainingNotFound", err)
	}
	if _, err := sessionOperation.GetSessionByID(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSessionByID after erase = %v; expected ErrSessionNotFound", err)
	}
	var inviteCount int64
	db.Model(&MentorInvite{}).Where("trainee_cid = ?", trainee.Cid).Count(&inviteCount)
	if inviteCount != 0 {
		t.Errorf("%d invites left after erase; expected 0", inviteCount)
	}
	var checkrideCount int64
	db.Model(&Checkride{}).Where("trainee_id = ?", trainee.ID).Count(&checkrideCount)
	if checkrideCount != 0 {
		t.Errorf("%d checkrides left after erase; expected 0", checkrideCount)
	}
	// The examiner's slot opens up again instead of staying BOOKED.
	loadedSlot, err := checkrideOperation.GetAvailabilityByID(slot.ID)
	if err != nil {
		t.Fatalf("GetAvailabilityByID failed: %v", err)
	}
	if loadedSlot.Status != SlotAvailable {
		t.Errorf("slot status after erase = %q; expected AVAILABLE", loadedSlot.Status)
	}

	if err := userOperation.EraseUser(trainee.Cid); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second EraseUser = %v; expected ErrUserNotFound", err)
	}
}
