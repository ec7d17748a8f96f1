package database

import (
	"errors"
	"testing"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

func TestAssignMentor(t *testing.T) {
	db := openTestDB(t)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	trainee := seedUser(t, db, 1100001, RoleTrainee)
	mentor := seedUser(t, db, 1100002, RoleMentor)
	secondMentor := seedUser(t, db, 1100003, RoleMentor)

	training, outcome, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor failed: %v", err)
	}
	if outcome != AssignCreated {
		t.Errorf("outcome = %v; expected AssignCreated", outcome)
	}
	if training.Status != TrainingActive || len(training.Mentors) != 1 || training.Mentors[0].MentorID != mentor.ID {
		t.Errorf("fresh training = (%q, %d mentors); expected (ACTIVE, 1 mentor)", training.Status, len(training.Mentors))
	}

	// A trainee with a mentored non-cancelled training cannot be assigned again.
	if _, _, err := trainingOperation.AssignMentor(trainee.ID, secondMentor.ID); !errors.Is(err, ErrAlreadyAssigned) {
		t.Errorf("second AssignMentor = %v; expected ErrAlreadyAssigned", err)
	}

	// Once the last mentor drops off, the orphaned training is reused.
	if err := trainingOperation.RemoveMentor(training.ID, mentor.ID); err != nil {
		t.Fatalf("RemoveMentor failed: %v", err)
	}
	reused, outcome, err := trainingOperation.AssignMentor(trainee.ID, secondMentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor on orphan failed: %v", err)
	}
	if outcome != AssignReusedOrphan {
		t.Errorf("outcome = %v; expected AssignReusedOrphan", outcome)
	}
	if reused.ID != training.ID {
		t.Errorf("orphan reuse created a new training %d; expected %d", reused.ID, training.ID)
	}

	// A cancelled training does not block a fresh assignment.
	if err := trainingOperation.CancelTraining(training.ID, "no time"); err != nil {
		t.Fatalf("CancelTraining failed: %v", err)
	}
	fresh, outcome, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor after cancellation failed: %v", err)
	}
	if outcome != AssignCreated || fresh.ID == training.ID {
		t.Errorf("assignment after cancellation = (%v, %d); expected a new training", outcome, fresh.ID)
	}
}

func TestAddMentorGuards(t *testing.T) {
	db := openTestDB(t)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	trainee := seedUser(t, db, 1100010, RoleTrainee)
	mentor := seedUser(t, db, 1100011, RoleMentor)

	training, _, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor failed: %v", err)
	}

	if err := trainingOperation.AddMentor(training.ID, mentor.ID); !errors.Is(err, ErrMentorAttached) {
		t.Errorf("AddMentor with attached mentor = %v; expected ErrMentorAttached", err)
	}

	coMentors := []*User{
		seedUser(t, db, 1100012, RoleMentor),
		seedUser(t, db, 1100013, RolePruefer),
	}
	for _, coMentor := range coMentors {
		if err := trainingOperation.AddMentor(training.ID, coMentor.ID); err != nil {
			t.Fatalf("AddMentor failed: %v", err)
		}
	}

	overflow := seedUser(t, db, 1100014, RoleMentor)
	if err := trainingOperation.AddMentor(training.ID, overflow.ID); !errors.Is(err, ErrMentorCap) {
		t.Errorf("AddMentor past the cap = %v; expected ErrMentorCap", err)
	}

	if err := trainingOperation.CancelTraining(training.ID, "paused"); err != nil {
		t.Fatalf("CancelTraining failed: %v", err)
	}
	if err := trainingOperation.RemoveMentor(training.ID, coMentors[0].ID); err != nil {
		t.Fatalf("RemoveMentor failed: %v", err)
	}
	if err := trainingOperation.AddMentor(training.ID, overflow.ID); !errors.Is(err, ErrTrainingNotActive) {
		t.Errorf("AddMentor on cancelled training = %v; expected ErrTrainingNotActive", err)
	}

	if err := trainingOperation.RemoveMentor(training.ID, overflow.ID); !errors.Is(err, ErrMentorNotAttached) {
		t.Errorf("RemoveMentor on detached mentor = %v; expected ErrMentorNotAttached", err)
	}
}

func TestTrainingLifecycle(t *testing.T) {
	db := openTestDB(t)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	trainee := seedUser(t, db, 1100020, RoleTrainee)
	mentor := seedUser(t, db, 1100021, RoleMentor)

	training, _, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor failed: %v", err)
	}

	if err := trainingOperation.SetReadiness(training.ID, true, "ready for the checkride"); err != nil {
		t.Fatalf("SetReadiness failed: %v", err)
	}
	loaded, err := trainingOperation.GetTrainingByID(training.ID)
	if err != nil {
		t.Fatalf("GetTrainingByID failed: %v", err)
	}
	if !loaded.ReadyForCheckride || loaded.CheckrideRequestText == "" || loaded.ReadyRequestedAt == nil {
		t.Errorf("readiness not recorded: ready=%v text=%q at=%v", loaded.ReadyForCheckride, loaded.CheckrideRequestText, loaded.ReadyRequestedAt)
	}

	if err := trainingOperation.SetReadiness(training.ID, false, ""); err != nil {
		t.Fatalf("SetReadiness(false) failed: %v", err)
	}
	loaded, _ = trainingOperation.GetTrainingByID(training.ID)
	if loaded.ReadyForCheckride || loaded.CheckrideRequestText != "" || loaded.ReadyRequestedAt != nil {
		t.Errorf("readiness not cleared: ready=%v text=%q at=%v", loaded.ReadyForCheckride, loaded.CheckrideRequestText, loaded.ReadyRequestedAt)
	}

	if err := trainingOperation.CancelTraining(training.ID, "no time"); err != nil {
		t.Fatalf("CancelTraining failed: %v", err)
	}
	loaded, _ = trainingOperation.GetTrainingByID(training.ID)
	if loaded.Status != TrainingCancelled || loaded.CancellationReason != "no time" || loaded.CancelledAt == nil {
		t.Errorf("cancelled training = (%q, %q, %v); expected ABGEBROCHEN with reason and time", loaded.Status, loaded.CancellationReason, loaded.CancelledAt)
	}
	if err := trainingOperation.CancelTraining(training.ID, "again"); !errors.Is(err, ErrTrainingNotActive) {
		t.Errorf("double CancelTraining = %v; expected ErrTrainingNotActive", err)
	}
	if err := trainingOperation.CompleteTraining(training.ID); !errors.Is(err, ErrTrainingNotActive) {
		t.Errorf("CompleteTraining on cancelled training = %v; expected ErrTrainingNotActive", err)
	}

	secondTrainee := seedUser(t, db, 1100022, RoleTrainee)
	second, _, err := trainingOperation.AssignMentor(secondTrainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor for second trainee failed: %v", err)
	}
	if err := trainingOperation.CompleteTraining(second.ID); err != nil {
		t.Fatalf("CompleteTraining failed: %v", err)
	}
	loaded, _ = trainingOperation.GetTrainingByID(second.ID)
	if loaded.Status != TrainingCompleted {
		t.Errorf("completed training status = %q; expected COMPLETED", loaded.Status)
	}
}

func TestDeleteTrainingCascade(t *testing.T) {
	db := openTestDB(t)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	sessionOperation := NewSessionOperation(db, testQueryTimeout)
	trainee := seedUser(t, db, 1100030, RoleTrainee)
	mentor := seedUser(t, db, 1100031, RoleMentor)

	training, _, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID)
	if err != nil {
		t.Fatalf("AssignMentor failed: %v", err)
	}
	session := &TrainingSession{
		TrainingID: training.ID,
		MentorID:   mentor.ID,
		LessonType: "sim",
		Topics:     []*TrainingSessionTopic{{Topic: "ILS_APPROACH", PracticeCovered: true}},
	}
	if err := sessionOperation.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1100032, RolePruefer)
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

	if err := trainingOperation.DeleteTraining(training.ID); err != nil {
		t.Fatalf("DeleteTraining failed: %v", err)
	}

	if _, err := trainingOperation.GetTrainingByID(training.ID); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("GetTrainingByID after delete = %v; expected ErrTrainingNotFound", err)
	}
	var topicCount, sessionCount, mentorCount, checkrideCount int64
	db.Model(&TrainingSessionTopic{}).Count(&topicCount)
	db.Model(&TrainingSession{}).Count(&sessionCount)
	db.Model(&TrainingMentor{}).Count(&mentorCount)
	db.Model(&Checkride{}).Count(&checkrideCount)
	if topicCount+sessionCount+mentorCount+checkrideCount != 0 {
		t.Errorf("cascade left rows behind: %d topics, %d sessions, %d mentor links, %d checkrides", topicCount, sessionCount, mentorCount, checkrideCount)
	}
	// The booked slot belongs to the examiner and must open up again.
	loadedSlot, err := checkrideOperation.GetAvailabilityByID(slot.ID)
	if err != nil {
		t.Fatalf("GetAvailabilityByID failed: %v", err)
	}
	if loadedSlot.Status != SlotAvailable {
		t.Errorf("slot status after training delete = %q; expected AVAILABLE", loadedSlot.Status)
	}

	if err := trainingOperation.DeleteTraining(training.ID); !errors.Is(err, ErrTrainingNotFound) {
		t.Errorf("second DeleteTraining = %v; expected ErrTrainingNotFound", err)
	}
}

func TestGetTrainingsByMentor(t *testing.T) {
	db := openTestDB(t)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	mentor := seedUser(t, db, 1100040, RoleMentor)
	otherMentor := seedUser(t, db, 1100041, RoleMentor)

	for cid := 1100050; cid < 1100053; cid++ {
		trainee := seedUser(t, db, cid, RoleTrainee)
		if _, _, err := trainingOperation.AssignMentor(trainee.ID, mentor.ID); err != nil {
			t.Fatalf("AssignMentor failed: %v", err)
		}
	}

	trainings, err := trainingOperation.GetTrainingsByMentor(mentor.ID)
	if err != nil {
		t.Fatalf("GetTrainingsByMentor failed: %v", err)
	}
	if len(trainings) != 3 {
		t.Errorf("mentor sees %d trainings; expected 3", len(trainings))
	}

	trainings, err = trainingOperation.GetTrainingsByMentor(otherMentor.ID)
	if err != nil {
		t.Fatalf("GetTrainingsByMentor failed: %v", err)
	}
	if len(trainings) != 0 {
		t.Errorf("unrelated mentor sees %d trainings; expected 0", len(trainings))
	}
}
