package database

import (
	"errors"
	"testing"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/gorm"
)

func seedReadyTraining(t *testing.T, db *gorm.DB, traineeCid, mentorCid int) *Training {
	t.Helper()
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	training, _ := seedActiveTraining(t, db, traineeCid, mentorCid)
	if err := trainingOperation.SetReadiness(training.ID, true, "ready"); err != nil {
		t.Fatalf("SetReadiness failed: %v", err)
	}
	return training
}

func TestCreateAvailability(t *testing.T) {
	db := openTestDB(t)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1300001, RolePruefer)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	slot, err := checkrideOperation.CreateAvailability(examiner.ID, start)
	if err != nil {
		t.Fatalf("CreateAvailability failed: %v", err)
	}
	if !slot.EndTime.Equal(start.Add(AvailabilitySlotDuration)) {
		t.Errorf("slot end = %v; expected start plus %v", slot.EndTime, AvailabilitySlotDuration)
	}
	if slot.Status != SlotAvailable {
		t.Errorf("slot status = %q; expected AVAILABLE", slot.Status)
	}
}

func TestBookCheckrideGuards(t *testing.T) {
	db := openTestDB(t)
	trainingOperation := NewTrainingOperation(db, testQueryTimeout)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1300010, RolePruefer)

	training, _ := seedActiveTraining(t, db, 1300011, 1300012)
	slot, err := checkrideOperation.CreateAvailability(examiner.ID, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("CreateAvailability failed: %v", err)
	}

	// Booking requires the mentors to have flagged readiness first.
	if _, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, slot.ID); !errors.Is(err, ErrNotReady) {
		t.Errorf("BookCheckride without readiness = %v; expected ErrNotReady", err)
	}

	if err := trainingOperation.SetReadiness(training.ID, true, "ready"); err != nil {
		t.Fatalf("SetReadiness failed: %v", err)
	}
	checkride, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, slot.ID)
	if err != nil {
		t.Fatalf("BookCheckride failed: %v", err)
	}
	if checkride.Result != CheckrideIncomplete || !checkride.IsDraft {
		t.Errorf("booked checkride = (%q, draft=%v); expected draft INCOMPLETE", checkride.Result, checkride.IsDraft)
	}
	if !checkride.ScheduledDate.Equal(checkride.Availability.StartTime) {
		t.Errorf("scheduled date %v does not match slot start %v", checkride.ScheduledDate, checkride.Availability.StartTime)
	}

	loadedSlot, _ := checkrideOperation.GetAvailabilityByID(slot.ID)
	if loadedSlot.Status != SlotBooked {
		t.Errorf("slot status after booking = %q; expected BOOKED", loadedSlot.Status)
	}

	// A second open checkride for the same training is rejected.
	secondSlot, _ := checkrideOperation.CreateAvailability(examiner.ID, time.Now().Add(48*time.Hour))
	if _, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, secondSlot.ID); !errors.Is(err, ErrCheckrideBooked) {
		t.Errorf("double booking = %v; expected ErrCheckrideBooked", err)
	}

	// A booked slot cannot be taken by another training.
	otherTraining := seedReadyTraining(t, db, 1300013, 1300014)
	if _, err := checkrideOperation.BookCheckride(otherTraining.ID, otherTraining.TraineeID, slot.ID); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("booking a taken slot = %v; expected ErrSlotTaken", err)
	}

	// A booked slot cannot be deleted.
	if err := checkrideOperation.DeleteAvailability(slot.ID); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("DeleteAvailability on booked slot = %v; expected ErrSlotTaken", err)
	}
	if err := checkrideOperation.DeleteAvailability(secondSlot.ID); err != nil {
		t.Errorf("DeleteAvailability on free slot failed: %v", err)
	}
}

func TestSaveAssessmentAndRelease(t *testing.T) {
	db := openTestDB(t)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1300020, RolePruefer)
	training := seedReadyTraining(t, db, 1300021, 1300022)

	slot, _ := checkrideOperation.CreateAvailability(examiner.ID, time.Now().Add(24*time.Hour))
	checkride, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, slot.ID)
	if err != nil {
		t.Fatalf("BookCheckride failed: %v", err)
	}

	draft := &CheckrideAssessment{
		FlightPlanning: "solid",
		OverallResult:  CheckrideIncomplete,
	}
	if err := checkrideOperation.SaveAssessment(checkride.ID, draft); err != nil {
		t.Fatalf("SaveAssessment failed: %v", err)
	}

	// Re-saving updates the same row instead of stacking a second one.
	final := &CheckrideAssessment{
		FlightPlanning: "solid",
		Airmanship:     "good",
		OverallResult:  CheckridePassed,
	}
	if err := checkrideOperation.SaveAssessment(checkride.ID, final); err != nil {
		t.Fatalf("SaveAssessment update failed: %v", err)
	}
	if final.ID != draft.ID {
		t.Errorf("assessment update created row %d; expected reuse of %d", final.ID, draft.ID)
	}
	var assessmentCount int64
	db.Model(&CheckrideAssessment{}).Where("checkride_id = ?", checkride.ID).Count(&assessmentCount)
	if assessmentCount != 1 {
		t.Errorf("%d assessment rows; expected 1", assessmentCount)
	}

	loaded, err := checkrideOperation.GetCheckrideByID(checkride.ID)
	if err != nil {
		t.Fatalf("GetCheckrideByID failed: %v", err)
	}
	if loaded.Result != CheckridePassed {
		t.Errorf("checkride result = %q; expected the assessment verdict mirrored", loaded.Result)
	}

	released, err := checkrideOperation.SetReleased(checkride.ID, true)
	if err != nil {
		t.Fatalf("SetReleased failed: %v", err)
	}
	if released.IsDraft || released.ReleasedAt == nil {
		t.Errorf("released checkride = (draft=%v, released_at=%v)", released.IsDraft, released.ReleasedAt)
	}

	withdrawn, err := checkrideOperation.SetReleased(checkride.ID, false)
	if err != nil {
		t.Fatalf("SetReleased(false) failed: %v", err)
	}
	if !withdrawn.IsDraft || withdrawn.ReleasedAt != nil {
		t.Errorf("withdrawn checkride = (draft=%v, released_at=%v)", withdrawn.IsDraft, withdrawn.ReleasedAt)
	}

	// A settled checkride can no longer be cancelled.
	if err := checkrideOperation.CancelCheckride(checkride.ID); !errors.Is(err, ErrCheckrideSettled) {
		t.Errorf("CancelCheckride on settled result = %v; expected ErrCheckrideSettled", err)
	}
}

func TestCancelCheckrideFreesSlot(t *testing.T) {
	db := openTestDB(t)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1300030, RolePruefer)
	training := seedReadyTraining(t, db, 1300031, 1300032)

	slot, _ := checkrideOperation.CreateAvailability(examiner.ID, time.Now().Add(24*time.Hour))
	checkride, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, slot.ID)
	if err != nil {
		t.Fatalf("BookCheckride failed: %v", err)
	}

	if err := checkrideOperation.CancelCheckride(checkride.ID); err != nil {
		t.Fatalf("CancelCheckride failed: %v", err)
	}
	if _, err := checkrideOperation.GetCheckrideByID(checkride.ID); !errors.Is(err, ErrCheckrideNotFound) {
		t.Errorf("GetCheckrideByID after cancel = %v; expected ErrCheckrideNotFound", err)
	}
	loadedSlot, err := checkrideOperation.GetAvailabilityByID(slot.ID)
	if err != nil {
		t.Fatalf("GetAvailabilityByID failed: %v", err)
	}
	if loadedSlot.Status != SlotAvailable {
		t.Errorf("slot status after cancel = %q; expected AVAILABLE", loadedSlot.Status)
	}
}

func TestPurgeStale(t *testing.T) {
	db := openTestDB(t)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1300040, RolePruefer)
	training := seedReadyTraining(t, db, 1300041, 1300042)
	now := time.Now()

	// An unbooked slot past the slot age is swept.
	staleFree, _ := checkrideOperation.CreateAvailability(examiner.ID, now.Add(-StaleSlotAge-time.Hour))
	// A fresh slot stays.
	fresh, _ := checkrideOperation.CreateAvailability(examiner.ID, now.Add(24*time.Hour))
	// A booked slot whose start is long past drags its draft checkride along.
	staleBooked, _ := checkrideOperation.CreateAvailability(examiner.ID, now.Add(-StaleCheckrideAge-time.Hour))
	staleCheckride, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, staleBooked.ID)
	if err != nil {
		t.Fatalf("BookCheckride failed: %v", err)
	}

	purgedCheckrides, purgedSlots, err := checkrideOperation.PurgeStale(now)
	if err != nil {
		t.Fatalf("PurgeStale failed: %v", err)
	}
	if purgedCheckrides != 1 {
		t.Errorf("purged %d checkrides; expected 1", purgedCheckrides)
	}
	// The freed stale slot is swept in the same pass as the stale free one.
	if purgedSlots != 2 {
		t.Errorf("purged %d slots; expected 2", purgedSlots)
	}

	if _, err := checkrideOperation.GetCheckrideByID(staleCheckride.ID); !errors.Is(err, ErrCheckrideNotFound) {
		t.Errorf("stale checkride survived the purge: %v", err)
	}
	if _, err := checkrideOperation.GetAvailabilityByID(staleFree.ID); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("stale free slot survived the purge: %v", err)
	}
	if _, err := checkrideOperation.GetAvailabilityByID(fresh.ID); err != nil {
		t.Errorf("fresh slot was purged: %v", err)
	}

	// A second pass finds nothing; the sweep is idempotent.
	purgedCheckrides, purgedSlots, err = checkrideOperation.PurgeStale(now)
	if err != nil {
		t.Fatalf("second PurgeStale failed: %v", err)
	}
	if purgedCheckrides != 0 || purgedSlots != 0 {
		t.Errorf("second pass purged (%d, %d); expected (0, 0)", purgedCheckrides, purgedSlots)
	}
}

func TestHasPlannedCheckride(t *testing.T) {
	db := openTestDB(t)
	checkrideOperation := NewCheckrideOperation(db, testQueryTimeout)
	examiner := seedUser(t, db, 1300050, RolePruefer)
	otherExaminer := seedUser(t, db, 1300051, RolePruefer)
	training := seedReadyTraining(t, db, 1300052, 1300053)

	slot, _ := checkrideOperation.CreateAvailability(examiner.ID, time.Now().Add(24*time.Hour))
	if _, err := checkrideOperation.BookCheckride(training.ID, training.TraineeID, slot.ID); err != nil {
		t.Fatalf("BookCheckride failed: %v", err)
	}

	planned, err := checkrideOperation.HasPlannedCheckride(training.ID, examiner.ID)
	if err != nil {
		t.Fatalf("HasPlannedCheckride failed: %v", err)
	}
	if !planned {
		t.Errorf("slot owner not recognized as planned examiner")
	}
	planned, err = checkrideOperation.HasPlannedCheckride(training.ID, otherExaminer.ID)
	if err != nil {
		t.Fatalf("HasPlannedCheckride failed: %v", err)
	}
	if planned {
		t.Errorf("unrelated examiner recognized as planned examiner")
	}
}
