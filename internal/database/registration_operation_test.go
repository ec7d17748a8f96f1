package database

import (
	"errors"
	"testing"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

func testRegistration(cid int) *Registration {
	return &Registration{
		Cid:         cid,
		Simulator:   "MSFS 2024",
		Aircraft:    "A320",
		PilotClient: "vPilot",
		Experience:  "some VFR hours",
		Schedule:    "weekends",
	}
}

func TestUpsertRegistrationLifecycle(t *testing.T) {
	db := openTestDB(t)
	registrationOperation := NewRegistrationOperation(db, testQueryTimeout)

	first := testRegistration(1000010)
	if err := registrationOperation.UpsertRegistration(first); err != nil {
		t.Fatalf("initial UpsertRegistration failed: %v", err)
	}
	if first.Status != RegistrationPending {
		t.Errorf("new registration status = %q; expected pending", first.Status)
	}

	// A second submit while the first is still pending must be rejected.
	if err := registrationOperation.UpsertRegistration(testRegistration(1000010)); !errors.Is(err, ErrRegistrationActive) {
		t.Errorf("resubmit while pending = %v; expected ErrRegistrationActive", err)
	}

	if err := registrationOperation.CompleteRegistration(1000010); err != nil {
		t.Fatalf("CompleteRegistration failed: %v", err)
	}

	// After completion the intake reopens under the same row.
	resubmit := testRegistration(1000010)
	resubmit.Aircraft = "B738"
	if err := registrationOperation.UpsertRegistration(resubmit); err != nil {
		t.Fatalf("resubmit after completion failed: %v", err)
	}
	if resubmit.ID != first.ID {
		t.Errorf("resubmit created a new row (%d); expected reuse of %d", resubmit.ID, first.ID)
	}

	loaded, err := registrationOperation.GetRegistrationByCid(1000010)
	if err != nil {
		t.Fatalf("GetRegistrationByCid failed: %v", err)
	}
	if loaded.Status != RegistrationPending || loaded.Aircraft != "B738" {
		t.Errorf("reopened registration = (%q, %q); expected (pending, B738)", loaded.Status, loaded.Aircraft)
	}

	var count int64
	db.Model(&Registration{}).Where("cid = ?", 1000010).Count(&count)
	if count != 1 {
		t.Errorf("%d registration rows for cid; expected 1", count)
	}
}

func TestCompleteRegistrationMissing(t *testing.T) {
	db := openTestDB(t)
	registrationOperation := NewRegistrationOperation(db, testQueryTimeout)

	if err := registrationOperation.CompleteRegistration(999999); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("CompleteRegistration on missing cid = %v; expected ErrRegistrationNotFound", err)
	}
	if _, err := registrationOperation.GetRegistrationByCid(999999); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("GetRegistrationByCid on missing cid = %v; expected ErrRegistrationNotFound", err)
	}
}

func TestDeleteRegistrationByCid(t *testing.T) {
	db := openTestDB(t)
	registrationOperation := NewRegistrationOperation(db, testQueryTimeout)

	if err := registrationOperation.UpsertRegistration(testRegistration(1000011)); err != nil {
		t.Fatalf("UpsertRegistration failed: %v", err)
	}
	if err := registrationOperation.DeleteRegistrationByCid(1000011); err != nil {
		t.Fatalf("DeleteRegistrationByCid failed: %v", err)
	}
	if _, err := registrationOperation.GetRegistrationByCid(1000011); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("registration still present after delete: %v", err)
	}
}
