package database

import (
	"errors"
	"testing"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

func TestCreateAndConsumeInvite(t *testing.T) {
	db := openTestDB(t)
	inviteOperation := NewInviteOperation(db, testQueryTimeout)
	mentor := seedUser(t, db, 1400001, RoleMentor)

	invite, err := inviteOperation.CreateInvite(mentor.ID, 1400002, "join my program")
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	if invite.Token == "" {
		t.Errorf("invite has no token")
	}
	remaining := time.Until(invite.ExpiresAt)
	if remaining < MentorInviteTTL-time.Minute || remaining > MentorInviteTTL {
		t.Errorf("invite expires in %v; expected about %v", remaining, MentorInviteTTL)
	}

	loaded, err := inviteOperation.GetInviteByToken(invite.Token)
	if err != nil {
		t.Fatalf("GetInviteByToken failed: %v", err)
	}
	if loaded.MentorID != mentor.ID || loaded.TraineeCid != 1400002 {
		t.Errorf("loaded invite = (%d, %d); expected (%d, 1400002)", loaded.MentorID, loaded.TraineeCid, mentor.ID)
	}

	consumed, err := inviteOperation.ConsumeInvite(invite.Token)
	if err != nil {
		t.Fatalf("ConsumeInvite failed: %v", err)
	}
	if consumed.UsedAt == nil {
		t.Errorf("consumed invite has no used_at timestamp")
	}

	// Single use: a second redemption fails.
	if _, err := inviteOperation.ConsumeInvite(invite.Token); !errors.Is(err, ErrInviteUsed) {
		t.Errorf("second ConsumeInvite = %v; expected ErrInviteUsed", err)
	}
}

func TestConsumeExpiredInvite(t *testing.T) {
	db := openTestDB(t)
	inviteOperation := NewInviteOperation(db, testQueryTimeout)
	mentor := seedUser(t, db, 1400010, RoleMentor)

	invite, err := inviteOperation.CreateInvite(mentor.ID, 1400011, "")
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&MentorInvite{}).Where("id = ?", invite.ID).Update("expires_at", past).Error; err != nil {
		t.Fatalf("failed to age invite: %v", err)
	}

	if _, err := inviteOperation.ConsumeInvite(invite.Token); !errors.Is(err, ErrInviteExpired) {
		t.Errorf("ConsumeInvite on expired invite = %v; expected ErrInviteExpired", err)
	}
}

func TestConsumeUnknownInvite(t *testing.T) {
	db := openTestDB(t)
	inviteOperation := NewInviteOperation(db, testQueryTimeout)

	if _, err := inviteOperation.ConsumeInvite("no-such-token"); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("ConsumeInvite on unknown token = %v; expected ErrInviteNotFound", err)
	}
	if _, err := inviteOperation.GetInviteByToken("no-such-token"); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("GetInviteByToken on unknown token = %v; expected ErrInviteNotFound", err)
	}
}

func TestDeleteInvitesByCid(t *testing.T) {
	db := openTestDB(t)
	inviteOperation := NewInviteOperation(db, testQueryTimeout)
	mentor := seedUser(t, db, 1400020, RoleMentor)

	for i := 0; i < 2; i++ {
		if _, err := inviteOperation.CreateInvite(mentor.ID, 1400021, ""); err != nil {
			t.Fatalf("CreateInvite failed: %v", err)
		}
	}
	if _, err := inviteOperation.CreateInvite(mentor.ID, 1400022, ""); err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	if err := inviteOperation.DeleteInvitesByCid(1400021); err != nil {
		t.Fatalf("DeleteInvitesByCid failed: %v", err)
	}
	var remaining int64
	db.Model(&MentorInvite{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("%d invites remain; expected only the unrelated one", remaining)
	}
}
