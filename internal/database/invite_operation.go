package database

import (
	"context"
	"errors"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"github.com/thanhpk/randstr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InviteOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewInviteOperation(db *gorm.DB, queryTimeout time.Duration) *InviteOperation {
	return &InviteOperation{db: db, queryTimeout: queryTimeout}
}

func (inviteOperation *InviteOperation) CreateInvite(mentorID uint, traineeCid int, anmeldetext string) (invite *MentorInvite, err error) {
	invite = &MentorInvite{
		Token:       randstr.Hex(32),
		MentorID:    mentorID,
		TraineeCid:  traineeCid,
		Anmeldetext: anmeldetext,
		ExpiresAt:   time.Now().Add(MentorInviteTTL),
	}
	ctx, cancel := context.WithTimeout(context.Background(), inviteOperation.queryTimeout)
	defer cancel()
	err = inviteOperation.db.WithContext(ctx).Create(invite).Error
	return
}

func (inviteOperation *InviteOperation) GetInviteByToken(token string) (invite *MentorInvite, err error) {
	invite = &MentorInvite{}
	ctx, cancel := context.WithTimeout(context.Background(), inviteOperation.queryTimeout)
	defer cancel()
	err = inviteOperation.db.WithContext(ctx).
		Where("token = ?", token).
		First(invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrInviteNotFound
	}
	return
}

func (inviteOperation *InviteOperation) ConsumeInvite(token string) (invite *MentorInvite, err error) {
	err = inviteOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), inviteOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		found := &MentorInvite{}
		if err := db.Where("token = ?", token).First(found).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}
		if found.UsedAt != nil {
			return ErrInviteUsed
		}
		now := time.Now()
		if now.After(found.ExpiresAt) {
			return ErrInviteExpired
		}

		if err := db.Model(found).Update("used_at", &now).Error; err != nil {
			return err
		}
		found.UsedAt = &now
		invite = found
		return nil
	})
	return
}

func (inviteOperation *InviteOperation) DeleteInvitesByCid(cid int) error {
	ctx, cancel := context.WithTimeout(context.Background(), inviteOperation.queryTimeout)
	defer cancel()
	return inviteOperation.db.WithContext(ctx).
		Where("trainee_cid = ?", cid).
		Delete(&MentorInvite{}).Error
}
