package database

import (
	"context"
	"errors"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegistrationOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewRegistrationOperation(db *gorm.DB, queryTimeout time.Duration) *RegistrationOperation {
	return &RegistrationOperation{db: db, queryTimeout: queryTimeout}
}

func (registrationOperation *RegistrationOperation) GetRegistrationByCid(cid int) (registration *Registration, err error) {
	registration = &Registration{}
	ctx, cancel := context.WithTimeout(context.Background(), registrationOperation.queryTimeout)
	defer cancel()
	err = registrationOperation.db.WithContext(ctx).
		Where("cid = ?", cid).
		First(registration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrRegistrationNotFound
	}
	return
}

func (registrationOperation *RegistrationOperation) GetRegistrations(page, pageSize int) (registrations []*Registration, total int64, err error) {
	registrations = make([]*Registration, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), registrationOperation.queryTimeout)
	defer cancel()
	registrationOperation.db.WithContext(ctx).Model(&Registration{}).Select("id").Count(&total)
	err = registrationOperation.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&registrations).Error
	return
}

func (registrationOperation *RegistrationOperation) UpsertRegistration(registration *Registration) error {
	return registrationOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), registrationOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		existing := &Registration{}
		err := db.Where("cid = ?", registration.Cid).First(existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				registration.Status = RegistrationPending
				return db.Create(registration).Error
			}
			return err
		}

		if existing.Status != RegistrationCompleted {
			return ErrRegistrationActive
		}

		// A completed intake may be resubmitted; it reopens as pending.
		registration.ID = existing.ID
		registration.Status = RegistrationPending
		registration.CreatedAt = existing.CreatedAt
		return db.Save(registration).Error
	})
}

func (registrationOperation *RegistrationOperation) CompleteRegistration(cid int) error {
	ctx, cancel := context.WithTimeout(context.Background(), registrationOperation.queryTimeout)
	defer cancel()
	result := registrationOperation.db.WithContext(ctx).
		Model(&Registration{}).
		Where("cid = ?", cid).
		Update("status", RegistrationCompleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (registrationOperation *RegistrationOperation) DeleteRegistrationByCid(cid int) error {
	ctx, cancel := context.WithTimeout(context.Background(), registrationOperation.queryTimeout)
	defer cancel()
	return registrationOperation.db.WithContext(ctx).
		Where("cid = ?", cid).
		Delete(&Registration{}).Error
}
