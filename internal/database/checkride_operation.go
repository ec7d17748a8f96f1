package database

import (
	"context"
	"errors"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckrideOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewCheckrideOperation(db *gorm.DB, queryTimeout time.Duration) *CheckrideOperation {
	return &CheckrideOperation{db: db, queryTimeout: queryTimeout}
}

func (checkrideOperation *CheckrideOperation) CreateAvailability(examinerID uint, startTime time.Time) (slot *CheckrideAvailability, err error) {
	slot = &CheckrideAvailability{
		ExaminerID: examinerID,
		StartTime:  startTime,
		EndTime:    startTime.Add(AvailabilitySlotDuration),
		Status:     SlotAvailable,
	}
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	err = checkrideOperation.db.WithContext(ctx).Create(slot).Error
	return
}

func (checkrideOperation *CheckrideOperation) GetAvailabilityByID(id uint) (slot *CheckrideAvailability, err error) {
	slot = &CheckrideAvailability{}
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	err = checkrideOperation.db.WithContext(ctx).
		Preload("Examiner").
		Where("id = ?", id).
		First(slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrSlotNotFound
	}
	return
}

func (checkrideOperation *CheckrideOperation) GetAvailabilities(examinerID uint) (slots []*CheckrideAvailability, err error) {
	slots = make([]*CheckrideAvailability, 0)
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	query := checkrideOperation.db.WithContext(ctx).Preload("Examiner")
	if examinerID != 0 {
		query = query.Where("examiner_id = ?", examinerID)
	}
	err = query.Order("start_time").Find(&slots).Error
	return
}

func (checkrideOperation *CheckrideOperation) DeleteAvailability(id uint) error {
	return checkrideOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		slot := &CheckrideAvailability{}
		if err := db.Where("id = ?", id).First(slot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.Status != SlotAvailable {
			return ErrSlotTaken
		}
		return db.Delete(slot).Error
	})
}

func (checkrideOperation *CheckrideOperation) BookCheckride(trainingID, traineeID, availabilityID uint) (checkride *Checkride, err error) {
	err = checkrideOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		training := &Training{}
		if err := db.Where("id = ?", trainingID).First(training).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTrainingNotFound
			}
			return err
		}
		if training.Status != TrainingActive {
			return ErrTrainingNotActive
		}
		if !training.ReadyForCheckride {
			return ErrNotReady
		}

		var passed int64
		if err := db.Model(&Checkride{}).
			Where("training_id = ? AND result = ?", trainingID, CheckridePassed).
			Count(&passed).Error; err != nil {
			return err
		}
		if passed > 0 {
			return ErrCheckridePassed
		}

		var open int64
		if err := db.Model(&Checkride{}).
			Where("training_id = ? AND result = ?", trainingID, CheckrideIncomplete).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrCheckrideBooked
		}

		slot := &CheckrideAvailability{}
		if err := db.Where("id = ?", availabilityID).First(slot).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.Status != SlotAvailable {
			return ErrSlotTaken
		}

		created := &Checkride{
			TraineeID:      traineeID,
			TrainingID:     trainingID,
			AvailabilityID: availabilityID,
			ScheduledDate:  slot.StartTime,
			Result:         CheckrideIncomplete,
			IsDraft:        true,
		}
		if err := db.Create(created).Error; err != nil {
			return err
		}
		if err := db.Model(slot).Update("status", SlotBooked).Error; err != nil {
			return err
		}
		checkride = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checkrideOperation.GetCheckrideByID(checkride.ID)
}

func (checkrideOperation *CheckrideOperation) GetCheckrideByID(id uint) (checkride *Checkride, err error) {
	checkride = &Checkride{}
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	err = checkrideOperation.db.WithContext(ctx).
		Preload("Availability").
		Preload("Availability.Examiner").
		Preload("Assessment").
		Where("id = ?", id).
		First(checkride).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrCheckrideNotFound
	}
	return
}

func (checkrideOperation *CheckrideOperation) GetCheckrideByTraining(trainingID uint) (checkride *Checkride, err error) {
	checkride = &Checkride{}
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	err = checkrideOperation.db.WithContext(ctx).
		Preload("Availability").
		Preload("Availability.Examiner").
		Preload("Assessment").
		Where("training_id = ?", trainingID).
		Order("created_at DESC").
		First(checkride).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrCheckrideNotFound
	}
	return
}

func (checkrideOperation *CheckrideOperation) GetCheckrides(examinerID uint) (checkrides []*Checkride, err error) {
	checkrides = make([]*Checkride, 0)
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	query := checkrideOperation.db.WithContext(ctx).
		Preload("Availability").
		Preload("Availability.Examiner").
		Preload("Assessment")
	if examinerID != 0 {
		slotIDs := make([]uint, 0)
		if err = checkrideOperation.db.WithContext(ctx).
			Model(&CheckrideAvailability{}).
			Where("examiner_id = ?", examinerID).
			Pluck("id", &slotIDs).Error; err != nil {
			return nil, err
		}
		if len(slotIDs) == 0 {
			return checkrides, nil
		}
		query = query.Where("availability_id IN ?", slotIDs)
	}
	err = query.Order("scheduled_date").Find(&checkrides).Error
	return
}

func (checkrideOperation *CheckrideOperation) HasPlannedCheckride(trainingID, examinerID uint) (planned bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
	defer cancel()
	var count int64
	err = checkrideOperation.db.WithContext(ctx).
		Model(&Checkride{}).
		Joins("JOIN checkride_availabilities ON checkride_availabilities.id = checkrides.availability_id").
		Where("checkrides.training_id = ? AND checkrides.result = ? AND checkride_availabilities.examiner_id = ?",
			trainingID, CheckrideIncomplete, examinerID).
		Count(&count).Error
	return count > 0, err
}

func (checkrideOperation *CheckrideOperation) SaveAssessment(checkrideID uint, assessment *CheckrideAssessment) error {
	return checkrideOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		checkride := &Checkride{}
		if err := db.Where("id = ?", checkrideID).First(checkride).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCheckrideNotFound
			}
			return err
		}

		existing := &CheckrideAssessment{}
		err := db.Where("checkride_id = ?", checkrideID).First(existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		assessment.CheckrideID = checkrideID
		if err == nil {
			assessment.ID = existing.ID
			assessment.CreatedAt = existing.CreatedAt
			if err := db.Save(assessment).Error; err != nil {
				return err
			}
		} else {
			assessment.ID = 0
			if err := db.Create(assessment).Error; err != nil {
				return err
			}
		}

		// The checkride row mirrors the assessment verdict.
		return db.Model(checkride).Update("result", assessment.OverallResult).Error
	})
}

func (checkrideOperation *CheckrideOperation) SetReleased(checkrideID uint, released bool) (checkride *Checkride, err error) {
	err = checkrideOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		found := &Checkride{}
		if err := db.Where("id = ?", checkrideID).First(found).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCheckrideNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"is_draft":    !released,
			"released_at": nil,
		}
		if released {
			now := time.Now()
			updates["released_at"] = &now
		}
		return db.Model(found).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return checkrideOperation.GetCheckrideByID(checkrideID)
}

func (checkrideOperation *CheckrideOperation) CancelCheckride(checkrideID uint) error {
	return checkrideOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		checkride := &Checkride{}
		if err := db.Where("id = ?", checkrideID).First(checkride).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCheckrideNotFound
			}
			return err
		}
		if checkride.Result != CheckrideIncomplete {
			return ErrCheckrideSettled
		}

		if err := db.Where("checkride_id = ?", checkrideID).Delete(&CheckrideAssessment{}).Error; err != nil {
			return err
		}
		if err := db.Model(&CheckrideAvailability{}).
			Where("id = ?", checkride.AvailabilityID).
			Update("status", SlotAvailable).Error; err != nil {
			return err
		}
		return db.Delete(checkride).Error
	})
}

func (checkrideOperation *CheckrideOperation) PurgeStale(now time.Time) (purgedCheckrides, purgedSlots int64, err error) {
	err = checkrideOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), checkrideOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		staleSlotIDs := make([]uint, 0)
		if err := db.Model(&CheckrideAvailability{}).
			Where("start_time < ?", now.Add(-StaleCheckrideAge)).
			Pluck("id", &staleSlotIDs).Error; err != nil {
			return err
		}

		staleCheckrides := make([]*Checkride, 0)
		if len(staleSlotIDs) > 0 {
			if err := db.Where("result = ? AND is_draft = ? AND availability_id IN ?",
				CheckrideIncomplete, true, staleSlotIDs).
				Find(&staleCheckrides).Error; err != nil {
				return err
			}
		}
		for _, checkride := range staleCheckrides {
			if err := db.Where("checkride_id = ?", checkride.ID).Delete(&CheckrideAssessment{}).Error; err != nil {
				return err
			}
			if err := db.Delete(checkride).Error; err != nil {
				return err
			}
			if err := db.Model(&CheckrideAvailability{}).
				Where("id = ?", checkride.AvailabilityID).
				Update("status", SlotAvailable).Error; err != nil {
				return err
			}
		}
		purgedCheckrides = int64(len(staleCheckrides))

		result := db.Where("status = ? AND start_time < ?", SlotAvailable, now.Add(-StaleSlotAge)).
			Delete(&CheckrideAvailability{})
		if result.Error != nil {
			return result.Error
		}
		purgedSlots = result.RowsAffected
		return nil
	})
	return
}
