package database

import (
	"context"
	"errors"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrainingOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewTrainingOperation(db *gorm.DB, queryTimeout time.Duration) *TrainingOperation {
	return &TrainingOperation{db: db, queryTimeout: queryTimeout}
}

func (trainingOperation *TrainingOperation) GetTrainingByID(id uint) (training *Training, err error) {
	training = &Training{}
	ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
	defer cancel()
	err = trainingOperation.db.WithContext(ctx).
		Preload("Trainee").
		Preload("Mentors").
		Preload("Mentors.Mentor").
		Where("id = ?", id).
		First(training).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrTrainingNotFound
	}
	return
}

func (trainingOperation *TrainingOperation) GetNonCancelledByTrainee(traineeID uint) (training *Training, err error) {
	training = &Training{}
	ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
	defer cancel()
	err = trainingOperation.db.WithContext(ctx).
		Preload("Mentors").
		Preload("Mentors.Mentor").
		Where("trainee_id = ? AND status <> ?", traineeID, TrainingCancelled).
		First(training).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrTrainingNotFound
	}
	return
}

func (trainingOperation *TrainingOperation) GetTrainings(page, pageSize int) (trainings []*Training, total int64, err error) {
	trainings = make([]*Training, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
	defer cancel()
	trainingOperation.db.WithContext(ctx).Model(&Training{}).Select("id").Count(&total)
	err = trainingOperation.db.WithContext(ctx).
		Preload("Trainee").
		Preload("Mentors").
		Preload("Mentors.Mentor").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trainings).Error
	return
}

func (trainingOperation *TrainingOperation) GetTrainingsByMentor(mentorID uint) (trainings []*Training, err error) {
	trainings = make([]*Training, 0)
	ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
	defer cancel()

	trainingIDs := make([]uint, 0)
	if err = trainingOperation.db.WithContext(ctx).
		Model(&TrainingMentor{}).
		Where("mentor_id = ?", mentorID).
		Pluck("training_id", &trainingIDs).Error; err != nil {
		return nil, err
	}
	if len(trainingIDs) == 0 {
		return trainings, nil
	}

	err = trainingOperation.db.WithContext(ctx).
		Preload("Trainee").
		Preload("Mentors").
		Preload("Mentors.Mentor").
		Where("id IN ?", trainingIDs).
		Order("created_at DESC").
		Find(&trainings).Error
	return
}

func (trainingOperation *TrainingOperation) AssignMentor(traineeID, mentorID uint) (training *Training, outcome AssignOutcome, err error) {
	err = trainingOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		existing := &Training{}
		findErr := db.Preload("Mentors").
			Where("trainee_id = ? AND status <> ?", traineeID, TrainingCancelled).
			First(existing).Error
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if findErr == nil {
			if len(existing.Mentors) > 0 {
				return ErrAlreadyAssigned
			}
			// Mentorless training left behind by a mentor drop; reuse it.
			if err := db.Create(&TrainingMentor{TrainingID: existing.ID, MentorID: mentorID}).Error; err != nil {
				return err
			}
			training = existing
			outcome = AssignReusedOrphan
			return nil
		}

		created := &Training{TraineeID: traineeID, Status: TrainingActive}
		if err := db.Create(created).Error; err != nil {
			return err
		}
		if err := db.Create(&TrainingMentor{TrainingID: created.ID, MentorID: mentorID}).Error; err != nil {
			return err
		}
		training = created
		outcome = AssignCreated
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	training, err = trainingOperation.GetTrainingByID(training.ID)
	return training, outcome, err
}

func (trainingOperation *TrainingOperation) AddMentor(trainingID, mentorID uint) error {
	return trainingOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
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

		var count int64
		if err := db.Model(&TrainingMentor{}).Where("training_id = ?", trainingID).Count(&count).Error; err != nil {
			return err
		}
		if count >= MaxMentorsPerTraining {
			return ErrMentorCap
		}

		var attached int64
		if err := db.Model(&TrainingMentor{}).
			Where("training_id = ? AND mentor_id = ?", trainingID, mentorID).
			Count(&attached).Error; err != nil {
			return err
		}
		if attached > 0 {
			return ErrMentorAttached
		}

		return db.Create(&TrainingMentor{TrainingID: trainingID, MentorID: mentorID}).Error
	})
}

func (trainingOperation *TrainingOperation) RemoveMentor(trainingID, mentorID uint) error {
	ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
	defer cancel()
	result := trainingOperation.db.WithContext(ctx).
		Where("training_id = ? AND mentor_id = ?", trainingID, mentorID).
		Delete(&TrainingMentor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMentorNotAttached
	}
	return nil
}

func (trainingOperation *TrainingOperation) DeleteTraining(trainingID uint) error {
	return trainingOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		training := &Training{}
		if err := db.Where("id = ?", trainingID).First(training).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTrainingNotFound
			}
			return err
		}

		sessionIDs := make([]uint, 0)
		if err := db.Model(&TrainingSession{}).Where("training_id = ?", trainingID).Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if len(sessionIDs) > 0 {
			if err := db.Where("session_id IN ?", sessionIDs).Delete(&TrainingSessionTopic{}).Error; err != nil {
				return err
			}
			if err := db.Where("id IN ?", sessionIDs).Delete(&TrainingSession{}).Error; err != nil {
				return err
			}
		}

		checkrideIDs := make([]uint, 0)
		if err := db.Model(&Checkride{}).Where("training_id = ?", trainingID).Pluck("id", &checkrideIDs).Error; err != nil {
			return err
		}
		if len(checkrideIDs) > 0 {
			// Bookings die with the training; their slots open up again.
			slotIDs := make([]uint, 0)
			if err := db.Model(&Checkride{}).Where("id IN ?", checkrideIDs).Pluck("availability_id", &slotIDs).Error; err != nil {
				return err
			}
			if err := db.Where("checkride_id IN ?", checkrideIDs).Delete(&CheckrideAssessment{}).Error; err != nil {
				return err
			}
			if err := db.Where("id IN ?", checkrideIDs).Delete(&Checkride{}).Error; err != nil {
				return err
			}
			if len(slotIDs) > 0 {
				if err := db.Model(&CheckrideAvailability{}).
					Where("id IN ?", slotIDs).
					Update("status", SlotAvailable).Error; err != nil {
					return err
				}
			}
		}

		if err := db.Where("training_id = ?", trainingID).Delete(&TrainingMentor{}).Error; err != nil {
			return err
		}

		return db.Delete(training).Error
	})
}

func (trainingOperation *TrainingOperation) CancelTraining(trainingID uint, reason string) error {
	return trainingOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
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

		now := time.Now()
		return db.Model(training).Updates(map[string]interface{}{
			"status":              TrainingCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        &now,
			"ready_for_checkride": false,
		}).Error
	})
}

func (trainingOperation *TrainingOperation) SetReadiness(trainingID uint, ready bool, requestText string) error {
	return trainingOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
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

		updates := map[string]interface{}{
			"ready_for_checkride":    ready,
			"checkride_request_text": "",
			"ready_requested_at":     nil,
		}
		if ready {
			now := time.Now()
			updates["checkride_request_text"] = requestText
			updates["ready_requested_at"] = &now
		}
		return db.Model(training).Updates(updates).Error
	})
}

func (trainingOperation *TrainingOperation) CompleteTraining(trainingID uint) error {
	return trainingOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), trainingOperation.queryTimeout)
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

		return db.Model(training).Updates(map[string]interface{}{
			"status":              TrainingCompleted,
			"ready_for_checkride": false,
		}).Error
	})
}
