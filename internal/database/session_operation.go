package database

import (
	"context"
	"errors"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewSessionOperation(db *gorm.DB, queryTimeout time.Duration) *SessionOperation {
	return &SessionOperation{db: db, queryTimeout: queryTimeout}
}

func (sessionOperation *SessionOperation) GetSessionByID(id uint) (session *TrainingSession, err error) {
	session = &TrainingSession{}
	ctx, cancel := context.WithTimeout(context.Background(), sessionOperation.queryTimeout)
	defer cancel()
	err = sessionOperation.db.WithContext(ctx).
		Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("id = ?", id).
		First(session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrSessionNotFound
	}
	return
}

func (sessionOperation *SessionOperation) GetSessionsByTraining(trainingID uint, includeDrafts bool) (sessions []*TrainingSession, err error) {
	sessions = make([]*TrainingSession, 0)
	ctx, cancel := context.WithTimeout(context.Background(), sessionOperation.queryTimeout)
	defer cancel()
	query := sessionOperation.db.WithContext(ctx).
		Preload("Topics", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("training_id = ?", trainingID)
	if !includeDrafts {
		query = query.Where("is_draft = ?", false)
	}
	err = query.Order("session_date DESC").Find(&sessions).Error
	return
}

func (sessionOperation *SessionOperation) CreateSession(session *TrainingSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionOperation.queryTimeout)
	defer cancel()
	return sessionOperation.db.WithContext(ctx).Create(session).Error
}

func (sessionOperation *SessionOperation) ReplaceSession(sessionID uint, session *TrainingSession) error {
	return sessionOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), sessionOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		existing := &TrainingSession{}
		if err := db.Where("id = ?", sessionID).First(existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		if err := db.Model(existing).Updates(map[string]interface{}{
			"lesson_type":  session.LessonType,
			"session_date": session.SessionDate,
			"comments":     session.Comments,
			"is_draft":     session.IsDraft,
		}).Error; err != nil {
			return err
		}

		if err := db.Where("session_id = ?", sessionID).Delete(&TrainingSessionTopic{}).Error; err != nil {
			return err
		}
		for _, topic := range session.Topics {
			topic.ID = 0
			topic.SessionID = sessionID
			if err := db.Create(topic).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (sessionOperation *SessionOperation) ReleaseSession(sessionID uint) (session *TrainingSession, err error) {
	err = sessionOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), sessionOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		found := &TrainingSession{}
		if err := db.Where("id = ?", sessionID).First(found).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if !found.IsDraft {
			return ErrSessionReleased
		}

		now := time.Now()
		if err := db.Model(found).Updates(map[string]interface{}{
			"is_draft":    false,
			"released_at": &now,
		}).Error; err != nil {
			return err
		}
		found.IsDraft = false
		found.ReleasedAt = &now
		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessionOperation.GetSessionByID(sessionID)
}

func (sessionOperation *SessionOperation) DeleteSession(sessionID uint) error {
	return sessionOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), sessionOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		session := &TrainingSession{}
		if err := db.Where("id = ?", sessionID).First(session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		if err := db.Where("session_id = ?", sessionID).Delete(&TrainingSessionTopic{}).Error; err != nil {
			return err
		}
		return db.Delete(session).Error
	})
}
