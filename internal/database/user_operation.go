package database

import (
	"context"
	"errors"
	"time"

	. "github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewUserOperation(db *gorm.DB, queryTimeout time.Duration) *UserOperation {
	return &UserOperation{db: db, queryTimeout: queryTimeout}
}

func (userOperation *UserOperation) GetUserByUid(uid uint) (user *User, err error) {
	user = &User{}
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("id = ?", uid).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	return
}

func (userOperation *UserOperation) GetUserByCid(cid int) (user *User, err error) {
	user = &User{}
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("cid = ?", cid).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	return
}

func (userOperation *UserOperation) GetUserByEmail(email string) (user *User, err error) {
	user = &User{}
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("email = ?", email).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	return
}

func (userOperation *UserOperation) GetUsers(page, pageSize int) (users []*User, total int64, err error) {
	users = make([]*User, 0, pageSize)
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	userOperation.db.WithContext(ctx).Model(&User{}).Select("id").Count(&total)
	err = userOperation.db.WithContext(ctx).
		Order("cid").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return
}

func (userOperation *UserOperation) GetUsersByRole(role Role) (users []*User, err error) {
	users = make([]*User, 0)
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("role = ?", role).
		Order("cid").
		Find(&users).Error
	return
}

func (userOperation *UserOperation) NewUser(cid int, name string, email string, password string) (user *User, err error) {
	encodedPassword := ""
	if password != "" {
		encoded, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrPasswordEncode
		}
		encodedPassword = string(encoded)
	}
	user = &User{
		Cid:      cid,
		Name:     name,
		Email:    email,
		Password: encodedPassword,
		Role:     RoleVisitor,
	}
	return
}

func (userOperation *UserOperation) AddUser(user *User) error {
	return userOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
		defer cancel()

		var count int64
		if err := tx.WithContext(ctx).Model(&User{}).Where("cid = ?", user.Cid).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCidTaken
		}

		return tx.WithContext(ctx).Create(user).Error
	})
}

func (userOperation *UserOperation) UpdateUserRole(user *User, role Role) error {
	ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
	defer cancel()
	err := userOperation.db.WithContext(ctx).Model(user).Update("role", role).Error
	if err == nil {
		user.Role = role
	}
	return err
}

func (userOperation *UserOperation) UpdateUserStatus(user *User, status string) error {
	return userOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
		defer cancel()

		updates := map[string]interface{}{"user_status": status}
		if StatusForcesVisitor(status) {
			updates["role"] = RoleVisitor
		}

		if err := tx.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return err
		}

		user.UserStatus = status
		if StatusForcesVisitor(status) {
			user.Role = RoleVisitor
		}
		return nil
	})
}

func (userOperation *UserOperation) VerifyUserPassword(user *User, password string) bool {
	if user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func (userOperation *UserOperation) EraseUser(cid int) error {
	return userOperation.db.Clauses(clause.Locking{Strength: "UPDATE"}).Transaction(func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(context.Background(), userOperation.queryTimeout)
		defer cancel()
		db := tx.WithContext(ctx)

		user := &User{}
		if err := db.Where("cid = ?", cid).First(user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		trainingIDs := make([]uint, 0)
		if err := db.Model(&Training{}).Where("trainee_id = ?", user.ID).Pluck("id", &trainingIDs).Error; err != nil {
			return err
		}

		if len(trainingIDs) > 0 {
			sessionIDs := make([]uint, 0)
			if err := db.Model(&TrainingSession{}).Where("training_id IN ?", trainingIDs).Pluck("id", &sessionIDs).Error; err != nil {
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
			if err := db.Where("training_id IN ?", trainingIDs).Delete(&TrainingMentor{}).Error; err != nil {
				return err
			}
		}

		checkrideIDs := make([]uint, 0)
		if err := db.Model(&Checkride{}).Where("trainee_id = ?", user.ID).Pluck("id", &checkrideIDs).Error; err != nil {
			return err
		}
		if len(checkrideIDs) > 0 {
			// Free the examiners' slots again, the bookings die with the user.
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

		if len(trainingIDs) > 0 {
			if err := db.Where("id IN ?", trainingIDs).Delete(&Training{}).Error; err != nil {
				return err
			}
		}

		if err := db.Where("examiner_id = ?", user.ID).Delete(&CheckrideAvailability{}).Error; err != nil {
			return err
		}
		if err := db.Where("trainee_cid = ? OR mentor_id = ?", cid, user.ID).Delete(&MentorInvite{}).Error; err != nil {
			return err
		}
		if err := db.Where("cid = ?", cid).Delete(&Registration{}).Error; err != nil {
			return err
		}

		return db.Delete(user).Error
	})
}
