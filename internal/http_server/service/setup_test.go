// Package service
package service

import (
	"testing"
	"time"

	"github.com/vatger-pmp/pmp-server/internal/database"
	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/global"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testQueryTimeout = 5 * time.Second

type nopLogger struct{}

func (nopLogger) Init(bool) {}
func (nopLogger) ShutdownCallback() global.Callable { return nil }
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) DebugF(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) InfoF(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
func (nopLogger) WarnF(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) ErrorF(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
func (nopLogger) FatalF(string, ...interface{}) {}

type nopEmail struct{}

func (nopEmail) SendAssignmentEmail(*operation.User, *operation.User) error { return nil }
func (nopEmail) SendInviteEmail(string, *operation.MentorInvite, string) error {
	return nil
}
func (nopEmail) SendSessionReleasedEmail(*operation.User, *operation.TrainingSession) error {
	return nil
}
func (nopEmail) SendCheckrideResultEmail(*operation.User, *operation.Checkride) error {
	return nil
}
func (nopEmail) SendCancellationReviewedEmail(*operation.User, string) error { return nil }

// serviceTestEnv wires the workflow services onto an isolated in-memory
// database, the same way the server assembles them at startup.
type serviceTestEnv struct {
	db                 *gorm.DB
	userOperation      *database.UserOperation
	trainingOperation  *database.TrainingOperation
	sessionOperation   *database.SessionOperation
	checkrideOperation *database.CheckrideOperation
	trainingService    *TrainingService
	sessionService     *SessionService
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&operation.User{},
		&operation.Registration{},
		&operation.Training{},
		&operation.TrainingMentor{},
		&operation.TrainingSession{},
		&operation.TrainingSessionTopic{},
		&operation.CheckrideAvailability{},
		&operation.Checkride{},
		&operation.CheckrideAssessment{},
		&operation.MentorInvite{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	InitValidator(&c.HttpServerLimit{CidMin: 800000, CidMax: 1799999})

	userOperation := database.NewUserOperation(db, testQueryTimeout)
	registrationOperation := database.NewRegistrationOperation(db, testQueryTimeout)
	trainingOperation := database.NewTrainingOperation(db, testQueryTimeout)
	sessionOperation := database.NewSessionOperation(db, testQueryTimeout)
	checkrideOperation := database.NewCheckrideOperation(db, testQueryTimeout)
	policy := NewPolicy(trainingOperation, checkrideOperation)

	return &serviceTestEnv{
		db:                 db,
		userOperation:      userOperation,
		trainingOperation:  trainingOperation,
		sessionOperation:   sessionOperation,
		checkrideOperation: checkrideOperation,
		trainingService: NewTrainingService(
			nopLogger{}, policy, nopEmail{}, userOperation, registrationOperation, trainingOperation),
		sessionService: NewSessionService(
			nopLogger{}, policy, nopEmail{}, userOperation, trainingOperation, sessionOperation),
	}
}

func (env *serviceTestEnv) seedUser(t *testing.T, cid int, role operation.Role) *operation.User {
	t.Helper()
	user := &operation.User{Cid: cid, Name: "Test User", Email: "user@example.com", Role: role}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %d: %v", cid, err)
	}
	return user
}

func claimsOf(user *operation.User) JwtHeader {
	return JwtHeader{Uid: user.ID, Cid: user.Cid, Role: user.Role}
}
