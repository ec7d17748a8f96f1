// Package database
package database

import (
	"context"
	"fmt"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/global"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ShutdownCallback struct {
	db *gorm.DB
}

func (sc *ShutdownCallback) Invoke(_ context.Context) error {
	pool, err := sc.db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// ConnectDatabase opens the configured database, migrates the schema and
// wires up the per-aggregate operation implementations.
func ConnectDatabase(
	loggerInterface log.LoggerInterface,
	conf *config.Config,
	debug bool,
) (global.Callable, *operation.DatabaseOperations, error) {
	dbConfig := conf.Database

	dialector := dbConfig.GetConnection(loggerInterface)
	if dialector == nil {
		return nil, nil, fmt.Errorf("unsupported database type %s", dbConfig.DBType)
	}

	gormConfig := &gorm.Config{PrepareStmt: true}
	if !debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("error occurred while connecting to database: %w", err)
	}

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
		return nil, nil, fmt.Errorf("error occurred while migrating database: %w", err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("error occurred while creating database pool: %w", err)
	}

	maxOpenConnections := float32(dbConfig.ServerMaxConnections) * 0.8
	maxIdleConnections := maxOpenConnections / 5
	pool.SetMaxIdleConns(int(maxIdleConnections))
	pool.SetMaxOpenConns(int(maxOpenConnections))
	pool.SetConnMaxLifetime(dbConfig.ConnectIdleDuration)

	if err := pool.Ping(); err != nil {
		return nil, nil, fmt.Errorf("error occurred while pinging database: %w", err)
	}

	queryTimeout := dbConfig.QueryDuration
	operations := operation.NewDatabaseOperations(
		NewUserOperation(db, queryTimeout),
		NewRegistrationOperation(db, queryTimeout),
		NewTrainingOperation(db, queryTimeout),
		NewSessionOperation(db, queryTimeout),
		NewCheckrideOperation(db, queryTimeout),
		NewInviteOperation(db, queryTimeout),
	)

	return &ShutdownCallback{db: db}, operations, nil
}
