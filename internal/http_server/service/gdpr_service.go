// Package service
package service

import (
	"crypto/subtle"
	"errors"

	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

// GdprService serves the data-subject export and erasure interface. It
// sits behind a static bearer token instead of the session JWT because
// requests come from the privacy tooling, not from logged-in members.
type GdprService struct {
	logger                log.LoggerInterface
	config                *c.GdprConfig
	userOperation         operation.UserOperationInterface
	registrationOperation operation.RegistrationOperationInterface
	trainingOperation     operation.TrainingOperationInterface
	sessionOperation      operation.SessionOperationInterface
	checkrideOperation    operation.CheckrideOperationInterface
	inviteOperation       operation.InviteOperationInterface
}

func NewGdprService(
	logger log.LoggerInterface,
	config *c.GdprConfig,
	operations *operation.DatabaseOperations,
) *GdprService {
	return &GdprService{
		logger:                logger,
		config:                config,
		userOperation:         operations.UserOperation(),
		registrationOperation: operations.RegistrationOperation(),
		trainingOperation:     operations.TrainingOperation(),
		sessionOperation:      operations.SessionOperation(),
		checkrideOperation:    operations.CheckrideOperation(),
		inviteOperation:       operations.InviteOperation(),
	}
}

var (
	SuccessGdprExport = ApiStatus{StatusName: "GDPR_EXPORT", Description: "data export assembled", HttpCode: Ok}
	SuccessGdprErase  = ApiStatus{StatusName: "GDPR_ERASED", Description: "data erased", HttpCode: Ok}
)

func (gdprService *GdprService) VerifyToken(token string) bool {
	if token == "" || gdprService.config.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(gdprService.config.Token)) == 1
}

func (gdprService *GdprService) ExportData(req *RequestGdprExport) *ApiResponse[ResponseGdprExport] {
	user, res := CallDBFuncAndCheckError[operation.User, ResponseGdprExport](gdprService.logger, func() (*operation.User, error) {
		return gdprService.userOperation.GetUserByCid(req.Cid)
	})
	if res != nil {
		return res
	}

	export := &ResponseGdprExport{User: user}

	registration, err := gdprService.registrationOperation.GetRegistrationByCid(req.Cid)
	if err == nil {
		export.Registration = registration
	} else if !errors.Is(err, operation.ErrRegistrationNotFound) {
		gdprService.logger.ErrorF("Export: registration lookup for cid %d failed: %v", req.Cid, err)
	}

	training, err := gdprService.trainingOperation.GetNonCancelledByTrainee(user.ID)
	if err == nil {
		export.Trainings = append(export.Trainings, training)
		sessions, err := gdprService.sessionOperation.GetSessionsByTraining(training.ID, true)
		if err == nil {
			export.Sessions = sessions
		}
		checkride, err := gdprService.checkrideOperation.GetCheckrideByTraining(training.ID)
		if err == nil {
			export.Checkrides = append(export.Checkrides, checkride)
		}
	} else if !errors.Is(err, operation.ErrTrainingNotFound) {
		gdprService.logger.ErrorF("Export: training lookup for cid %d failed: %v", req.Cid, err)
	}

	return NewApiResponse(&SuccessGdprExport, Unsatisfied, export)
}

func (gdprService *GdprService) EraseData(req *RequestGdprErase) *ApiResponse[ResponseGdprErase] {
	if err := gdprService.inviteOperation.DeleteInvitesByCid(req.Cid); err != nil {
		gdprService.logger.ErrorF("Erasure: invite cleanup for cid %d failed: %v", req.Cid, err)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseGdprErase](gdprService.logger, func() (*interface{}, error) {
		return nil, gdprService.userOperation.EraseUser(req.Cid)
	}); res != nil {
		return res
	}

	gdprService.logger.InfoF("Erased all personal data for cid %d", req.Cid)
	return NewApiResponse(&SuccessGdprErase, Unsatisfied, &ResponseGdprErase{Erased: true})
}
