// Package service
package service

import (
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type RegistrationService struct {
	logger                log.LoggerInterface
	userOperation         operation.UserOperationInterface
	registrationOperation operation.RegistrationOperationInterface
}

func NewRegistrationService(
	logger log.LoggerInterface,
	userOperation operation.UserOperationInterface,
	registrationOperation operation.RegistrationOperationInterface,
) *RegistrationService {
	return &RegistrationService{
		logger:                logger,
		userOperation:         userOperation,
		registrationOperation: registrationOperation,
	}
}

var (
	SuccessSubmitRegistration  = ApiStatus{StatusName: "REGISTRATION_SUBMITTED", Description: "registration submitted", HttpCode: Created}
	SuccessRegistrationList    = ApiStatus{StatusName: "REGISTRATION_LIST", Description: "registrations fetched", HttpCode: Ok}
	SuccessDeclineRegistration = ApiStatus{StatusName: "REGISTRATION_DECLINED", Description: "registration declined", HttpCode: Ok}
)

func (registrationService *RegistrationService) SubmitRegistration(req *RequestSubmitRegistration) *ApiResponse[ResponseSubmitRegistration] {
	if status := CheckStruct(req); status != nil {
		return NewApiResponse[ResponseSubmitRegistration](status, Unsatisfied, nil)
	}
	if status := cidValidator.CheckInt(req.Cid); status != nil {
		return NewApiResponse[ResponseSubmitRegistration](status, Unsatisfied, nil)
	}

	registration := &operation.Registration{
		Cid:         req.Cid,
		Simulator:   req.Simulator,
		Aircraft:    req.Aircraft,
		PilotClient: req.PilotClient,
		Experience:  req.Experience,
		Schedule:    req.Schedule,
		Remarks:     req.Remarks,
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseSubmitRegistration](registrationService.logger, func() (*interface{}, error) {
		return nil, registrationService.registrationOperation.UpsertRegistration(registration)
	}); res != nil {
		return res
	}

	// A visitor who registers becomes a pending trainee; roles further
	// up the ladder keep what they have.
	user, err := registrationService.userOperation.GetUserByUid(req.Uid)
	if err == nil && user.Role == operation.RoleVisitor {
		if err := registrationService.userOperation.UpdateUserRole(user, operation.RolePendingTrainee); err != nil {
			registrationService.logger.ErrorF("Could not promote cid %d to pending trainee: %v", req.Cid, err)
		}
	}

	return NewApiResponse(&SuccessSubmitRegistration, Unsatisfied, (*ResponseSubmitRegistration)(registration))
}

func (registrationService *RegistrationService) GetRegistrations(req *RequestRegistrationList) *ApiResponse[ResponseRegistrationList] {
	if !req.Role.IsMentorEligible() {
		return NewApiResponse[ResponseRegistrationList](&ErrNoPermission, Unsatisfied, nil)
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 25
	}

	registrations, total, err := registrationService.registrationOperation.GetRegistrations(req.Page, req.PageSize)
	if err != nil {
		registrationService.logger.ErrorF("Could not list registrations: %v", err)
		return NewApiResponse[ResponseRegistrationList](&ErrDatabaseFail, Unsatisfied, nil)
	}

	return NewApiResponse(&SuccessRegistrationList, Unsatisfied, &ResponseRegistrationList{
		Items:    registrations,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

func (registrationService *RegistrationService) DeclineRegistration(req *RequestDeclineRegistration) *ApiResponse[ResponseDeclineRegistration] {
	if !req.Role.IsMentorEligible() {
		return NewApiResponse[ResponseDeclineRegistration](&ErrNoPermission, Unsatisfied, nil)
	}
	if req.Cid == 0 {
		return NewApiResponse[ResponseDeclineRegistration](&ErrLackParam, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[operation.Registration, ResponseDeclineRegistration](registrationService.logger, func() (*operation.Registration, error) {
		return registrationService.registrationOperation.GetRegistrationByCid(req.Cid)
	}); res != nil {
		return res
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseDeclineRegistration](registrationService.logger, func() (*interface{}, error) {
		return nil, registrationService.registrationOperation.DeleteRegistrationByCid(req.Cid)
	}); res != nil {
		return res
	}

	// A declined pending trainee goes back to plain visitor.
	user, err := registrationService.userOperation.GetUserByCid(req.Cid)
	if err == nil && user.Role == operation.RolePendingTrainee {
		if err := registrationService.userOperation.UpdateUserRole(user, operation.RoleVisitor); err != nil {
			registrationService.logger.ErrorF("Could not demote cid %d after decline: %v", req.Cid, err)
		}
	}

	return NewApiResponse(&SuccessDeclineRegistration, Unsatisfied, &ResponseDeclineRegistration{Declined: true})
}
