// Package service
package service

import (
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type AdminService struct {
	logger            log.LoggerInterface
	userOperation     operation.UserOperationInterface
	trainingOperation operation.TrainingOperationInterface
	sessionOperation  operation.SessionOperationInterface
}

func NewAdminService(
	logger log.LoggerInterface,
	userOperation operation.UserOperationInterface,
	trainingOperation operation.TrainingOperationInterface,
	sessionOperation operation.SessionOperationInterface,
) *AdminService {
	return &AdminService{
		logger:            logger,
		userOperation:     userOperation,
		trainingOperation: trainingOperation,
		sessionOperation:  sessionOperation,
	}
}

var (
	ErrUnknownRole        = ApiStatus{StatusName: "UNKNOWN_ROLE", Description: "role is not part of the role set", HttpCode: BadRequest}
	SuccessUserList       = ApiStatus{StatusName: "USER_LIST", Description: "users fetched", HttpCode: Ok}
	SuccessEditRole       = ApiStatus{StatusName: "ROLE_UPDATED", Description: "role updated", HttpCode: Ok}
	SuccessEditStatus     = ApiStatus{StatusName: "STATUS_UPDATED", Description: "status updated", HttpCode: Ok}
	SuccessCoverageReport = ApiStatus{StatusName: "COVERAGE_REPORT", Description: "coverage report assembled", HttpCode: Ok}
)

func (adminService *AdminService) GetUsers(req *RequestUserList) *ApiResponse[ResponseUserList] {
	if !req.Role.IsLeadership() {
		return NewApiResponse[ResponseUserList](&ErrNoPermission, Unsatisfied, nil)
	}
	if req.RoleFilter != "" {
		if !req.RoleFilter.IsValid() {
			return NewApiResponse[ResponseUserList](&ErrUnknownRole, Unsatisfied, nil)
		}
		users, err := adminService.userOperation.GetUsersByRole(req.RoleFilter)
		if err != nil {
			adminService.logger.ErrorF("Could not list users by role: %v", err)
			return NewApiResponse[ResponseUserList](&ErrDatabaseFail, Unsatisfied, nil)
		}
		return NewApiResponse(&SuccessUserList, Unsatisfied, &ResponseUserList{
			Items:    users,
			Page:     1,
			PageSize: len(users),
			Total:    int64(len(users)),
		})
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 25
	}

	users, total, err := adminService.userOperation.GetUsers(req.Page, req.PageSize)
	if err != nil {
		adminService.logger.ErrorF("Could not list users: %v", err)
		return NewApiResponse[ResponseUserList](&ErrDatabaseFail, Unsatisfied, nil)
	}

	return NewApiResponse(&SuccessUserList, Unsatisfied, &ResponseUserList{
		Items:    users,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

func (adminService *AdminService) EditUserRole(req *RequestEditUserRole) *ApiResponse[ResponseUser] {
	// req.Role is the role to grant; the requester's own role sits in
	// the embedded JwtHeader.
	if !req.Role.IsValid() {
		return NewApiResponse[ResponseUser](&ErrUnknownRole, Unsatisfied, nil)
	}
	if !req.JwtHeader.Role.CanGrant(req.Role) {
		return NewApiResponse[ResponseUser](&ErrNoPermission, Unsatisfied, nil)
	}

	user, res := CallDBFuncAndCheckError[operation.User, ResponseUser](adminService.logger, func() (*operation.User, error) {
		return adminService.userOperation.GetUserByUid(req.TargetUid)
	})
	if res != nil {
		return res
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseUser](adminService.logger, func() (*interface{}, error) {
		return nil, adminService.userOperation.UpdateUserRole(user, req.Role)
	}); res != nil {
		return res
	}

	return NewApiResponse(&SuccessEditRole, Unsatisfied, (*ResponseUser)(user))
}

func (adminService *AdminService) EditUserStatus(req *RequestEditUserStatus) *ApiResponse[ResponseUser] {
	if !req.JwtHeader.Role.IsLeadership() {
		return NewApiResponse[ResponseUser](&ErrNoPermission, Unsatisfied, nil)
	}

	user, res := CallDBFuncAndCheckError[operation.User, ResponseUser](adminService.logger, func() (*operation.User, error) {
		return adminService.userOperation.GetUserByUid(req.TargetUid)
	})
	if res != nil {
		return res
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseUser](adminService.logger, func() (*interface{}, error) {
		return nil, adminService.userOperation.UpdateUserStatus(user, req.Status)
	}); res != nil {
		return res
	}

	return NewApiResponse(&SuccessEditStatus, Unsatisfied, (*ResponseUser)(user))
}

func (adminService *AdminService) GetCoverageReport(req *RequestCoverageReport) *ApiResponse[ResponseCoverageReport] {
	if !req.Role.IsLeadership() {
		return NewApiResponse[ResponseCoverageReport](&ErrNoPermission, Unsatisfied, nil)
	}

	items := make([]*TrainingCoverage, 0)
	page := 1
	const pageSize = 100
	for {
		trainings, total, err := adminService.trainingOperation.GetTrainings(page, pageSize)
		if err != nil {
			adminService.logger.ErrorF("Could not assemble coverage report: %v", err)
			return NewApiResponse[ResponseCoverageReport](&ErrDatabaseFail, Unsatisfied, nil)
		}

		for _, training := range trainings {
			if training.Status != operation.TrainingActive {
				continue
			}
			sessions, err := adminService.sessionOperation.GetSessionsByTraining(training.ID, false)
			if err != nil {
				adminService.logger.ErrorF("Could not load sessions of training %d: %v", training.ID, err)
				continue
			}
			_, earned, possible := operation.AggregateCoverage(sessions)
			items = append(items, &TrainingCoverage{
				TrainingID: training.ID,
				TraineeID:  training.TraineeID,
				Earned:     earned,
				Possible:   possible,
			})
		}

		if int64(page*pageSize) >= total {
			break
		}
		page++
	}

	return NewApiResponse(&SuccessCoverageReport, Unsatisfied, &ResponseCoverageReport{Items: items})
}
