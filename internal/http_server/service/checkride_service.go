// Package service
package service

import (
	"time"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type CheckrideService struct {
	logger             log.LoggerInterface
	policy             *Policy
	emailService       EmailServiceInterface
	userOperation      operation.UserOperationInterface
	trainingOperation  operation.TrainingOperationInterface
	checkrideOperation operation.CheckrideOperationInterface
}

func NewCheckrideService(
	logger log.LoggerInterface,
	policy *Policy,
	emailService EmailServiceInterface,
	userOperation operation.UserOperationInterface,
	trainingOperation operation.TrainingOperationInterface,
	checkrideOperation operation.CheckrideOperationInterface,
) *CheckrideService {
	return &CheckrideService{
		logger:             logger,
		policy:             policy,
		emailService:       emailService,
		userOperation:      userOperation,
		trainingOperation:  trainingOperation,
		checkrideOperation: checkrideOperation,
	}
}

var (
	ErrInvalidStartTime       = ApiStatus{StatusName: "INVALID_START_TIME", Description: "start_time is not a valid RFC 3339 timestamp", HttpCode: BadRequest}
	ErrStartTimeInPast        = ApiStatus{StatusName: "START_TIME_IN_PAST", Description: "start_time lies in the past", HttpCode: BadRequest}
	ErrInvalidResult          = ApiStatus{StatusName: "INVALID_RESULT", Description: "unknown overall result", HttpCode: BadRequest}
	SuccessCreateAvailability = ApiStatus{StatusName: "AVAILABILITY_CREATED", Description: "availability slot created", HttpCode: Created}
	SuccessAvailabilityList   = ApiStatus{StatusName: "AVAILABILITY_LIST", Description: "availability slots fetched", HttpCode: Ok}
	SuccessDeleteSlot         = ApiStatus{StatusName: "AVAILABILITY_DELETED", Description: "availability slot deleted", HttpCode: Ok}
	SuccessBookCheckride      = ApiStatus{StatusName: "CHECKRIDE_BOOKED", Description: "checkride booked", HttpCode: Created}
	SuccessCheckrideList      = ApiStatus{StatusName: "CHECKRIDE_LIST", Description: "checkrides fetched", HttpCode: Ok}
	SuccessGetAssessment      = ApiStatus{StatusName: "ASSESSMENT_FETCHED", Description: "assessment fetched", HttpCode: Ok}
	SuccessSaveAssessment     = ApiStatus{StatusName: "ASSESSMENT_SAVED", Description: "assessment saved", HttpCode: Ok}
	SuccessCancelCheckride    = ApiStatus{StatusName: "CHECKRIDE_CANCELLED", Description: "checkride cancelled", HttpCode: Ok}
)

// purgeStale runs the idempotent maintenance sweep. List reads trigger
// it so stale drafts and dead slots never linger until a scheduler runs.
func (checkrideService *CheckrideService) purgeStale() {
	purgedCheckrides, purgedSlots, err := checkrideService.checkrideOperation.PurgeStale(time.Now())
	if err != nil {
		checkrideService.logger.ErrorF("Stale checkride purge failed: %v", err)
		return
	}
	if purgedCheckrides > 0 || purgedSlots > 0 {
		checkrideService.logger.InfoF("Purged %d stale checkrides and %d stale slots", purgedCheckrides, purgedSlots)
	}
}

func (checkrideService *CheckrideService) CreateAvailability(req *RequestCreateAvailability) *ApiResponse[ResponseAvailability] {
	if !req.Role.IsExaminerEligible() {
		return NewApiResponse[ResponseAvailability](&ErrNoPermission, Unsatisfied, nil)
	}
	if status := CheckStruct(req); status != nil {
		return NewApiResponse[ResponseAvailability](status, Unsatisfied, nil)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return NewApiResponse[ResponseAvailability](&ErrInvalidStartTime, Unsatisfied, nil)
	}
	if startTime.Before(time.Now()) {
		return NewApiResponse[ResponseAvailability](&ErrStartTimeInPast, Unsatisfied, nil)
	}

	slot, res := CallDBFuncAndCheckError[operation.CheckrideAvailability, ResponseAvailability](checkrideService.logger, func() (*operation.CheckrideAvailability, error) {
		return checkrideService.checkrideOperation.CreateAvailability(req.Uid, startTime)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessCreateAvailability, Unsatisfied, (*ResponseAvailability)(slot))
}

func (checkrideService *CheckrideService) ListAvailabilities(req *RequestListAvailabilities) *ApiResponse[ResponseAvailabilityList] {
	checkrideService.purgeStale()

	var examinerID uint
	if req.Role.IsExaminerEligible() && !req.Role.IsLeadership() {
		examinerID = req.Uid
	}

	slots, err := checkrideService.checkrideOperation.GetAvailabilities(examinerID)
	if err != nil {
		checkrideService.logger.ErrorF("Could not list availabilities: %v", err)
		return NewApiResponse[ResponseAvailabilityList](&ErrDatabaseFail, Unsatisfied, nil)
	}

	// Trainees only see slots still open for booking.
	if !req.Role.IsExaminerEligible() {
		open := make([]*operation.CheckrideAvailability, 0, len(slots))
		for _, slot := range slots {
			if slot.Status == operation.SlotAvailable {
				open = append(open, slot)
			}
		}
		slots = open
	}

	return NewApiResponse(&SuccessAvailabilityList, Unsatisfied, &ResponseAvailabilityList{Items: slots})
}

func (checkrideService *CheckrideService) DeleteAvailability(req *RequestDeleteAvailability) *ApiResponse[ResponseDeleteAvailability] {
	if req.AvailabilityID == 0 {
		return NewApiResponse[ResponseDeleteAvailability](&ErrLackParam, Unsatisfied, nil)
	}
	slot, res := CallDBFuncAndCheckError[operation.CheckrideAvailability, ResponseDeleteAvailability](checkrideService.logger, func() (*operation.CheckrideAvailability, error) {
		return checkrideService.checkrideOperation.GetAvailabilityByID(req.AvailabilityID)
	})
	if res != nil {
		return res
	}
	if !req.Role.IsLeadership() && !(req.Role.IsExaminerEligible() && slot.ExaminerID == req.Uid) {
		return NewApiResponse[ResponseDeleteAvailability](&ErrNoPermission, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseDeleteAvailability](checkrideService.logger, func() (*interface{}, error) {
		return nil, checkrideService.checkrideOperation.DeleteAvailability(req.AvailabilityID)
	}); res != nil {
		return res
	}
	return NewApiResponse(&SuccessDeleteSlot, Unsatisfied, &ResponseDeleteAvailability{Deleted: true})
}

func (checkrideService *CheckrideService) BookCheckride(req *RequestBookCheckride) *ApiResponse[ResponseCheckride] {
	if req.TrainingID == 0 || req.AvailabilityID == 0 {
		return NewApiResponse[ResponseCheckride](&ErrLackParam, Unsatisfied, nil)
	}

	training, res := CallDBFuncAndCheckError[operation.Training, ResponseCheckride](checkrideService.logger, func() (*operation.Training, error) {
		return checkrideService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if training.TraineeID != req.Uid && !checkrideService.policy.CanManageTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseCheckride](&ErrNoPermission, Unsatisfied, nil)
	}

	checkride, res := CallDBFuncAndCheckError[operation.Checkride, ResponseCheckride](checkrideService.logger, func() (*operation.Checkride, error) {
		return checkrideService.checkrideOperation.BookCheckride(req.TrainingID, training.TraineeID, req.AvailabilityID)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessBookCheckride, Unsatisfied, (*ResponseCheckride)(checkride))
}

func (checkrideService *CheckrideService) ListCheckrides(req *RequestListCheckrides) *ApiResponse[ResponseCheckrideList] {
	if !req.Role.IsExaminerEligible() {
		return NewApiResponse[ResponseCheckrideList](&ErrNoPermission, Unsatisfied, nil)
	}

	checkrideService.purgeStale()

	var examinerID uint
	if !req.Role.IsLeadership() {
		examinerID = req.Uid
	}

	checkrides, err := checkrideService.checkrideOperation.GetCheckrides(examinerID)
	if err != nil {
		checkrideService.logger.ErrorF("Could not list checkrides: %v", err)
		return NewApiResponse[ResponseCheckrideList](&ErrDatabaseFail, Unsatisfied, nil)
	}

	return NewApiResponse(&SuccessCheckrideList, Unsatisfied, &ResponseCheckrideList{Items: checkrides})
}

func (checkrideService *CheckrideService) GetAssessment(req *RequestGetAssessment) *ApiResponse[ResponseCheckride] {
	checkride, res := CallDBFuncAndCheckError[operation.Checkride, ResponseCheckride](checkrideService.logger, func() (*operation.Checkride, error) {
		return checkrideService.checkrideOperation.GetCheckrideByID(req.CheckrideID)
	})
	if res != nil {
		return res
	}
	if !checkrideService.policy.CanViewCheckride(checkride, req.Uid, req.Role) {
		return NewApiResponse[ResponseCheckride](&ErrNoPermission, Unsatisfied, nil)
	}

	// An unreleased assessment stays between the examiners.
	if checkride.IsDraft && !checkrideService.policy.CanAssessCheckride(checkride, req.Uid, req.Role) {
		checkride.Assessment = nil
	}

	return NewApiResponse(&SuccessGetAssessment, Unsatisfied, (*ResponseCheckride)(checkride))
}

func (checkrideService *CheckrideService) SaveAssessment(req *RequestSaveAssessment) *ApiResponse[ResponseCheckride] {
	checkride, res := CallDBFuncAndCheckError[operation.Checkride, ResponseCheckride](checkrideService.logger, func() (*operation.Checkride, error) {
		return checkrideService.checkrideOperation.GetCheckrideByID(req.CheckrideID)
	})
	if res != nil {
		return res
	}
	if !checkrideService.policy.CanAssessCheckride(checkride, req.Uid, req.Role) {
		return NewApiResponse[ResponseCheckride](&ErrNoPermission, Unsatisfied, nil)
	}

	switch req.OverallResult {
	case operation.CheckrideIncomplete, operation.CheckridePassed, operation.CheckrideFailed:
	default:
		return NewApiResponse[ResponseCheckride](&ErrInvalidResult, Unsatisfied, nil)
	}

	// A released, settled checkride is immutable until explicitly
	// reverted to draft.
	if !checkride.IsDraft && checkride.Result != operation.CheckrideIncomplete &&
		(req.Release == nil || *req.Release) {
		return NewApiResponse[ResponseCheckride](&ErrCheckrideSettled, Unsatisfied, nil)
	}

	assessment := &operation.CheckrideAssessment{
		FlightPlanning: req.FlightPlanning,
		Airmanship:     req.Airmanship,
		Communication:  req.Communication,
		Procedures:     req.Procedures,
		OverallResult:  req.OverallResult,
		ExaminerNotes:  req.ExaminerNotes,
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseCheckride](checkrideService.logger, func() (*interface{}, error) {
		return nil, checkrideService.checkrideOperation.SaveAssessment(req.CheckrideID, assessment)
	}); res != nil {
		return res
	}

	if req.Release != nil {
		released, res := CallDBFuncAndCheckError[operation.Checkride, ResponseCheckride](checkrideService.logger, func() (*operation.Checkride, error) {
			return checkrideService.checkrideOperation.SetReleased(req.CheckrideID, *req.Release)
		})
		if res != nil {
			return res
		}
		if *req.Release {
			checkrideService.applyReleaseSideEffects(released)
		}
		return NewApiResponse(&SuccessSaveAssessment, Unsatisfied, (*ResponseCheckride)(released))
	}

	reloaded, res := CallDBFuncAndCheckError[operation.Checkride, ResponseCheckride](checkrideService.logger, func() (*operation.Checkride, error) {
		return checkrideService.checkrideOperation.GetCheckrideByID(req.CheckrideID)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessSaveAssessment, Unsatisfied, (*ResponseCheckride)(reloaded))
}

// applyReleaseSideEffects settles the training after a released verdict.
// A pass completes the training and promotes the trainee; a fail drops
// the readiness flag so the mentors decide when to try again.
func (checkrideService *CheckrideService) applyReleaseSideEffects(checkride *operation.Checkride) {
	switch checkride.Result {
	case operation.CheckridePassed:
		if err := checkrideService.trainingOperation.CompleteTraining(checkride.TrainingID); err != nil {
			checkrideService.logger.ErrorF("Could not complete training %d after passed checkride: %v", checkride.TrainingID, err)
		}
		if trainee, err := checkrideService.userOperation.GetUserByUid(checkride.TraineeID); err == nil {
			if err := checkrideService.userOperation.UpdateUserRole(trainee, operation.RoleCompletedTrainee); err != nil {
				checkrideService.logger.ErrorF("Could not promote cid %d after passed checkride: %v", trainee.Cid, err)
			}
			if err := checkrideService.userOperation.UpdateUserStatus(trainee, operation.StatusCompletedTrainee); err != nil {
				checkrideService.logger.ErrorF("Could not update status for cid %d: %v", trainee.Cid, err)
			}
		}
	case operation.CheckrideFailed:
		if err := checkrideService.trainingOperation.SetReadiness(checkride.TrainingID, false, ""); err != nil {
			checkrideService.logger.ErrorF("Could not reset readiness of training %d after failed checkride: %v", checkride.TrainingID, err)
		}
	default:
		return
	}

	if trainee, err := checkrideService.userOperation.GetUserByUid(checkride.TraineeID); err == nil {
		go func() {
			if err := checkrideService.emailService.SendCheckrideResultEmail(trainee, checkride); err != nil {
				checkrideService.logger.WarnF("Checkride result mail to cid %d failed: %v", trainee.Cid, err)
			}
		}()
	}
}

func (checkrideService *CheckrideService) CancelCheckride(req *RequestCancelCheckride) *ApiResponse[ResponseCancelCheckride] {
	checkride, res := CallDBFuncAndCheckError[operation.Checkride, ResponseCancelCheckride](checkrideService.logger, func() (*operation.Checkride, error) {
		return checkrideService.checkrideOperation.GetCheckrideByID(req.CheckrideID)
	})
	if res != nil {
		return res
	}

	allowed := checkride.TraineeID == req.Uid ||
		checkrideService.policy.CanAssessCheckride(checkride, req.Uid, req.Role)
	if !allowed {
		return NewApiResponse[ResponseCancelCheckride](&ErrNoPermission, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseCancelCheckride](checkrideService.logger, func() (*interface{}, error) {
		return nil, checkrideService.checkrideOperation.CancelCheckride(req.CheckrideID)
	}); res != nil {
		return res
	}

	return NewApiResponse(&SuccessCancelCheckride, Unsatisfied, &ResponseCancelCheckride{Cancelled: true})
}
