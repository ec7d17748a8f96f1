// Package service
package service

import (
	"errors"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type TrainingService struct {
	logger                log.LoggerInterface
	policy                *Policy
	emailService          EmailServiceInterface
	userOperation         operation.UserOperationInterface
	registrationOperation operation.RegistrationOperationInterface
	trainingOperation     operation.TrainingOperationInterface
}

func NewTrainingService(
	logger log.LoggerInterface,
	policy *Policy,
	emailService EmailServiceInterface,
	userOperation operation.UserOperationInterface,
	registrationOperation operation.RegistrationOperationInterface,
	trainingOperation operation.TrainingOperationInterface,
) *TrainingService {
	return &TrainingService{
		logger:                logger,
		policy:                policy,
		emailService:          emailService,
		userOperation:         userOperation,
		registrationOperation: registrationOperation,
		trainingOperation:     trainingOperation,
	}
}

var (
	ErrNotPendingTrainee   = ApiStatus{StatusName: "NOT_PENDING_TRAINEE", Description: "target user is not awaiting assignment", HttpCode: Conflict}
	ErrNotMentorEligible   = ApiStatus{StatusName: "NOT_MENTOR_ELIGIBLE", Description: "target user cannot act as mentor", HttpCode: BadRequest}
	ErrInvalidAction       = ApiStatus{StatusName: "INVALID_ACTION", Description: "unknown review action", HttpCode: BadRequest}
	ErrMissingRequestText  = ApiStatus{StatusName: "MISSING_REQUEST_TEXT", Description: "readiness requires a request_text justification", HttpCode: BadRequest}
	SuccessAssignTrainee   = ApiStatus{StatusName: "TRAINEE_ASSIGNED", Description: "trainee assigned", HttpCode: Created}
	SuccessAssignReused    = ApiStatus{StatusName: "TRAINEE_REASSIGNED", Description: "trainee reassigned to existing training", HttpCode: Ok}
	SuccessTrainingChanged = ApiStatus{StatusName: "TRAINING_UPDATED", Description: "training updated", HttpCode: Ok}
	SuccessTrainingDeleted = ApiStatus{StatusName: "TRAINING_DELETED", Description: "training deleted", HttpCode: Ok}
	SuccessGetTraining     = ApiStatus{StatusName: "TRAINING_FETCHED", Description: "training fetched", HttpCode: Ok}
	SuccessTrainingList    = ApiStatus{StatusName: "TRAINING_LIST", Description: "trainings fetched", HttpCode: Ok}
	SuccessReviewDone      = ApiStatus{StatusName: "CANCELLATION_REVIEWED", Description: "cancellation reviewed", HttpCode: Ok}
)

// hasOrphanedTraining reports whether the trainee still owns a
// non-cancelled training that lost all its mentors. Such trainees keep
// the TRAINEE role, so re-assignment bypasses the pending gate and
// reattaches to the existing training.
func (trainingService *TrainingService) hasOrphanedTraining(traineeID uint) bool {
	training, err := trainingService.trainingOperation.GetNonCancelledByTrainee(traineeID)
	return err == nil && len(training.Mentors) == 0
}

func (trainingService *TrainingService) AssignTrainee(req *RequestAssignTrainee) *ApiResponse[ResponseTraining] {
	if !req.Role.IsMentorEligible() {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}
	if req.TraineeID == 0 {
		return NewApiResponse[ResponseTraining](&ErrLackParam, Unsatisfied, nil)
	}

	trainee, res := CallDBFuncAndCheckError[operation.User, ResponseTraining](trainingService.logger, func() (*operation.User, error) {
		return trainingService.userOperation.GetUserByUid(req.TraineeID)
	})
	if res != nil {
		return res
	}
	if trainee.Role != operation.RolePendingTrainee && !trainingService.hasOrphanedTraining(req.TraineeID) {
		return NewApiResponse[ResponseTraining](&ErrNotPendingTrainee, Unsatisfied, nil)
	}

	var training *operation.Training
	var outcome operation.AssignOutcome
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseTraining](trainingService.logger, func() (*interface{}, error) {
		var err error
		training, outcome, err = trainingService.trainingOperation.AssignMentor(req.TraineeID, req.Uid)
		return nil, err
	}); res != nil {
		return res
	}

	// Intake and role follow the assignment; failures here are logged
	// only, the training itself is already committed.
	if err := trainingService.registrationOperation.CompleteRegistration(trainee.Cid); err != nil &&
		!errors.Is(err, operation.ErrRegistrationNotFound) {
		trainingService.logger.ErrorF("Could not complete registration for cid %d: %v", trainee.Cid, err)
	}
	if err := trainingService.userOperation.UpdateUserRole(trainee, operation.RoleTrainee); err != nil {
		trainingService.logger.ErrorF("Could not promote cid %d to trainee: %v", trainee.Cid, err)
	}

	if mentor, err := trainingService.userOperation.GetUserByUid(req.Uid); err == nil {
		go func() {
			if err := trainingService.emailService.SendAssignmentEmail(trainee, mentor); err != nil {
				trainingService.logger.WarnF("Assignment mail to cid %d failed: %v", trainee.Cid, err)
			}
		}()
	}

	status := &SuccessAssignTrainee
	if outcome == operation.AssignReusedOrphan {
		status = &SuccessAssignReused
	}
	return NewApiResponse(status, Unsatisfied, (*ResponseTraining)(training))
}

func (trainingService *TrainingService) AddCoMentor(req *RequestAddCoMentor) *ApiResponse[ResponseTraining] {
	training, res := CallDBFuncAndCheckError[operation.Training, ResponseTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if !trainingService.policy.CanManageTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}

	mentor, res := CallDBFuncAndCheckError[operation.User, ResponseTraining](trainingService.logger, func() (*operation.User, error) {
		return trainingService.userOperation.GetUserByUid(req.MentorID)
	})
	if res != nil {
		return res
	}
	if !mentor.Role.IsMentorEligible() {
		return NewApiResponse[ResponseTraining](&ErrNotMentorEligible, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseTraining](trainingService.logger, func() (*interface{}, error) {
		return nil, trainingService.trainingOperation.AddMentor(req.TrainingID, req.MentorID)
	}); res != nil {
		return res
	}

	return trainingService.reloadTraining(req.TrainingID, &SuccessTrainingChanged)
}

func (trainingService *TrainingService) DropMentor(req *RequestDropMentor) *ApiResponse[ResponseTraining] {
	training, res := CallDBFuncAndCheckError[operation.Training, ResponseTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	// Mentors may detach themselves; anything else needs manage rights.
	if req.MentorID != req.Uid && !trainingService.policy.CanManageTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}
	if req.MentorID == req.Uid && !trainingService.policy.IsMentorOfTraining(training, req.Uid) {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseTraining](trainingService.logger, func() (*interface{}, error) {
		return nil, trainingService.trainingOperation.RemoveMentor(req.TrainingID, req.MentorID)
	}); res != nil {
		return res
	}

	return trainingService.reloadTraining(req.TrainingID, &SuccessTrainingChanged)
}

func (trainingService *TrainingService) DropTraining(req *RequestDropTraining) *ApiResponse[ResponseDropTraining] {
	training, res := CallDBFuncAndCheckError[operation.Training, ResponseDropTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if !trainingService.policy.CanManageTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseDropTraining](&ErrNoPermission, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseDropTraining](trainingService.logger, func() (*interface{}, error) {
		return nil, trainingService.trainingOperation.DeleteTraining(req.TrainingID)
	}); res != nil {
		return res
	}

	return NewApiResponse(&SuccessTrainingDeleted, Unsatisfied, &ResponseDropTraining{Deleted: true})
}

func (trainingService *TrainingService) GetTraining(req *RequestGetTraining) *ApiResponse[ResponseTraining] {
	training, res := CallDBFuncAndCheckError[operation.Training, ResponseTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if !trainingService.policy.CanViewTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessGetTraining, Unsatisfied, (*ResponseTraining)(training))
}

func (trainingService *TrainingService) GetTrainings(req *RequestTrainingList) *ApiResponse[ResponseTrainingList] {
	if !req.Role.IsMentorEligible() {
		return NewApiResponse[ResponseTrainingList](&ErrNoPermission, Unsatisfied, nil)
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 25
	}

	if !req.Role.IsLeadership() {
		trainings, err := trainingService.trainingOperation.GetTrainingsByMentor(req.Uid)
		if err != nil {
			trainingService.logger.ErrorF("Could not list trainings for mentor %d: %v", req.Uid, err)
			return NewApiResponse[ResponseTrainingList](&ErrDatabaseFail, Unsatisfied, nil)
		}
		return NewApiResponse(&SuccessTrainingList, Unsatisfied, &ResponseTrainingList{
			Items:    trainings,
			Page:     1,
			PageSize: len(trainings),
			Total:    int64(len(trainings)),
		})
	}

	trainings, total, err := trainingService.trainingOperation.GetTrainings(req.Page, req.PageSize)
	if err != nil {
		trainingService.logger.ErrorF("Could not list trainings: %v", err)
		return NewApiResponse[ResponseTrainingList](&ErrDatabaseFail, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessTrainingList, Unsatisfied, &ResponseTrainingList{
		Items:    trainings,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

func (trainingService *TrainingService) CancelTraining(req *RequestCancelTraining) *ApiResponse[ResponseTraining] {
	if status := CheckStruct(req); status != nil {
		return NewApiResponse[ResponseTraining](status, Unsatisfied, nil)
	}

	training, res := CallDBFuncAndCheckError[operation.Training, ResponseTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if !trainingService.policy.CanManageTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseTraining](trainingService.logger, func() (*interface{}, error) {
		return nil, trainingService.trainingOperation.CancelTraining(req.TrainingID, req.Reason)
	}); res != nil {
		return res
	}

	return trainingService.reloadTraining(req.TrainingID, &SuccessTrainingChanged)
}

func (trainingService *TrainingService) ReviewCancellation(req *RequestReviewCancellation) *ApiResponse[ResponseReviewCancellation] {
	if !req.Role.IsLeadership() {
		return NewApiResponse[ResponseReviewCancellation](&ErrNoPermission, Unsatisfied, nil)
	}

	training, res := CallDBFuncAndCheckError[operation.Training, ResponseReviewCancellation](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if training.Status != operation.TrainingCancelled {
		return NewApiResponse[ResponseReviewCancellation](&ErrTrainingNotCancelled, Unsatisfied, nil)
	}

	trainee, err := trainingService.userOperation.GetUserByUid(training.TraineeID)
	if err != nil {
		trainingService.logger.ErrorF("Trainee %d missing for training %d: %v", training.TraineeID, training.ID, err)
	}

	switch req.Action {
	case CancellationDelete:
		// Approving the deletion wipes the trainee entirely, training included.
		if trainee == nil {
			return NewApiResponse[ResponseReviewCancellation](&ErrUserNotFound, Unsatisfied, nil)
		}
		if _, res := CallDBFuncAndCheckError[interface{}, ResponseReviewCancellation](trainingService.logger, func() (*interface{}, error) {
			return nil, trainingService.userOperation.EraseUser(trainee.Cid)
		}); res != nil {
			return res
		}
	case CancellationReactivate:
		// The trainee goes back into the pending pool, so the old training
		// row is dropped instead of being revived.
		if _, res := CallDBFuncAndCheckError[interface{}, ResponseReviewCancellation](trainingService.logger, func() (*interface{}, error) {
			return nil, trainingService.trainingOperation.DeleteTraining(req.TrainingID)
		}); res != nil {
			return res
		}
		if trainee != nil {
			if err := trainingService.userOperation.UpdateUserRole(trainee, operation.RolePendingTrainee); err != nil {
				trainingService.logger.ErrorF("Could not reset cid %d to pending trainee: %v", trainee.Cid, err)
			}
			if err := trainingService.userOperation.UpdateUserStatus(trainee, ""); err != nil {
				trainingService.logger.ErrorF("Could not clear status of cid %d: %v", trainee.Cid, err)
			}
		}
	default:
		return NewApiResponse[ResponseReviewCancellation](&ErrInvalidAction, Unsatisfied, nil)
	}

	if trainee != nil {
		action := string(req.Action)
		go func() {
			if err := trainingService.emailService.SendCancellationReviewedEmail(trainee, action); err != nil {
				trainingService.logger.WarnF("Cancellation review mail to cid %d failed: %v", trainee.Cid, err)
			}
		}()
	}

	return NewApiResponse(&SuccessReviewDone, Unsatisfied, &ResponseReviewCancellation{Action: req.Action})
}

func (trainingService *TrainingService) SetReadiness(req *RequestSetReadiness) *ApiResponse[ResponseTraining] {
	// Flagging readiness without a written justification is not allowed.
	if req.Ready && req.RequestText == "" {
		return NewApiResponse[ResponseTraining](&ErrMissingRequestText, Unsatisfied, nil)
	}

	training, res := CallDBFuncAndCheckError[operation.Training, ResponseTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(req.TrainingID)
	})
	if res != nil {
		return res
	}
	if !trainingService.policy.CanManageTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseTraining](&ErrNoPermission, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseTraining](trainingService.logger, func() (*interface{}, error) {
		return nil, trainingService.trainingOperation.SetReadiness(req.TrainingID, req.Ready, req.RequestText)
	}); res != nil {
		return res
	}

	return trainingService.reloadTraining(req.TrainingID, &SuccessTrainingChanged)
}

func (trainingService *TrainingService) reloadTraining(trainingID uint, status *ApiStatus) *ApiResponse[ResponseTraining] {
	training, res := CallDBFuncAndCheckError[operation.Training, ResponseTraining](trainingService.logger, func() (*operation.Training, error) {
		return trainingService.trainingOperation.GetTrainingByID(trainingID)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(status, Unsatisfied, (*ResponseTraining)(training))
}
