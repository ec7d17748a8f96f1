// Package service
package service

import (
	"time"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type SessionService struct {
	logger            log.LoggerInterface
	policy            *Policy
	emailService      EmailServiceInterface
	userOperation     operation.UserOperationInterface
	trainingOperation operation.TrainingOperationInterface
	sessionOperation  operation.SessionOperationInterface
}

func NewSessionService(
	logger log.LoggerInterface,
	policy *Policy,
	emailService EmailServiceInterface,
	userOperation operation.UserOperationInterface,
	trainingOperation operation.TrainingOperationInterface,
	sessionOperation operation.SessionOperationInterface,
) *SessionService {
	return &SessionService{
		logger:            logger,
		policy:            policy,
		emailService:      emailService,
		userOperation:     userOperation,
		trainingOperation: trainingOperation,
		sessionOperation:  sessionOperation,
	}
}

var (
	ErrUnknownTopic       = ApiStatus{StatusName: "UNKNOWN_TOPIC", Description: "topic is not part of the curriculum", HttpCode: BadRequest}
	ErrInvalidSessionDate = ApiStatus{StatusName: "INVALID_SESSION_DATE", Description: "session_date is not a valid RFC 3339 timestamp", HttpCode: BadRequest}
	ErrSessionMismatch    = ApiStatus{StatusName: "SESSION_MISMATCH", Description: "session does not belong to this training", HttpCode: NotFound}
	SuccessLogSession     = ApiStatus{StatusName: "SESSION_LOGGED", Description: "session logged", HttpCode: Created}
	SuccessUpdateSession  = ApiStatus{StatusName: "SESSION_UPDATED", Description: "session updated", HttpCode: Ok}
	SuccessReleaseSession = ApiStatus{StatusName: "SESSION_RELEASED", Description: "session released", HttpCode: Ok}
	SuccessDeleteSession  = ApiStatus{StatusName: "SESSION_DELETED", Description: "session deleted", HttpCode: Ok}
	SuccessSessionList    = ApiStatus{StatusName: "SESSION_LIST", Description: "sessions fetched", HttpCode: Ok}
	SuccessGetProgress    = ApiStatus{StatusName: "PROGRESS_FETCHED", Description: "progress fetched", HttpCode: Ok}
)

func (sessionService *SessionService) buildTopics(entries []TopicEntry) ([]*operation.TrainingSessionTopic, *ApiStatus) {
	topics := make([]*operation.TrainingSessionTopic, 0, len(entries))
	for _, entry := range entries {
		if _, ok := operation.TopicCategoryOf(entry.Topic); !ok {
			return nil, &ErrUnknownTopic
		}
		topic := &operation.TrainingSessionTopic{
			Topic:           entry.Topic,
			TheoryCovered:   entry.TheoryCovered,
			PracticeCovered: entry.PracticeCovered,
			Comment:         entry.Comment,
			SortOrder:       entry.Order,
		}
		operation.NormalizeTopic(topic)
		topics = append(topics, topic)
	}
	return topics, nil
}

func (sessionService *SessionService) loadManagedTraining(trainingID, uid uint, role operation.Role) (*operation.Training, *ApiStatus) {
	training, err := sessionService.trainingOperation.GetTrainingByID(trainingID)
	if err != nil {
		return nil, &ErrTrainingNotFound
	}
	if !sessionService.policy.CanManageTraining(training, uid, role) {
		return nil, &ErrNoPermission
	}
	return training, nil
}

func (sessionService *SessionService) LogSession(req *RequestLogSession) *ApiResponse[ResponseSession] {
	if status := CheckStruct(req); status != nil {
		return NewApiResponse[ResponseSession](status, Unsatisfied, nil)
	}

	training, status := sessionService.loadManagedTraining(req.TrainingID, req.Uid, req.Role)
	if status != nil {
		return NewApiResponse[ResponseSession](status, Unsatisfied, nil)
	}
	if training.Status != operation.TrainingActive {
		return NewApiResponse[ResponseSession](&ErrTrainingNotActive, Unsatisfied, nil)
	}

	sessionDate, err := time.Parse(time.RFC3339, req.SessionDate)
	if err != nil {
		return NewApiResponse[ResponseSession](&ErrInvalidSessionDate, Unsatisfied, nil)
	}

	topics, topicStatus := sessionService.buildTopics(req.Topics)
	if topicStatus != nil {
		return NewApiResponse[ResponseSession](topicStatus, Unsatisfied, nil)
	}

	isDraft := true
	if req.IsDraft != nil {
		isDraft = *req.IsDraft
	}

	session := &operation.TrainingSession{
		TrainingID:  req.TrainingID,
		MentorID:    req.Uid,
		LessonType:  req.LessonType,
		SessionDate: sessionDate,
		Comments:    req.Comments,
		IsDraft:     isDraft,
		Topics:      topics,
	}
	if !isDraft {
		now := time.Now()
		session.ReleasedAt = &now
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseSession](sessionService.logger, func() (*interface{}, error) {
		return nil, sessionService.sessionOperation.CreateSession(session)
	}); res != nil {
		return res
	}

	if !isDraft {
		sessionService.notifyRelease(training.TraineeID, session)
	}

	return NewApiResponse(&SuccessLogSession, Unsatisfied, (*ResponseSession)(session))
}

func (sessionService *SessionService) UpdateSession(req *RequestUpdateSession) *ApiResponse[ResponseSession] {
	_, status := sessionService.loadManagedTraining(req.TrainingID, req.Uid, req.Role)
	if status != nil {
		return NewApiResponse[ResponseSession](status, Unsatisfied, nil)
	}

	existing, res := CallDBFuncAndCheckError[operation.TrainingSession, ResponseSession](sessionService.logger, func() (*operation.TrainingSession, error) {
		return sessionService.sessionOperation.GetSessionByID(req.SessionID)
	})
	if res != nil {
		return res
	}
	if existing.TrainingID != req.TrainingID {
		return NewApiResponse[ResponseSession](&ErrSessionMismatch, Unsatisfied, nil)
	}
	if !existing.IsDraft {
		return NewApiResponse[ResponseSession](&ErrSessionReleased, Unsatisfied, nil)
	}

	sessionDate, err := time.Parse(time.RFC3339, req.SessionDate)
	if err != nil {
		return NewApiResponse[ResponseSession](&ErrInvalidSessionDate, Unsatisfied, nil)
	}

	topics, topicStatus := sessionService.buildTopics(req.Topics)
	if topicStatus != nil {
		return NewApiResponse[ResponseSession](topicStatus, Unsatisfied, nil)
	}

	isDraft := true
	if req.IsDraft != nil {
		isDraft = *req.IsDraft
	}

	// The replacement stays a draft; clearing the flag goes through the
	// release gate below so ReleasedAt is stamped exactly once.
	replacement := &operation.TrainingSession{
		LessonType:  req.LessonType,
		SessionDate: sessionDate,
		Comments:    req.Comments,
		IsDraft:     true,
		Topics:      topics,
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseSession](sessionService.logger, func() (*interface{}, error) {
		return nil, sessionService.sessionOperation.ReplaceSession(req.SessionID, replacement)
	}); res != nil {
		return res
	}

	// Saving with the draft flag cleared is an implicit release.
	if !isDraft {
		return sessionService.ReleaseSession(&RequestReleaseSession{
			JwtHeader:  req.JwtHeader,
			TrainingID: req.TrainingID,
			SessionID:  req.SessionID,
		})
	}

	session, res := CallDBFuncAndCheckError[operation.TrainingSession, ResponseSession](sessionService.logger, func() (*operation.TrainingSession, error) {
		return sessionService.sessionOperation.GetSessionByID(req.SessionID)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessUpdateSession, Unsatisfied, (*ResponseSession)(session))
}

func (sessionService *SessionService) ReleaseSession(req *RequestReleaseSession) *ApiResponse[ResponseSession] {
	training, status := sessionService.loadManagedTraining(req.TrainingID, req.Uid, req.Role)
	if status != nil {
		return NewApiResponse[ResponseSession](status, Unsatisfied, nil)
	}

	existing, res := CallDBFuncAndCheckError[operation.TrainingSession, ResponseSession](sessionService.logger, func() (*operation.TrainingSession, error) {
		return sessionService.sessionOperation.GetSessionByID(req.SessionID)
	})
	if res != nil {
		return res
	}
	if existing.TrainingID != req.TrainingID {
		return NewApiResponse[ResponseSession](&ErrSessionMismatch, Unsatisfied, nil)
	}

	session, res := CallDBFuncAndCheckError[operation.TrainingSession, ResponseSession](sessionService.logger, func() (*operation.TrainingSession, error) {
		return sessionService.sessionOperation.ReleaseSession(req.SessionID)
	})
	if res != nil {
		return res
	}

	sessionService.notifyRelease(training.TraineeID, session)

	return NewApiResponse(&SuccessReleaseSession, Unsatisfied, (*ResponseSession)(session))
}

func (sessionService *SessionService) DeleteSession(req *RequestDeleteSession) *ApiResponse[ResponseDeleteSession] {
	if _, status := sessionService.loadManagedTraining(req.TrainingID, req.Uid, req.Role); status != nil {
		return NewApiResponse[ResponseDeleteSession](status, Unsatisfied, nil)
	}

	existing, res := CallDBFuncAndCheckError[operation.TrainingSession, ResponseDeleteSession](sessionService.logger, func() (*operation.TrainingSession, error) {
		return sessionService.sessionOperation.GetSessionByID(req.SessionID)
	})
	if res != nil {
		return res
	}
	if existing.TrainingID != req.TrainingID {
		return NewApiResponse[ResponseDeleteSession](&ErrSessionMismatch, Unsatisfied, nil)
	}
	if !existing.IsDraft {
		return NewApiResponse[ResponseDeleteSession](&ErrSessionReleased, Unsatisfied, nil)
	}

	if _, res := CallDBFuncAndCheckError[interface{}, ResponseDeleteSession](sessionService.logger, func() (*interface{}, error) {
		return nil, sessionService.sessionOperation.DeleteSession(req.SessionID)
	}); res != nil {
		return res
	}
	return NewApiResponse(&SuccessDeleteSession, Unsatisfied, &ResponseDeleteSession{Deleted: true})
}

func (sessionService *SessionService) ListSessions(req *RequestListSessions) *ApiResponse[ResponseSessionList] {
	training, err := sessionService.trainingOperation.GetTrainingByID(req.TrainingID)
	if err != nil {
		return NewApiResponse[ResponseSessionList](&ErrTrainingNotFound, Unsatisfied, nil)
	}
	if !sessionService.policy.CanViewTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseSessionList](&ErrNoPermission, Unsatisfied, nil)
	}

	// Drafts stay between the mentors (and a booked examiner) until release.
	includeDrafts := sessionService.policy.CanViewDraftSessions(training, req.Uid, req.Role)

	sessions, err := sessionService.sessionOperation.GetSessionsByTraining(req.TrainingID, includeDrafts)
	if err != nil {
		sessionService.logger.ErrorF("Could not list sessions for training %d: %v", req.TrainingID, err)
		return NewApiResponse[ResponseSessionList](&ErrDatabaseFail, Unsatisfied, nil)
	}

	return NewApiResponse(&SuccessSessionList, Unsatisfied, &ResponseSessionList{Items: sessions})
}

func (sessionService *SessionService) GetProgress(req *RequestGetProgress) *ApiResponse[ResponseProgress] {
	training, err := sessionService.trainingOperation.GetTrainingByID(req.TrainingID)
	if err != nil {
		return NewApiResponse[ResponseProgress](&ErrTrainingNotFound, Unsatisfied, nil)
	}
	if !sessionService.policy.CanViewTraining(training, req.Uid, req.Role) {
		return NewApiResponse[ResponseProgress](&ErrNoPermission, Unsatisfied, nil)
	}

	includeDrafts := req.IncludeDrafts && sessionService.policy.CanViewDraftSessions(training, req.Uid, req.Role)

	sessions, err := sessionService.sessionOperation.GetSessionsByTraining(req.TrainingID, includeDrafts)
	if err != nil {
		sessionService.logger.ErrorF("Could not aggregate progress for training %d: %v", req.TrainingID, err)
		return NewApiResponse[ResponseProgress](&ErrDatabaseFail, Unsatisfied, nil)
	}

	topics, earned, possible := operation.AggregateCoverage(sessions)
	return NewApiResponse(&SuccessGetProgress, Unsatisfied, &ResponseProgress{
		Topics:   topics,
		Earned:   earned,
		Possible: possible,
	})
}

func (sessionService *SessionService) notifyRelease(traineeID uint, session *operation.TrainingSession) {
	trainee, err := sessionService.userOperation.GetUserByUid(traineeID)
	if err != nil {
		return
	}
	go func() {
		if err := sessionService.emailService.SendSessionReleasedEmail(trainee, session); err != nil {
			sessionService.logger.WarnF("Session release mail to cid %d failed: %v", trainee.Cid, err)
		}
	}()
}
