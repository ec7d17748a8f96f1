// Package service
package service

import (
	"errors"
	"fmt"

	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type InviteService struct {
	logger                log.LoggerInterface
	config                *c.HttpServerConfig
	emailService          EmailServiceInterface
	userOperation         operation.UserOperationInterface
	registrationOperation operation.RegistrationOperationInterface
	trainingOperation     operation.TrainingOperationInterface
	inviteOperation       operation.InviteOperationInterface
}

func NewInviteService(
	logger log.LoggerInterface,
	config *c.HttpServerConfig,
	emailService EmailServiceInterface,
	userOperation operation.UserOperationInterface,
	registrationOperation operation.RegistrationOperationInterface,
	trainingOperation operation.TrainingOperationInterface,
	inviteOperation operation.InviteOperationInterface,
) *InviteService {
	return &InviteService{
		logger:                logger,
		config:                config,
		emailService:          emailService,
		userOperation:         userOperation,
		registrationOperation: registrationOperation,
		trainingOperation:     trainingOperation,
		inviteOperation:       inviteOperation,
	}
}

var (
	ErrInviteCidMismatch = ApiStatus{StatusName: "INVITE_CID_MISMATCH", Description: "invite was issued for a different cid", HttpCode: PermissionDenied}
	SuccessCreateInvite  = ApiStatus{StatusName: "INVITE_CREATED", Description: "invite created", HttpCode: Created}
	SuccessAcceptInvite  = ApiStatus{StatusName: "INVITE_ACCEPTED", Description: "invite accepted", HttpCode: Ok}
)

func (inviteService *InviteService) CreateInvite(req *RequestCreateInvite) *ApiResponse[ResponseCreateInvite] {
	if !req.Role.IsMentorEligible() {
		return NewApiResponse[ResponseCreateInvite](&ErrNoPermission, Unsatisfied, nil)
	}
	if status := CheckStruct(req); status != nil {
		return NewApiResponse[ResponseCreateInvite](status, Unsatisfied, nil)
	}
	if status := cidValidator.CheckInt(req.TraineeCid); status != nil {
		return NewApiResponse[ResponseCreateInvite](status, Unsatisfied, nil)
	}

	invite, res := CallDBFuncAndCheckError[operation.MentorInvite, ResponseCreateInvite](inviteService.logger, func() (*operation.MentorInvite, error) {
		return inviteService.inviteOperation.CreateInvite(req.Uid, req.TraineeCid, req.Anmeldetext)
	})
	if res != nil {
		return res
	}

	url := fmt.Sprintf("%s/invites/%s", inviteService.config.ServerAddress, invite.Token)

	if req.Email != "" {
		address := req.Email
		go func() {
			if err := inviteService.emailService.SendInviteEmail(address, invite, url); err != nil {
				inviteService.logger.WarnF("Invite mail to %s failed: %v", address, err)
			}
		}()
	}

	return NewApiResponse(&SuccessCreateInvite, Unsatisfied, &ResponseCreateInvite{
		Invite: invite,
		URL:    url,
	})
}

// AcceptInvite consumes the token and materializes the whole onboarding
// chain for the invited trainee: a completed registration, the trainee
// role and a training with the inviting mentor attached.
func (inviteService *InviteService) AcceptInvite(req *RequestAcceptInvite) *ApiResponse[ResponseAcceptInvite] {
	if req.Token == "" {
		return NewApiResponse[ResponseAcceptInvite](&ErrLackParam, Unsatisfied, nil)
	}

	invite, err := inviteService.inviteOperation.GetInviteByToken(req.Token)
	if err != nil {
		return NewApiResponse[ResponseAcceptInvite](&ErrInviteNotFound, Unsatisfied, nil)
	}
	if invite.TraineeCid != req.Cid {
		return NewApiResponse[ResponseAcceptInvite](&ErrInviteCidMismatch, Unsatisfied, nil)
	}

	invite, res := CallDBFuncAndCheckError[operation.MentorInvite, ResponseAcceptInvite](inviteService.logger, func() (*operation.MentorInvite, error) {
		return inviteService.inviteOperation.ConsumeInvite(req.Token)
	})
	if res != nil {
		return res
	}

	trainee, res := CallDBFuncAndCheckError[operation.User, ResponseAcceptInvite](inviteService.logger, func() (*operation.User, error) {
		return inviteService.userOperation.GetUserByUid(req.Uid)
	})
	if res != nil {
		return res
	}

	// Invited trainees skip the public intake; the registration record
	// is created completed with the invite text as remarks.
	registration := &operation.Registration{
		Cid:         trainee.Cid,
		Simulator:   "unknown",
		Aircraft:    "unknown",
		PilotClient: "unknown",
		Experience:  invite.Anmeldetext,
		Schedule:    "per invite",
		Remarks:     invite.Anmeldetext,
	}
	if err := inviteService.registrationOperation.UpsertRegistration(registration); err != nil &&
		!errors.Is(err, operation.ErrRegistrationActive) {
		inviteService.logger.ErrorF("Could not create registration for invited cid %d: %v", trainee.Cid, err)
	}
	if err := inviteService.registrationOperation.CompleteRegistration(trainee.Cid); err != nil {
		inviteService.logger.ErrorF("Could not complete registration for invited cid %d: %v", trainee.Cid, err)
	}

	var training *operation.Training
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseAcceptInvite](inviteService.logger, func() (*interface{}, error) {
		var err error
		training, _, err = inviteService.trainingOperation.AssignMentor(req.Uid, invite.MentorID)
		return nil, err
	}); res != nil {
		return res
	}

	if err := inviteService.userOperation.UpdateUserRole(trainee, operation.RoleTrainee); err != nil {
		inviteService.logger.ErrorF("Could not promote invited cid %d to trainee: %v", trainee.Cid, err)
	}

	return NewApiResponse(&SuccessAcceptInvite, Unsatisfied, &ResponseAcceptInvite{Training: training})
}
