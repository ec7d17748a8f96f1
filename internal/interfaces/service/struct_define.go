// Package service
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
)

type HttpCode int

const (
	Unsatisfied         HttpCode = 0
	Ok                  HttpCode = 200
	Created             HttpCode = 201
	BadRequest          HttpCode = 400
	Unauthorized        HttpCode = 401
	PermissionDenied    HttpCode = 403
	NotFound            HttpCode = 404
	Conflict            HttpCode = 409
	ServerInternalError HttpCode = 500
)

func (hc HttpCode) Code() int {
	return int(hc)
}

type ApiStatus struct {
	StatusName  string
	Description string
	HttpCode    HttpCode
}

type ApiResponse[T any] struct {
	HttpCode int    `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Data     *T     `json:"data"`
}

// Claims is the session payload issued after login. Role travels in the
// token; relationship checks are always re-read from the database.
type Claims struct {
	Uid        uint           `json:"uid"`
	Cid        int            `json:"cid"`
	Name       string         `json:"name"`
	Role       operation.Role `json:"role"`
	FlushToken bool           `json:"flushToken"`
	config     *c.JWTConfig
	jwt.RegisteredClaims
}

// JwtHeader carries the decoded claims into request DTOs.
type JwtHeader struct {
	Uid  uint
	Cid  int
	Role operation.Role
}

func NewClaims(config *c.JWTConfig, user *operation.User, flushToken bool) *Claims {
	expiredDuration := config.ExpiresDuration
	if flushToken {
		expiredDuration += config.RefreshDuration
	}
	return &Claims{
		Uid:        user.ID,
		Cid:        user.Cid,
		Name:       user.Name,
		Role:       user.Role,
		FlushToken: flushToken,
		config:     config,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "PmpTrainingServer",
			Subject:   user.Name,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiredDuration)),
		},
	}
}

func (claim *Claims) GenerateKey() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claim)
	tokenString, _ := token.SignedString([]byte(claim.config.Secret))
	return tokenString
}

func (res *ApiResponse[T]) Response(ctx echo.Context) error {
	return ctx.JSON(res.HttpCode, res)
}

var (
	ErrIllegalParam          = ApiStatus{"PARAM_ERROR", "invalid parameter", BadRequest}
	ErrLackParam             = ApiStatus{"PARAM_LACK_ERROR", "missing parameter", BadRequest}
	ErrNoPermission          = ApiStatus{"NO_PERMISSION", "not permitted", PermissionDenied}
	ErrDatabaseFail          = ApiStatus{"DATABASE_ERROR", "internal server error", ServerInternalError}
	ErrUserNotFound          = ApiStatus{"USER_NOT_FOUND", "user does not exist", NotFound}
	ErrTrainingNotFound      = ApiStatus{"TRAINING_NOT_FOUND", "training does not exist", NotFound}
	ErrSessionNotFound       = ApiStatus{"SESSION_NOT_FOUND", "training session does not exist", NotFound}
	ErrCheckrideNotFound     = ApiStatus{"CHECKRIDE_NOT_FOUND", "checkride does not exist", NotFound}
	ErrSlotNotFound          = ApiStatus{"SLOT_NOT_FOUND", "availability slot does not exist", NotFound}
	ErrInviteNotFound        = ApiStatus{"INVITE_NOT_FOUND", "invite does not exist", NotFound}
	ErrRegistrationNotFound  = ApiStatus{"REGISTRATION_NOT_FOUND", "registration does not exist", NotFound}
	ErrRegistrationActive    = ApiStatus{"REGISTRATION_EXISTS", "an active registration already exists", Conflict}
	ErrAlreadyAssigned       = ApiStatus{"ALREADY_ASSIGNED", "trainee is already assigned to a mentor", Conflict}
	ErrMentorCap             = ApiStatus{"MENTOR_LIMIT", "training already has the maximum number of mentors", Conflict}
	ErrMentorAttached        = ApiStatus{"MENTOR_ATTACHED", "mentor is already attached to this training", Conflict}
	ErrMentorNotAttached     = ApiStatus{"MENTOR_NOT_ATTACHED", "mentor is not attached to this training", NotFound}
	ErrTrainingNotActive     = ApiStatus{"TRAINING_NOT_ACTIVE", "training is not active", Conflict}
	ErrTrainingNotCancelled  = ApiStatus{"TRAINING_NOT_CANCELLED", "training is not cancelled", Conflict}
	ErrSessionReleased       = ApiStatus{"SESSION_RELEASED", "training session is already released", Conflict}
	ErrSlotTaken             = ApiStatus{"SLOT_TAKEN", "availability slot is no longer available", Conflict}
	ErrNotReady              = ApiStatus{"NOT_READY", "training is not flagged ready for checkride", Conflict}
	ErrCheckrideBooked       = ApiStatus{"CHECKRIDE_BOOKED", "a checkride is already booked for this training", Conflict}
	ErrCheckridePassed       = ApiStatus{"CHECKRIDE_PASSED", "checkride has already been passed", Conflict}
	ErrCheckrideSettled      = ApiStatus{"CHECKRIDE_SETTLED", "checkride result is already settled", Conflict}
	ErrInviteExpired         = ApiStatus{"INVITE_EXPIRED", "invite has expired", Conflict}
	ErrInviteUsed            = ApiStatus{"INVITE_USED", "invite has already been used", Conflict}
	ErrCidTaken              = ApiStatus{"CID_TAKEN", "cid is already registered", Conflict}
	ErrMissingOrMalformedJwt = ApiStatus{"MISSING_OR_MALFORMED_JWT", "missing or malformed session token", BadRequest}
	ErrInvalidOrExpiredJwt   = ApiStatus{"INVALID_OR_EXPIRED_JWT", "invalid or expired session token", Unauthorized}
	ErrUnknownJwt            = ApiStatus{"UNKNOWN_JWT_ERROR", "unknown session token error", ServerInternalError}
)

func NewErrorResponse(ctx echo.Context, codeStatus *ApiStatus) error {
	return NewApiResponse[any](codeStatus, Unsatisfied, nil).Response(ctx)
}

func NewApiResponse[T any](codeStatus *ApiStatus, httpCode HttpCode, data *T) *ApiResponse[T] {
	if httpCode == Unsatisfied {
		httpCode = codeStatus.HttpCode
	}
	if httpCode == Unsatisfied {
		httpCode = Ok
	}
	return &ApiResponse[T]{
		HttpCode: httpCode.Code(),
		Code:     codeStatus.StatusName,
		Message:  codeStatus.Description,
		Data:     data,
	}
}

// CallDBFuncAndCheckError runs a persistence call and translates the
// aggregate sentinel errors into API statuses.
func CallDBFuncAndCheckError[R any, T any](logger log.LoggerInterface, fc func() (*R, error)) (*R, *ApiResponse[T]) {
	result, err := fc()
	switch {
	case errors.Is(err, operation.ErrUserNotFound):
		return nil, NewApiResponse[T](&ErrUserNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrTrainingNotFound):
		return nil, NewApiResponse[T](&ErrTrainingNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrSessionNotFound):
		return nil, NewApiResponse[T](&ErrSessionNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrCheckrideNotFound):
		return nil, NewApiResponse[T](&ErrCheckrideNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrSlotNotFound):
		return nil, NewApiResponse[T](&ErrSlotNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrInviteNotFound):
		return nil, NewApiResponse[T](&ErrInviteNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrRegistrationNotFound):
		return nil, NewApiResponse[T](&ErrRegistrationNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrRegistrationActive):
		return nil, NewApiResponse[T](&ErrRegistrationActive, Unsatisfied, nil)
	case errors.Is(err, operation.ErrAlreadyAssigned):
		return nil, NewApiResponse[T](&ErrAlreadyAssigned, Unsatisfied, nil)
	case errors.Is(err, operation.ErrMentorCap):
		return nil, NewApiResponse[T](&ErrMentorCap, Unsatisfied, nil)
	case errors.Is(err, operation.ErrMentorAttached):
		return nil, NewApiResponse[T](&ErrMentorAttached, Unsatisfied, nil)
	case errors.Is(err, operation.ErrMentorNotAttached):
		return nil, NewApiResponse[T](&ErrMentorNotAttached, Unsatisfied, nil)
	case errors.Is(err, operation.ErrTrainingNotActive):
		return nil, NewApiResponse[T](&ErrTrainingNotActive, Unsatisfied, nil)
	case errors.Is(err, operation.ErrSessionReleased):
		return nil, NewApiResponse[T](&ErrSessionReleased, Unsatisfied, nil)
	case errors.Is(err, operation.ErrSlotTaken):
		return nil, NewApiResponse[T](&ErrSlotTaken, Unsatisfied, nil)
	case errors.Is(err, operation.ErrNotReady):
		return nil, NewApiResponse[T](&ErrNotReady, Unsatisfied, nil)
	case errors.Is(err, operation.ErrCheckrideBooked):
		return nil, NewApiResponse[T](&ErrCheckrideBooked, Unsatisfied, nil)
	case errors.Is(err, operation.ErrCheckridePassed):
		return nil, NewApiResponse[T](&ErrCheckridePassed, Unsatisfied, nil)
	case errors.Is(err, operation.ErrCheckrideSettled):
		return nil, NewApiResponse[T](&ErrCheckrideSettled, Unsatisfied, nil)
	case errors.Is(err, operation.ErrInviteExpired):
		return nil, NewApiResponse[T](&ErrInviteExpired, Unsatisfied, nil)
	case errors.Is(err, operation.ErrInviteUsed):
		return nil, NewApiResponse[T](&ErrInviteUsed, Unsatisfied, nil)
	case errors.Is(err, operation.ErrCidTaken):
		return nil, NewApiResponse[T](&ErrCidTaken, Unsatisfied, nil)
	case err != nil:
		logger.ErrorF("Error in DB function: %v", err)
		return nil, NewApiResponse[T](&ErrDatabaseFail, Unsatisfied, nil)
	default:
		return result, nil
	}
}
