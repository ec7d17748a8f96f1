// Package controller
package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type SessionController struct {
	logger  log.LoggerInterface
	service SessionServiceInterface
}

func NewSessionController(logger log.LoggerInterface, service SessionServiceInterface) *SessionController {
	return &SessionController{logger: logger, service: service}
}

func (controller *SessionController) LogSession(ctx echo.Context) error {
	data := &RequestLogSession{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.LogSession(data).Response(ctx)
}

func (controller *SessionController) UpdateSession(ctx echo.Context) error {
	data := &RequestUpdateSession{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.UpdateSession(data).Response(ctx)
}

func (controller *SessionController) ReleaseSession(ctx echo.Context) error {
	data := &RequestReleaseSession{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.ReleaseSession(data).Response(ctx)
}

func (controller *SessionController) ListSessions(ctx echo.Context) error {
	data := &RequestListSessions{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.ListSessions(data).Response(ctx)
}

func (controller *SessionController) GetProgress(ctx echo.Context) error {
	data := &RequestGetProgress{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetProgress(data).Response(ctx)
}

func (controller *SessionController) DeleteSession(ctx echo.Context) error {
	data := &RequestDeleteSession{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.DeleteSession(data).Response(ctx)
}
