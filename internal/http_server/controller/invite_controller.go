// Package controller
package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type InviteController struct {
	logger  log.LoggerInterface
	service InviteServiceInterface
}

func NewInviteController(logger log.LoggerInterface, service InviteServiceInterface) *InviteController {
	return &InviteController{logger: logger, service: service}
}

func (controller *InviteController) CreateInvite(ctx echo.Context) error {
	data := &RequestCreateInvite{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.CreateInvite(data).Response(ctx)
}

func (controller *InviteController) AcceptInvite(ctx echo.Context) error {
	data := &RequestAcceptInvite{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.AcceptInvite(data).Response(ctx)
}
