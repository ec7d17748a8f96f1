// Package controller
package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type RegistrationController struct {
	logger  log.LoggerInterface
	service RegistrationServiceInterface
}

func NewRegistrationController(logger log.LoggerInterface, service RegistrationServiceInterface) *RegistrationController {
	return &RegistrationController{logger: logger, service: service}
}

func (controller *RegistrationController) SubmitRegistration(ctx echo.Context) error {
	data := &RequestSubmitRegistration{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.SubmitRegistration(data).Response(ctx)
}

func (controller *RegistrationController) GetRegistrations(ctx echo.Context) error {
	data := &RequestRegistrationList{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetRegistrations(data).Response(ctx)
}

func (controller *RegistrationController) DeclineRegistration(ctx echo.Context) error {
	data := &RequestDeclineRegistration{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.DeclineRegistration(data).Response(ctx)
}
