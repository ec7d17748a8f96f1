// Package controller
package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type CheckrideController struct {
	logger  log.LoggerInterface
	service CheckrideServiceInterface
}

func NewCheckrideController(logger log.LoggerInterface, service CheckrideServiceInterface) *CheckrideController {
	return &CheckrideController{logger: logger, service: service}
}

func (controller *CheckrideController) CreateAvailability(ctx echo.Context) error {
	data := &RequestCreateAvailability{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.CreateAvailability(data).Response(ctx)
}

func (controller *CheckrideController) ListAvailabilities(ctx echo.Context) error {
	data := &RequestListAvailabilities{}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.ListAvailabilities(data).Response(ctx)
}

func (controller *CheckrideController) DeleteAvailability(ctx echo.Context) error {
	data := &RequestDeleteAvailability{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.DeleteAvailability(data).Response(ctx)
}

func (controller *CheckrideController) BookCheckride(ctx echo.Context) error {
	data := &RequestBookCheckride{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.BookCheckride(data).Response(ctx)
}

func (controller *CheckrideController) ListCheckrides(ctx echo.Context) error {
	data := &RequestListCheckrides{}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.ListCheckrides(data).Response(ctx)
}

func (controller *CheckrideController) GetAssessment(ctx echo.Context) error {
	data := &RequestGetAssessment{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetAssessment(data).Response(ctx)
}

func (controller *CheckrideController) SaveAssessment(ctx echo.Context) error {
	data := &RequestSaveAssessment{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.SaveAssessment(data).Response(ctx)
}

func (controller *CheckrideController) CancelCheckride(ctx echo.Context) error {
	data := &RequestCancelCheckride{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.CancelCheckride(data).Response(ctx)
}
