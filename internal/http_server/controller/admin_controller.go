// Package controller
package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type AdminController struct {
	logger  log.LoggerInterface
	service AdminServiceInterface
}

func NewAdminController(logger log.LoggerInterface, service AdminServiceInterface) *AdminController {
	return &AdminController{logger: logger, service: service}
}

func (controller *AdminController) GetUsers(ctx echo.Context) error {
	data := &RequestUserList{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetUsers(data).Response(ctx)
}

func (controller *AdminController) EditUserRole(ctx echo.Context) error {
	data := &RequestEditUserRole{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.EditUserRole(data).Response(ctx)
}

func (controller *AdminController) EditUserStatus(ctx echo.Context) error {
	data := &RequestEditUserStatus{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.EditUserStatus(data).Response(ctx)
}

func (controller *AdminController) GetCoverageReport(ctx echo.Context) error {
	data := &RequestCoverageReport{}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetCoverageReport(data).Response(ctx)
}
