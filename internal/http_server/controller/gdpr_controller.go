// Package controller
package controller

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

// GdprController authenticates with the static privacy-tooling token,
// not the session JWT.
type GdprController struct {
	logger  log.LoggerInterface
	service GdprServiceInterface
}

func NewGdprController(logger log.LoggerInterface, service GdprServiceInterface) *GdprController {
	return &GdprController{logger: logger, service: service}
}

var errGdprToken = ApiStatus{StatusName: "INVALID_GDPR_TOKEN", Description: "missing or wrong gdpr token", HttpCode: Unauthorized}

func (controller *GdprController) authorized(ctx echo.Context) bool {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return false
	}
	return controller.service.VerifyToken(token)
}

func (controller *GdprController) ExportData(ctx echo.Context) error {
	if !controller.authorized(ctx) {
		return NewErrorResponse(ctx, &errGdprToken)
	}
	data := &RequestGdprExport{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.ExportData(data).Response(ctx)
}

func (controller *GdprController) EraseData(ctx echo.Context) error {
	if !controller.authorized(ctx) {
		return NewErrorResponse(ctx, &errGdprToken)
	}
	data := &RequestGdprErase{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.EraseData(data).Response(ctx)
}
