// Package controller
package controller

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

// claimsHeader pulls the decoded JWT claims out of the echo context.
func claimsHeader(ctx echo.Context) (*Claims, JwtHeader) {
	token := ctx.Get("user").(*jwt.Token)
	claims := token.Claims.(*Claims)
	return claims, JwtHeader{Uid: claims.Uid, Cid: claims.Cid, Role: claims.Role}
}

type AuthController struct {
	logger  log.LoggerInterface
	service AuthServiceInterface
}

func NewAuthController(logger log.LoggerInterface, service AuthServiceInterface) *AuthController {
	return &AuthController{logger: logger, service: service}
}

func (controller *AuthController) UserLogin(ctx echo.Context) error {
	data := &RequestUserLogin{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.UserLogin(data).Response(ctx)
}

func (controller *AuthController) GetAuthURL(ctx echo.Context) error {
	data := &RequestAuthURL{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.GetAuthURL(data).Response(ctx)
}

func (controller *AuthController) HandleCallback(ctx echo.Context) error {
	data := &RequestAuthCallback{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.HandleCallback(data).Response(ctx)
}

func (controller *AuthController) GetCurrentProfile(ctx echo.Context) error {
	claims, _ := claimsHeader(ctx)
	data := &RequestCurrentProfile{Uid: claims.Uid}
	return controller.service.GetCurrentProfile(data).Response(ctx)
}

func (controller *AuthController) GetToken(ctx echo.Context) error {
	claims, header := claimsHeader(ctx)
	data := &RequestGetToken{
		JwtHeader:  header,
		FlushToken: claims.FlushToken,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	return controller.service.GetTokenWithFlushToken(data).Response(ctx)
}
