// Package controller
package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type TrainingController struct {
	logger  log.LoggerInterface
	service TrainingServiceInterface
}

func NewTrainingController(logger log.LoggerInterface, service TrainingServiceInterface) *TrainingController {
	return &TrainingController{logger: logger, service: service}
}

func (controller *TrainingController) AssignTrainee(ctx echo.Context) error {
	data := &RequestAssignTrainee{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.AssignTrainee(data).Response(ctx)
}

func (controller *TrainingController) AddCoMentor(ctx echo.Context) error {
	data := &RequestAddCoMentor{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.AddCoMentor(data).Response(ctx)
}

func (controller *TrainingController) DropMentor(ctx echo.Context) error {
	data := &RequestDropMentor{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.DropMentor(data).Response(ctx)
}

func (controller *TrainingController) DropTraining(ctx echo.Context) error {
	data := &RequestDropTraining{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.DropTraining(data).Response(ctx)
}

func (controller *TrainingController) GetTraining(ctx echo.Context) error {
	data := &RequestGetTraining{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetTraining(data).Response(ctx)
}

func (controller *TrainingController) GetTrainings(ctx echo.Context) error {
	data := &RequestTrainingList{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.GetTrainings(data).Response(ctx)
}

func (controller *TrainingController) CancelTraining(ctx echo.Context) error {
	data := &RequestCancelTraining{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.CancelTraining(data).Response(ctx)
}

func (controller *TrainingController) ReviewCancellation(ctx echo.Context) error {
	data := &RequestReviewCancellation{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.ReviewCancellation(data).Response(ctx)
}

func (controller *TrainingController) SetReadiness(ctx echo.Context) error {
	data := &RequestSetReadiness{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("error binding data: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	_, data.JwtHeader = claimsHeader(ctx)
	return controller.service.SetReadiness(data).Response(ctx)
}
