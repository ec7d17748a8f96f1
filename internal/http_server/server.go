// Package http_server
package http_server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	slogecho "github.com/samber/slog-echo"
	"github.com/vatger-pmp/pmp-server/internal/http_server/controller"
	mid "github.com/vatger-pmp/pmp-server/internal/http_server/middleware"
	impl "github.com/vatger-pmp/pmp-server/internal/http_server/service"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

type HttpServerShutdownCallback struct {
	serverHandler *echo.Echo
}

func NewHttpServerShutdownCallback(serverHandler *echo.Echo) *HttpServerShutdownCallback {
	return &HttpServerShutdownCallback{
		serverHandler: serverHandler,
	}
}

func (hc *HttpServerShutdownCallback) Invoke(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return hc.serverHandler.Shutdown(timeoutCtx)
}

func StartHttpServer(applicationContent *ApplicationContent) {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()

	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(log.OFF)
	httpConfig := config.HttpServer

	switch httpConfig.ProxyType {
	case 0:
		e.IPExtractor = echo.ExtractIPDirect()
	case 1:
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	case 2:
		e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	default:
		logger.WarnF("Invalid proxy type %d, using default (direct)", httpConfig.ProxyType)
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: 30 * time.Second}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(ctx echo.Context, err error, stack []byte) error {
			logger.ErrorF("Recovered from a fatal error: %v, stack: %s", err, string(stack))
			return err
		},
	}))

	loggerConfig := slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}
	e.Use(slogecho.NewWithConfig(slog.Default(), loggerConfig))
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	if httpConfig.BodyLimit != "" {
		e.Use(middleware.BodyLimit(httpConfig.BodyLimit))
	}
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	if httpConfig.Limits.RateLimit <= 0 {
		logger.WarnF("Invalid rate limit value %d, using default 15", httpConfig.Limits.RateLimit)
		httpConfig.Limits.RateLimit = 15
	}

	if httpConfig.Limits.RateLimitDuration <= 0 {
		logger.WarnF("Invalid rate limit duration %v, using default 1m", httpConfig.Limits.RateLimitDuration)
		httpConfig.Limits.RateLimitDuration = time.Minute
	}

	ipPathLimiter := mid.NewSlidingWindowLimiter(
		httpConfig.Limits.RateLimitDuration,
		httpConfig.Limits.RateLimit,
	)
	cleanupInterval := httpConfig.Limits.RateLimitDuration * 2
	if cleanupInterval > time.Hour {
		cleanupInterval = time.Hour
		logger.InfoF("Limiting cleanup interval to 1 hour for efficiency")
	}
	ipPathLimiter.StartCleanup(cleanupInterval)

	e.Use(mid.RateLimitMiddleware(ipPathLimiter, mid.CombinedKeyFunc))

	jwtConfig := echojwt.Config{
		SigningKey:    []byte(httpConfig.JWT.Secret),
		TokenLookup:   "header:Authorization:Bearer ",
		SigningMethod: "HS512",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var data *service.ApiResponse[any]
			switch {
			case errors.Is(err, echojwt.ErrJWTMissing):
				data = service.NewApiResponse[any](&service.ErrMissingOrMalformedJwt, service.Unsatisfied, nil)
			case errors.Is(err, echojwt.ErrJWTInvalid):
				data = service.NewApiResponse[any](&service.ErrInvalidOrExpiredJwt, service.Unsatisfied, nil)
			default:
				data = service.NewApiResponse[any](&service.ErrUnknownJwt, service.Unsatisfied, nil)
			}
			return data.Response(c)
		},
	}

	jwtMiddleware := echojwt.WithConfig(jwtConfig)

	emailService := impl.NewEmailService(logger, httpConfig.Email)
	impl.InitValidator(httpConfig.Limits)

	operations := applicationContent.Operations()
	userOperation := operations.UserOperation()
	registrationOperation := operations.RegistrationOperation()
	trainingOperation := operations.TrainingOperation()
	sessionOperation := operations.SessionOperation()
	checkrideOperation := operations.CheckrideOperation()
	inviteOperation := operations.InviteOperation()

	policy := impl.NewPolicy(trainingOperation, checkrideOperation)

	authService := impl.NewAuthService(logger, httpConfig, userOperation)
	registrationService := impl.NewRegistrationService(logger, userOperation, registrationOperation)
	trainingService := impl.NewTrainingService(logger, policy, emailService, userOperation, registrationOperation, trainingOperation)
	sessionService := impl.NewSessionService(logger, policy, emailService, userOperation, trainingOperation, sessionOperation)
	checkrideService := impl.NewCheckrideService(logger, policy, emailService, userOperation, trainingOperation, checkrideOperation)
	adminService := impl.NewAdminService(logger, userOperation, trainingOperation, sessionOperation)
	inviteService := impl.NewInviteService(logger, httpConfig, emailService, userOperation, registrationOperation, trainingOperation, inviteOperation)
	gdprService := impl.NewGdprService(logger, httpConfig.Gdpr, operations)

	authController := controller.NewAuthController(logger, authService)
	registrationController := controller.NewRegistrationController(logger, registrationService)
	trainingController := controller.NewTrainingController(logger, trainingService)
	sessionController := controller.NewSessionController(logger, sessionService)
	checkrideController := controller.NewCheckrideController(logger, checkrideService)
	adminController := controller.NewAdminController(logger, adminService)
	inviteController := controller.NewInviteController(logger, inviteService)
	gdprController := controller.NewGdprController(logger, gdprService)

	apiGroup := e.Group("/api")
	apiGroup.POST("/sessions", authController.UserLogin)
	apiGroup.GET("/sessions", authController.GetToken, jwtMiddleware)
	apiGroup.GET("/auth/vatsim", authController.GetAuthURL)
	apiGroup.GET("/auth/callback", authController.HandleCallback)
	apiGroup.GET("/profile", authController.GetCurrentProfile, jwtMiddleware)

	registrationGroup := apiGroup.Group("/registrations")
	registrationGroup.POST("", registrationController.SubmitRegistration, jwtMiddleware)
	registrationGroup.GET("", registrationController.GetRegistrations, jwtMiddleware)
	registrationGroup.DELETE("/:cid", registrationController.DeclineRegistration, jwtMiddleware)

	userGroup := apiGroup.Group("/users")
	userGroup.GET("", adminController.GetUsers, jwtMiddleware)
	userGroup.PATCH("/:uid/role", adminController.EditUserRole, jwtMiddleware)
	userGroup.PATCH("/:uid/status", adminController.EditUserStatus, jwtMiddleware)

	apiGroup.GET("/reports/coverage", adminController.GetCoverageReport, jwtMiddleware)

	trainingGroup := apiGroup.Group("/trainings")
	trainingGroup.POST("", trainingController.AssignTrainee, jwtMiddleware)
	trainingGroup.GET("", trainingController.GetTrainings, jwtMiddleware)
	trainingGroup.GET("/:id", trainingController.GetTraining, jwtMiddleware)
	trainingGroup.DELETE("/:id", trainingController.DropTraining, jwtMiddleware)
	trainingGroup.POST("/:id/mentors", trainingController.AddCoMentor, jwtMiddleware)
	trainingGroup.DELETE("/:id/mentors/:mentor_id", trainingController.DropMentor, jwtMiddleware)
	trainingGroup.POST("/:id/cancellation", trainingController.CancelTraining, jwtMiddleware)
	trainingGroup.PUT("/:id/cancellation", trainingController.ReviewCancellation, jwtMiddleware)
	trainingGroup.PUT("/:id/readiness", trainingController.SetReadiness, jwtMiddleware)
	trainingGroup.POST("/:id/sessions", sessionController.LogSession, jwtMiddleware)
	trainingGroup.GET("/:id/sessions", sessionController.ListSessions, jwtMiddleware)
	trainingGroup.PUT("/:id/sessions/:sid", sessionController.UpdateSession, jwtMiddleware)
	trainingGroup.DELETE("/:id/sessions/:sid", sessionController.DeleteSession, jwtMiddleware)
	trainingGroup.POST("/:id/sessions/:sid/release", sessionController.ReleaseSession, jwtMiddleware)
	trainingGroup.GET("/:id/progress", sessionController.GetProgress, jwtMiddleware)

	availabilityGroup := apiGroup.Group("/availabilities")
	availabilityGroup.POST("", checkrideController.CreateAvailability, jwtMiddleware)
	availabilityGroup.GET("", checkrideController.ListAvailabilities, jwtMiddleware)
	availabilityGroup.DELETE("/:id", checkrideController.DeleteAvailability, jwtMiddleware)

	checkrideGroup := apiGroup.Group("/checkrides")
	checkrideGroup.POST("", checkrideController.BookCheckride, jwtMiddleware)
	checkrideGroup.GET("", checkrideController.ListCheckrides, jwtMiddleware)
	checkrideGroup.GET("/:id/assessment", checkrideController.GetAssessment, jwtMiddleware)
	checkrideGroup.PUT("/:id/assessment", checkrideController.SaveAssessment, jwtMiddleware)
	checkrideGroup.DELETE("/:id", checkrideController.CancelCheckride, jwtMiddleware)

	inviteGroup := apiGroup.Group("/invites")
	inviteGroup.POST("", inviteController.CreateInvite, jwtMiddleware)
	inviteGroup.POST("/:token", inviteController.AcceptInvite, jwtMiddleware)

	gdprGroup := apiGroup.Group("/gdpr")
	gdprGroup.GET("/:cid", gdprController.ExportData)
	gdprGroup.DELETE("/:cid", gdprController.EraseData)

	applicationContent.Cleaner().Add(NewHttpServerShutdownCallback(e))

	logger.InfoF("Starting http server on %s", httpConfig.Address)
	logger.InfoF("Rate limit: %d requests per %v",
		httpConfig.Limits.RateLimit,
		httpConfig.Limits.RateLimitDuration)

	if err := e.Start(httpConfig.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.FatalF("Http server error: %v", err)
	}
}
