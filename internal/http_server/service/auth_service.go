// Package service
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
	"github.com/vatger-pmp/pmp-server/internal/utils"
)

type AuthService struct {
	logger        log.LoggerInterface
	config        *c.HttpServerConfig
	userOperation operation.UserOperationInterface
}

func NewAuthService(
	logger log.LoggerInterface,
	config *c.HttpServerConfig,
	userOperation operation.UserOperationInterface,
) *AuthService {
	return &AuthService{
		logger:        logger,
		config:        config,
		userOperation: userOperation,
	}
}

var (
	ErrEmailOrPassword = ApiStatus{StatusName: "WRONG_EMAIL_OR_PASSWORD", Description: "wrong email or password", HttpCode: BadRequest}
	ErrOAuthDisabled   = ApiStatus{StatusName: "OAUTH_DISABLED", Description: "vatsim connect login is not configured", HttpCode: ServerInternalError}
	ErrOAuthExchange   = ApiStatus{StatusName: "OAUTH_EXCHANGE_FAILED", Description: "could not exchange the authorization code", HttpCode: BadRequest}
	ErrOAuthUserInfo   = ApiStatus{StatusName: "OAUTH_USERINFO_FAILED", Description: "could not fetch the vatsim profile", HttpCode: ServerInternalError}
	SuccessLogin       = ApiStatus{StatusName: "LOGIN_SUCCESS", Description: "login successful", HttpCode: Ok}
	SuccessAuthURL     = ApiStatus{StatusName: "AUTH_URL", Description: "authorize url issued", HttpCode: Ok}
	SuccessGetProfile  = ApiStatus{StatusName: "GET_PROFILE_SUCCESS", Description: "profile fetched", HttpCode: Ok}
	SuccessGetToken    = ApiStatus{StatusName: "GET_TOKEN_SUCCESS", Description: "token refreshed", HttpCode: Ok}
)

// UserLogin is the password fallback for seeded staff accounts. Regular
// members authenticate through VATSIM Connect.
func (authService *AuthService) UserLogin(req *RequestUserLogin) *ApiResponse[ResponseUserLogin] {
	if req.Email == "" || req.Password == "" {
		return NewApiResponse[ResponseUserLogin](&ErrIllegalParam, Unsatisfied, nil)
	}

	user, err := authService.userOperation.GetUserByEmail(req.Email)
	if err != nil || !authService.userOperation.VerifyUserPassword(user, req.Password) {
		return NewApiResponse[ResponseUserLogin](&ErrEmailOrPassword, Unsatisfied, nil)
	}

	token := NewClaims(authService.config.JWT, user, false)
	flushToken := NewClaims(authService.config.JWT, user, true)
	return NewApiResponse(&SuccessLogin, Unsatisfied, &ResponseUserLogin{
		User:       user,
		Token:      token.GenerateKey(),
		FlushToken: flushToken.GenerateKey(),
	})
}

func (authService *AuthService) GetAuthURL(req *RequestAuthURL) *ApiResponse[ResponseAuthURL] {
	if authService.config.OAuth.Endpoint == nil {
		return NewApiResponse[ResponseAuthURL](&ErrOAuthDisabled, Unsatisfied, nil)
	}
	url := authService.config.OAuth.Endpoint.AuthCodeURL(req.State)
	return NewApiResponse(&SuccessAuthURL, Unsatisfied, &ResponseAuthURL{URL: url})
}

// vatsimUserInfo mirrors the relevant slice of the VATSIM Connect
// /api/user payload.
type vatsimUserInfo struct {
	Data struct {
		Cid      string `json:"cid"`
		Personal struct {
			NameFull string `json:"name_full"`
			Email    string `json:"email"`
		} `json:"personal"`
	} `json:"data"`
}

func (authService *AuthService) fetchUserInfo(ctx context.Context, accessToken string) (*vatsimUserInfo, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, authService.config.OAuth.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	request.Header.Set("Accept", "application/json")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", response.StatusCode)
	}

	userInfo := &vatsimUserInfo{}
	if err := json.NewDecoder(response.Body).Decode(userInfo); err != nil {
		return nil, err
	}
	return userInfo, nil
}

func (authService *AuthService) HandleCallback(req *RequestAuthCallback) *ApiResponse[ResponseUserLogin] {
	if authService.config.OAuth.Endpoint == nil {
		return NewApiResponse[ResponseUserLogin](&ErrOAuthDisabled, Unsatisfied, nil)
	}
	if req.Code == "" {
		return NewApiResponse[ResponseUserLogin](&ErrLackParam, Unsatisfied, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	oauthToken, err := authService.config.OAuth.Endpoint.Exchange(ctx, req.Code)
	if err != nil {
		authService.logger.WarnF("OAuth code exchange failed: %v", err)
		return NewApiResponse[ResponseUserLogin](&ErrOAuthExchange, Unsatisfied, nil)
	}

	userInfo, err := authService.fetchUserInfo(ctx, oauthToken.AccessToken)
	if err != nil {
		authService.logger.ErrorF("OAuth userinfo fetch failed: %v", err)
		return NewApiResponse[ResponseUserLogin](&ErrOAuthUserInfo, Unsatisfied, nil)
	}

	cid := utils.StrToInt(userInfo.Data.Cid, 0)
	if cid == 0 {
		authService.logger.ErrorF("OAuth userinfo carried invalid cid %q", userInfo.Data.Cid)
		return NewApiResponse[ResponseUserLogin](&ErrOAuthUserInfo, Unsatisfied, nil)
	}
	if status := cidValidator.CheckInt(cid); status != nil {
		return NewApiResponse[ResponseUserLogin](status, Unsatisfied, nil)
	}

	user, err := authService.userOperation.GetUserByCid(cid)
	if err != nil {
		// First login materializes the account as VISITOR.
		user, err = authService.userOperation.NewUser(cid, userInfo.Data.Personal.NameFull, userInfo.Data.Personal.Email, "")
		if err == nil {
			err = authService.userOperation.AddUser(user)
		}
		if err != nil {
			authService.logger.ErrorF("Could not create user for cid %d: %v", cid, err)
			return NewApiResponse[ResponseUserLogin](&ErrDatabaseFail, Unsatisfied, nil)
		}
	}

	token := NewClaims(authService.config.JWT, user, false)
	flushToken := NewClaims(authService.config.JWT, user, true)
	return NewApiResponse(&SuccessLogin, Unsatisfied, &ResponseUserLogin{
		User:       user,
		Token:      token.GenerateKey(),
		FlushToken: flushToken.GenerateKey(),
	})
}

func (authService *AuthService) GetCurrentProfile(req *RequestCurrentProfile) *ApiResponse[ResponseCurrentProfile] {
	user, res := CallDBFuncAndCheckError[operation.User, ResponseCurrentProfile](authService.logger, func() (*operation.User, error) {
		return authService.userOperation.GetUserByUid(req.Uid)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetProfile, Unsatisfied, (*ResponseCurrentProfile)(user))
}

func (authService *AuthService) GetTokenWithFlushToken(req *RequestGetToken) *ApiResponse[ResponseGetToken] {
	if !req.FlushToken {
		return NewApiResponse[ResponseGetToken](&ErrIllegalParam, Unsatisfied, nil)
	}

	user, res := CallDBFuncAndCheckError[operation.User, ResponseGetToken](authService.logger, func() (*operation.User, error) {
		return authService.userOperation.GetUserByUid(req.Uid)
	})
	if res != nil {
		return res
	}

	var flushToken string
	if req.ExpiresAt.Add(-2 * authService.config.JWT.ExpiresDuration).After(time.Now()) {
		flushToken = ""
	} else {
		flushToken = NewClaims(authService.config.JWT, user, true).GenerateKey()
	}

	token := NewClaims(authService.config.JWT, user, false)
	return NewApiResponse(&SuccessGetToken, Unsatisfied, &ResponseGetToken{
		User:       user,
		Token:      token.GenerateKey(),
		FlushToken: flushToken,
	})
}
