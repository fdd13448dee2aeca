package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"registration-service/internal/application/command"
	"registration-service/internal/application/common"
	"registration-service/internal/application/query"
	"registration-service/internal/domain/entities"
)

type stubService struct {
	registerErr error
	verifyErr   error
	resendErr   error
	loginErr    error
	profileErr  error
}

func (s *stubService) Register(ctx context.Context, cmd *command.RegisterCommand) (*command.RegisterCommandResult, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &command.RegisterCommandResult{Message: "verification code sent, check your inbox"}, nil
}

func (s *stubService) VerifyOTP(ctx context.Context, cmd *command.VerifyOTPCommand) (*command.VerifyOTPCommandResult, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &command.VerifyOTPCommandResult{
		Result: &common.UserResult{Id: uuid.New(), Username: "ana", Email: cmd.Email, IsVerified: true},
	}, nil
}

func (s *stubService) ResendOTP(ctx context.Context, cmd *command.ResendOTPCommand) (*command.ResendOTPCommandResult, error) {
	if s.resendErr != nil {
		return nil, s.resendErr
	}
	return &command.ResendOTPCommandResult{Message: "verification code re-sent, check your inbox"}, nil
}

func (s *stubService) LoginUser(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &command.LoginUserCommandResult{Token: "token"}, nil
}

func (s *stubService) FindUserById(ctx context.Context, id uuid.UUID) (*query.UserQueryResult, error) {
	return s.GetProfile(ctx, id)
}

func (s *stubService) GetProfile(ctx context.Context, id uuid.UUID) (*query.UserQueryResult, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return &query.UserQueryResult{Result: &common.UserResult{Id: id, Username: "ana"}}, nil
}

func setup(service *stubService) *echo.Echo {
	e := echo.New()
	NewHandler(service).RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAccepted(t *testing.T) {
	e := setup(&stubService{})

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"username":"ana","email":"a@example.com","full_name":"Ana","password":"supersecret"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	// The verification code must never appear in a response.
	assert.NotContains(t, rec.Body.String(), "otp")
}

func TestVerifyOTPCreated(t *testing.T) {
	e := setup(&stubService{})

	rec := doJSON(e, http.MethodPost, "/api/auth/verify-otp",
		`{"email":"a@example.com","otp":"482913"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		service  *stubService
		path     string
		body     string
		expected int
	}{
		{
			name:     "validation error",
			service:  &stubService{registerErr: entities.NewValidationError("email", "must be a valid email address")},
			path:     "/api/auth/register",
			body:     `{"email":"bad"}`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "delivery failure",
			service:  &stubService{registerErr: &entities.DeliveryError{Err: context.DeadlineExceeded}},
			path:     "/api/auth/register",
			body:     `{"email":"a@example.com"}`,
			expected: http.StatusBadGateway,
		},
		{
			name:     "duplicate email",
			service:  &stubService{registerErr: entities.ErrEmailTaken},
			path:     "/api/auth/register",
			body:     `{"email":"a@example.com"}`,
			expected: http.StatusConflict,
		},
		{
			name:     "code mismatch",
			service:  &stubService{verifyErr: entities.ErrCodeMismatch},
			path:     "/api/auth/verify-otp",
			body:     `{"email":"a@example.com","otp":"000000"}`,
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "code expired",
			service:  &stubService{verifyErr: entities.ErrOTPExpired},
			path:     "/api/auth/verify-otp",
			body:     `{"email":"a@example.com","otp":"482913"}`,
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "no pending registration",
			service:  &stubService{resendErr: entities.ErrPendingNotFound},
			path:     "/api/auth/resend-otp",
			body:     `{"email":"a@example.com"}`,
			expected: http.StatusNotFound,
		},
		{
			name:     "rate limited",
			service:  &stubService{registerErr: entities.ErrRateLimited},
			path:     "/api/auth/register",
			body:     `{"email":"a@example.com"}`,
			expected: http.StatusTooManyRequests,
		},
		{
			name:     "invalid credentials",
			service:  &stubService{loginErr: entities.ErrInvalidCredentials},
			path:     "/api/auth/login",
			body:     `{"username":"ana","password":"bad"}`,
			expected: http.StatusUnauthorized,
		},
		{
			name:     "unverified login",
			service:  &stubService{loginErr: entities.ErrNotVerified},
			path:     "/api/auth/login",
			body:     `{"username":"ana","password":"supersecret"}`,
			expected: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(tt.service)
			rec := doJSON(e, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.expected, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
		})
	}
}

func TestGetProfile(t *testing.T) {
	e := setup(&stubService{})
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+id.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	e := setup(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLimiter(t *testing.T) {
	e := echo.New()
	e.Use(RequestLimiter(1, 1))
	NewHandler(&stubService{}).RegisterRoutes(e)

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
