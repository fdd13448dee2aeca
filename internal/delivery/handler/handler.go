package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"registration-service/internal/application/command"
	"registration-service/internal/application/interfaces"
	"registration-service/internal/domain/entities"
)

type Handler struct {
	service interfaces.RegistrationService
}

func NewHandler(service interfaces.RegistrationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	auth := e.Group("/api/auth")
	auth.POST("/register", h.Register)
	auth.POST("/verify-otp", h.VerifyOTP)
	auth.POST("/resend-otp", h.ResendOTP)
	auth.POST("/login", h.Login)

	e.GET("/api/users/:id", h.GetProfile)
	e.GET("/health", h.Health)
}

// Register starts a registration and sends the verification code. The code
// itself is never part of the response.
func (h *Handler) Register(c echo.Context) error {
	var registerCommand command.RegisterCommand
	if err := c.Bind(&registerCommand); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Register(c.Request().Context(), &registerCommand)
	if err != nil {
		return respondDomainError(c, err)
	}

	return respond(c, http.StatusAccepted, result.Message, nil)
}

func (h *Handler) VerifyOTP(c echo.Context) error {
	var verifyCommand command.VerifyOTPCommand
	if err := c.Bind(&verifyCommand); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.VerifyOTP(c.Request().Context(), &verifyCommand)
	if err != nil {
		return respondDomainError(c, err)
	}

	return respond(c, http.StatusCreated, "account created", result.Result)
}

func (h *Handler) ResendOTP(c echo.Context) error {
	var resendCommand command.ResendOTPCommand
	if err := c.Bind(&resendCommand); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.ResendOTP(c.Request().Context(), &resendCommand)
	if err != nil {
		return respondDomainError(c, err)
	}

	return respond(c, http.StatusAccepted, result.Message, nil)
}

func (h *Handler) Login(c echo.Context) error {
	var loginCommand command.LoginUserCommand
	if err := c.Bind(&loginCommand); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.LoginUser(c.Request().Context(), &loginCommand)
	if err != nil {
		return respondDomainError(c, err)
	}

	return respond(c, http.StatusOK, "logged in", result)
}

func (h *Handler) GetProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}

	result, err := h.service.GetProfile(c.Request().Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}

	return respond(c, http.StatusOK, "ok", result.Result)
}

func (h *Handler) Health(c echo.Context) error {
	return respond(c, http.StatusOK, "ok", nil)
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses. Every
// failure in the workflow is user-recoverable; nothing here is fatal.
func respondDomainError(c echo.Context, err error) error {
	var validationErr *entities.ValidationError
	var deliveryErr *entities.DeliveryError

	switch {
	case errors.As(err, &validationErr):
		return respondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &deliveryErr):
		return respondError(c, http.StatusBadGateway, "could not send the verification email, please try again")
	case errors.Is(err, entities.ErrCodeMismatch):
		return respondError(c, http.StatusUnprocessableEntity, "the code you entered is incorrect")
	case errors.Is(err, entities.ErrOTPExpired):
		return respondError(c, http.StatusUnprocessableEntity, "the code has expired, request a new one")
	case errors.Is(err, entities.ErrPendingNotFound):
		return respondError(c, http.StatusNotFound, "no pending registration for this email")
	case errors.Is(err, entities.ErrUsernameTaken), errors.Is(err, entities.ErrEmailTaken):
		return respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrRateLimited):
		return respondError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, entities.ErrInvalidCredentials):
		return respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, entities.ErrNotVerified):
		return respondError(c, http.StatusForbidden, err.Error())
	default:
		return respondError(c, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
