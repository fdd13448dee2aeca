package interfaces

import (
	"context"

	"github.com/google/uuid"
	"registration-service/internal/application/command"
	"registration-service/internal/application/query"
)

type RegistrationService interface {
	Register(ctx context.Context, registerCommand *command.RegisterCommand) (*command.RegisterCommandResult, error)
	VerifyOTP(ctx context.Context, verifyCommand *command.VerifyOTPCommand) (*command.VerifyOTPCommandResult, error)
	ResendOTP(ctx context.Context, resendCommand *command.ResendOTPCommand) (*command.ResendOTPCommandResult, error)
	LoginUser(ctx context.Context, loginCommand *command.LoginUserCommand) (*command.LoginUserCommandResult, error)
	FindUserById(ctx context.Context, id uuid.UUID) (*query.UserQueryResult, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*query.UserQueryResult, error)
}
