package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"registration-service/internal/application/command"
	"registration-service/internal/application/interfaces"
	"registration-service/internal/application/mapper"
	"registration-service/internal/application/query"
	"registration-service/internal/domain/entities"
	"registration-service/internal/domain/repositories"
	"registration-service/internal/infrastructure"
)

const verifyLimiterPrefix = "verify:"

// Cache holds session tokens and read-through profile copies. Redis in
// production, the in-memory store in tests.
type Cache interface {
	SetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	SetProfile(ctx context.Context, userID string, user *entities.User, ttl time.Duration) error
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
}

// TokenSigner issues session tokens after a successful login.
type TokenSigner interface {
	GenerateToken(userID string) (string, error)
}

// RegistrationService drives the registration state machine:
//
//	register  -> code generated, email sent, pending slot stored
//	verify    -> code + freshness checked, account created, slot cleared
//	resend    -> code rotated in place, email re-sent
//
// No account row exists until verification succeeds; until then the whole
// registration lives in the pending store under its email.
type RegistrationService struct {
	userRepo        repositories.UserRepository
	idempotencyRepo repositories.IdempotencyRepository
	pendingRepo     repositories.PendingRepository
	cache           Cache
	mailer          infrastructure.Mailer
	otpGenerator    *infrastructure.OTPGenerator
	tokenSigner     TokenSigner
	rateLimiter     *infrastructure.RateLimiter

	otpExpiry    time.Duration
	pendingTTL   time.Duration
	emailTimeout time.Duration
	tokenTTL     time.Duration

	now func() time.Time
}

func NewRegistrationService(
	userRepo repositories.UserRepository,
	idempotencyRepo repositories.IdempotencyRepository,
	pendingRepo repositories.PendingRepository,
	cache Cache,
	mailer infrastructure.Mailer,
	otpGenerator *infrastructure.OTPGenerator,
	tokenSigner TokenSigner,
	rateLimiter *infrastructure.RateLimiter,
	otpExpiry time.Duration,
	pendingTTL time.Duration,
	emailTimeout time.Duration,
	tokenTTL time.Duration,
) interfaces.RegistrationService {
	return &RegistrationService{
		userRepo:        userRepo,
		idempotencyRepo: idempotencyRepo,
		pendingRepo:     pendingRepo,
		cache:           cache,
		mailer:          mailer,
		otpGenerator:    otpGenerator,
		tokenSigner:     tokenSigner,
		rateLimiter:     rateLimiter,
		otpExpiry:       otpExpiry,
		pendingTTL:      pendingTTL,
		emailTimeout:    emailTimeout,
		tokenTTL:        tokenTTL,
		now:             time.Now,
	}
}

func (s *RegistrationService) Register(ctx context.Context, registerCommand *command.RegisterCommand) (*command.RegisterCommandResult, error) {
	if registerCommand.IdempotencyKey != "" {
		var cached command.RegisterCommandResult
		found, err := s.replayIdempotent(ctx, registerCommand.IdempotencyKey, &cached)
		if err != nil {
			return nil, err
		}
		if found {
			return &cached, nil
		}
	}

	if err := validateRegisterCommand(registerCommand); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.FindByUsername(ctx, registerCommand.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, entities.ErrUsernameTaken
	}

	existingUser, err = s.userRepo.FindByEmail(ctx, registerCommand.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, entities.ErrEmailTaken
	}

	if !s.rateLimiter.Allow(registerCommand.Email) {
		return nil, entities.ErrRateLimited
	}

	otp, err := s.otpGenerator.Generate()
	if err != nil {
		return nil, err
	}

	passwordHash, err := entities.HashPassword(registerCommand.Password)
	if err != nil {
		return nil, err
	}

	// Delivery happens before anything is stored: if the email cannot be
	// sent there is no pending registration to leak.
	messageID, err := s.deliver(ctx, registerCommand.Email, registerCommand.FullName, otp)
	if err != nil {
		return nil, &entities.DeliveryError{Err: err}
	}
	log.Printf("Verification email sent to %s (message id %s)", registerCommand.Email, messageID)

	pending := entities.NewPendingRegistration(
		registerCommand.Email,
		registerCommand.Username,
		registerCommand.FullName,
		passwordHash,
		otp,
		s.now(),
	)
	if err := s.pendingRepo.Save(ctx, pending, s.pendingTTL); err != nil {
		return nil, fmt.Errorf("failed to store pending registration: %w", err)
	}

	result := command.RegisterCommandResult{
		Message: "verification code sent, check your inbox",
	}

	if registerCommand.IdempotencyKey != "" {
		s.storeIdempotent(ctx, registerCommand.IdempotencyKey, registerCommand, result)
	}

	return &result, nil
}

func (s *RegistrationService) VerifyOTP(ctx context.Context, verifyCommand *command.VerifyOTPCommand) (*command.VerifyOTPCommandResult, error) {
	if verifyCommand.IdempotencyKey != "" {
		var cached command.VerifyOTPCommandResult
		found, err := s.replayIdempotent(ctx, verifyCommand.IdempotencyKey, &cached)
		if err != nil {
			return nil, err
		}
		if found {
			return &cached, nil
		}
	}

	if !s.rateLimiter.Allow(verifyLimiterPrefix + verifyCommand.Email) {
		return nil, entities.ErrRateLimited
	}

	pending, err := s.pendingRepo.Find(ctx, verifyCommand.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}
	if pending == nil {
		return nil, entities.ErrPendingNotFound
	}

	// A mismatch or an expired code leaves the pending slot untouched: the
	// user can retry, or resend after expiry.
	if err := pending.Verify(verifyCommand.OTP, s.now(), s.otpExpiry); err != nil {
		return nil, err
	}

	validatedUser, err := entities.NewValidatedUser(pending.ToUser())
	if err != nil {
		return nil, err
	}

	// If account creation fails (duplicate, provider outage) the pending
	// registration is retained so the user does not have to redo delivery.
	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		return nil, err
	}

	// Single use: clear the slot, and with it the code, only after success.
	if err := s.pendingRepo.Delete(ctx, verifyCommand.Email); err != nil {
		log.Printf("Failed to clear pending registration for %s: %v", verifyCommand.Email, err)
	}

	if err := s.cache.SetProfile(ctx, createdUser.Id.String(), createdUser, 24*time.Hour); err != nil {
		log.Printf("Failed to cache profile for %s: %v", createdUser.Id, err)
	}

	result := command.VerifyOTPCommandResult{
		Result: mapper.NewUserResultFromEntity(createdUser),
	}

	if verifyCommand.IdempotencyKey != "" {
		s.storeIdempotent(ctx, verifyCommand.IdempotencyKey, verifyCommand, result)
	}

	return &result, nil
}

func (s *RegistrationService) ResendOTP(ctx context.Context, resendCommand *command.ResendOTPCommand) (*command.ResendOTPCommandResult, error) {
	if err := entities.ValidateEmail(resendCommand.Email); err != nil {
		return nil, err
	}

	pending, err := s.pendingRepo.Find(ctx, resendCommand.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}
	if pending == nil {
		return nil, entities.ErrPendingNotFound
	}

	if !s.rateLimiter.Allow(resendCommand.Email) {
		return nil, entities.ErrRateLimited
	}

	otp, err := s.otpGenerator.Generate()
	if err != nil {
		return nil, err
	}

	messageID, err := s.deliver(ctx, pending.Email, pending.FullName, otp)
	if err != nil {
		// The previous code stays valid until its own expiry.
		return nil, &entities.DeliveryError{Err: err}
	}
	log.Printf("Verification email re-sent to %s (message id %s)", pending.Email, messageID)

	pending.Rotate(otp, s.now())
	if err := s.pendingRepo.Save(ctx, pending, s.pendingTTL); err != nil {
		return nil, fmt.Errorf("failed to store pending registration: %w", err)
	}

	return &command.ResendOTPCommandResult{
		Message: "verification code re-sent, check your inbox",
	}, nil
}

func (s *RegistrationService) LoginUser(ctx context.Context, loginCommand *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, loginCommand.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entities.ErrInvalidCredentials
	}

	if err := user.CheckPassword(loginCommand.Password); err != nil {
		return nil, entities.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, entities.ErrNotVerified
	}

	token, err := s.tokenSigner.GenerateToken(user.Id.String())
	if err != nil {
		return nil, err
	}

	// Store the token in the cache for quick validation
	go func() {
		if err := s.cache.SetToken(context.Background(), token, user.Id.String(), s.tokenTTL); err != nil {
			log.Printf("Failed to store token in cache: %v", err)
		}
	}()

	return &command.LoginUserCommandResult{
		Token: token,
		User:  mapper.NewUserResultFromEntity(user),
	}, nil
}

func (s *RegistrationService) FindUserById(ctx context.Context, id uuid.UUID) (*query.UserQueryResult, error) {
	user, err := s.userRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return &query.UserQueryResult{
		Result: mapper.NewUserResultFromEntity(user),
	}, nil
}

func (s *RegistrationService) GetProfile(ctx context.Context, id uuid.UUID) (*query.UserQueryResult, error) {
	cachedUser, err := s.cache.GetProfile(ctx, id.String())
	if err == nil && cachedUser != nil {
		cachedUser.Password = ""
		return &query.UserQueryResult{
			Result: mapper.NewUserResultFromEntity(cachedUser),
		}, nil
	}

	user, err := s.userRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if err := s.cache.SetProfile(ctx, id.String(), user, 24*time.Hour); err != nil {
		log.Printf("Failed to cache user profile: %v", err)
	}

	return &query.UserQueryResult{
		Result: mapper.NewUserResultFromEntity(user),
	}, nil
}

// deliver sends the verification email with a bounded timeout.
func (s *RegistrationService) deliver(ctx context.Context, email, fullName, otp string) (string, error) {
	sendCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()
	return s.mailer.SendOTP(sendCtx, email, fullName, otp, s.otpExpiry)
}

func (s *RegistrationService) replayIdempotent(ctx context.Context, key string, out interface{}) (bool, error) {
	existingRecord, err := s.idempotencyRepo.FindByKey(ctx, key)
	if err != nil {
		return false, err
	}
	if existingRecord == nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(existingRecord.Response), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RegistrationService) storeIdempotent(ctx context.Context, key string, request, response interface{}) {
	requestJSON, _ := json.Marshal(request)
	responseJSON, _ := json.Marshal(response)

	record := entities.NewIdempotencyRecord(key, string(requestJSON))
	record.SetResponse(string(responseJSON), 200)

	if _, err := s.idempotencyRepo.Create(ctx, record); err != nil {
		log.Printf("Failed to store idempotency record: %v", err)
	}
}

func validateRegisterCommand(registerCommand *command.RegisterCommand) error {
	if registerCommand.Username == "" {
		return entities.NewValidationError("username", "must not be empty")
	}
	if registerCommand.FullName == "" {
		return entities.NewValidationError("full_name", "must not be empty")
	}
	if err := entities.ValidateEmail(registerCommand.Email); err != nil {
		return err
	}
	return entities.ValidatePassword(registerCommand.Password)
}
