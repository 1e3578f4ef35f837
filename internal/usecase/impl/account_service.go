// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"fintrack/config"
	deliverycontext "fintrack/internal/delivery/context"
	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	"fintrack/internal/domain/service"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	registerTokenTTL time.Duration
	loginTokenTTL    time.Duration
	logger           *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	registerTTL := 15 * time.Minute
	loginTTL := time.Hour
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.RegisterTokenTTL > 0 {
			registerTTL = params.Config.Auth.RegisterTokenTTL
		}
		if params.Config.Auth.LoginTokenTTL > 0 {
			loginTTL = params.Config.Auth.LoginTokenTTL
		}
	}

	return &accountService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		registerTokenTTL: registerTTL,
		loginTokenTTL:    loginTTL,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	// 1. Courtesy existence check. The message stays field-agnostic so the
	// response cannot be used to enumerate which identifier is taken.
	taken, err := srv.userRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to check identifier availability", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to check identifier availability")
	}
	if taken {
		srv.log(ctx).Warn("Registration rejected, identifier taken", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration failed")
	}

	// 2. Hash outside the transaction (bcrypt is CPU-bound).
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	newUser := &entity.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	// 3. Create inside a transaction. The store's unique constraints decide
	// concurrent duplicates; a race lost here surfaces the same conflict
	// error as the pre-check above.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.NewUserRepository().Create(ctx, newUser)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	// 4. Issue a token bound to the new id.
	token, err := srv.tokenService.Issue(newUser.ID, srv.registerTokenTTL)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after registration", slog.Any("userID", newUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token after registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{
		UserID: newUser.ID,
		Token:  token,
	}, nil
}

// Login orchestrates the user login process.
// An unknown identifier and a wrong password both fail with the same
// credentials error, so login responses cannot enumerate identifiers.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("identifier", input.Identifier))

	user, err := srv.userRepo.FindByIdentifier(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown identifier", slog.String("identifier", input.Identifier))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
		srv.log(ctx).Error("Failed to look up login identifier", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to look up login identifier")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, err := srv.tokenService.Issue(user.ID, srv.loginTokenTTL)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token after login", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token after login")
	}

	srv.log(ctx).Debug("Login completed", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{Token: token}, nil
}

// GetProfile returns the authenticated user's own record.
// The caller's id comes from a verified token, so a missing record here is a
// genuine not-found, not a credentials problem.
func (srv *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.ProfileOutput, error) {
	srv.log(ctx).Debug("Getting user profile", slog.Any("userID", userID))

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Profile lookup failed, user not found", slog.Any("userID", userID))

			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile lookup failed")
		}
		srv.log(ctx).Error("Failed to look up user profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to look up user profile")
	}

	return &usecase.ProfileOutput{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
