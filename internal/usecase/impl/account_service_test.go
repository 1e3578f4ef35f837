package impl

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/domain/entity"
	domainerrors "fintrack/internal/domain/errors"
	"fintrack/internal/domain/repository"
	mockRepo "fintrack/internal/mocks/repository"
	mockSvc "fintrack/internal/mocks/service"
	"fintrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       newTestConfig(15*time.Minute, time.Hour),
		Logger:       newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:      service,
		txManager:    txManager,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "correct horse battery",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()
	newUserID := uuid.New()

	fx.userRepo.EXPECT().
		ExistsByUsernameOrEmail(ctx, input.Username, input.Email).
		Return(false, nil)

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockTxUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewUserRepository().Return(mockTxUserRepo)

			mockTxUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, "hashed_password", user.PasswordHash)
					user.ID = newUserID
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	fx.tokenService.EXPECT().
		Issue(newUserID, 15*time.Minute).
		Return("signed-token", nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, newUserID, output.UserID)
	assert.Equal(t, "signed-token", output.Token)
}

func TestAccountService_Register_IdentifierTaken(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.userRepo.EXPECT().
		ExistsByUsernameOrEmail(ctx, input.Username, input.Email).
		Return(true, nil)

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAccountService_Register_RaceLostToConcurrentInsert(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	// The pre-check passes, but a concurrent registration wins the insert and
	// the unique constraint rejects ours. The caller sees the same conflict
	// error either way.
	fx.userRepo.EXPECT().
		ExistsByUsernameOrEmail(ctx, input.Username, input.Email).
		Return(false, nil)

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(errors.Wrap(domainerrors.ErrUserAlreadyExists, "username or email already taken"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestAccountService_Register_HashFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.userRepo.EXPECT().
		ExistsByUsernameOrEmail(ctx, input.Username, input.Email).
		Return(false, nil)

	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("cost out of range"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestAccountService_Register_ExistenceCheckError(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.userRepo.EXPECT().
		ExistsByUsernameOrEmail(ctx, input.Username, input.Email).
		Return(false, errors.New("database error"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "failed to check identifier availability")
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().
		FindByIdentifier(ctx, "ada").
		Return(user, nil)

	fx.hasher.EXPECT().Check("correct horse battery", "hashed_password").Return(true)

	fx.tokenService.EXPECT().
		Issue(userID, time.Hour).
		Return("signed-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Identifier: "ada",
		Password:   "correct horse battery",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "signed-token", output.Token)
}

func TestAccountService_Login_ByEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}

	// The identifier is matched against username and email alike; the caller
	// does not say which one it is.
	fx.userRepo.EXPECT().
		FindByIdentifier(ctx, "ada@example.com").
		Return(user, nil)

	fx.hasher.EXPECT().Check("correct horse battery", "hashed_password").Return(true)

	fx.tokenService.EXPECT().
		Issue(userID, time.Hour).
		Return("signed-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Identifier: "ada@example.com",
		Password:   "correct horse battery",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.Token)
}

func TestAccountService_Login_UnknownIdentifier(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByIdentifier(ctx, "ghost").
		Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Identifier: "ghost",
		Password:   "whatever",
	})

	// An unknown identifier is indistinguishable from a wrong password.
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	user := &entity.User{
		ID:           uuid.New(),
		Username:     "ada",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().
		FindByIdentifier(ctx, "ada").
		Return(user, nil)

	fx.hasher.EXPECT().Check("wrong password", "hashed_password").Return(false)

	// No Issue expectation: a failed login must never mint a token.
	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Identifier: "ada",
		Password:   "wrong password",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Login_LookupError(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByIdentifier(ctx, "ada").
		Return(nil, errors.New("database error"))

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Identifier: "ada",
		Password:   "correct horse battery",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "failed to look up login identifier")
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Login_TokenIssueError(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		Username:     "ada",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().
		FindByIdentifier(ctx, "ada").
		Return(user, nil)

	fx.hasher.EXPECT().Check("correct horse battery", "hashed_password").Return(true)

	fx.tokenService.EXPECT().
		Issue(userID, time.Hour).
		Return("", errors.New("signing failed"))

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Identifier: "ada",
		Password:   "correct horse battery",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "failed to issue token after login")
}

func TestAccountService_GetProfile_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:           userID,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().
		FindByID(ctx, userID).
		Return(user, nil)

	output, err := fx.service.GetProfile(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, userID, output.UserID)
	assert.Equal(t, "Ada", output.FirstName)
	assert.Equal(t, "Lovelace", output.LastName)
	assert.Equal(t, "ada", output.Username)
	assert.Equal(t, "ada@example.com", output.Email)
}

func TestAccountService_GetProfile_UserNotFound(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	userID := uuid.New()

	// A verified token whose subject no longer exists is a real not-found,
	// unlike login, where the sentinel is folded into the credentials error.
	fx.userRepo.EXPECT().
		FindByID(ctx, userID).
		Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.GetProfile(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAccountService_GetProfile_LookupError(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.EXPECT().
		FindByID(ctx, userID).
		Return(nil, errors.New("database error"))

	output, err := fx.service.GetProfile(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "failed to look up user profile")
}

func TestAccountService_TokenTTLsFromConfig(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       newTestConfig(5*time.Minute, 30*time.Minute),
		Logger:       newDiscardLogger(),
	})

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Username: "ada", PasswordHash: "hashed_password"}

	userRepo.EXPECT().FindByIdentifier(ctx, "ada").Return(user, nil)
	hasher.EXPECT().Check("correct horse battery", "hashed_password").Return(true)

	// The login token must carry the configured lifetime, not the default.
	tokenService.EXPECT().Issue(userID, 30*time.Minute).Return("signed-token", nil)

	_, err := service.Login(ctx, &usecase.LoginInput{
		Identifier: "ada",
		Password:   "correct horse battery",
	})
	require.NoError(t, err)
}
