// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "plantcare/internal/delivery/context"
	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/domain/service"
	"plantcare/internal/usecase"
)

// bearerTokenType is the token_type value returned by login and the guest
// exchange.
const bearerTokenType = "bearer"

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	photoStorage service.PhotoStorage
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	PhotoStorage service.PhotoStorage
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		photoStorage: params.PhotoStorage,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account. The email must not be in use.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// Check-then-insert inside one transaction; the unique index on email
		// backs this up under races.
		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing email")
		}

		newUser := &entity.User{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hashedPassword,
		}
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login verifies credentials and issues an owner session token.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// bcrypt is CPU-bound; keep it outside any transaction.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokenService.Issue(user.Email, entity.AudienceUser, srv.tokenService.DefaultTTL())
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("User logged in", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken: token,
		TokenType:   bearerTokenType,
	}, nil
}

// GetProfile returns the owner-facing profile view.
func (srv *userService) GetProfile(ctx context.Context, userID int64) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("profile not found")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return srv.profileOutput(user), nil
}

// UpdateProfile applies the non-nil fields and returns the fresh view. A new
// password is re-hashed; a new email must not belong to another account.
func (srv *userService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*usecase.ProfileOutput, error) {
	// bcrypt is CPU-bound; keep it outside any transaction.
	var hashedPassword string
	if input.Password != nil {
		hashed, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password during profile update", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to hash password during profile update")
		}
		hashedPassword = hashed
	}

	var updatedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, findErr := userRepo.FindByID(ctx, input.UserID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("profile not found")
			}

			return errors.Wrap(findErr, "failed to load user for update")
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil && *input.Email != user.Email {
			// Check-then-update inside one transaction; the unique index on
			// email backs this up under races.
			_, emailErr := userRepo.FindByEmail(ctx, *input.Email)
			if emailErr == nil {
				return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
			}
			if !errors.Is(emailErr, repository.ErrUserNotFound) {
				return errors.Wrap(emailErr, "failed to check existing email")
			}
			user.Email = *input.Email
		}
		if hashedPassword != "" {
			user.PasswordHash = hashedPassword
		}
		if input.Photo != nil {
			user.Photo = *input.Photo
		}

		if updateErr := userRepo.Update(ctx, user); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update profile")
		}

		updatedUser = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Profile update failed", slog.Int64("userID", input.UserID), slog.Any("error", err))

		return nil, err
	}

	return srv.profileOutput(updatedUser), nil
}

func (srv *userService) profileOutput(user *entity.User) *usecase.ProfileOutput {
	return &usecase.ProfileOutput{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		PhotoURL: srv.photoStorage.URL(user.Photo),
	}
}
