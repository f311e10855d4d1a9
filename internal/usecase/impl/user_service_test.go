package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/usecase"
)

func newTestUserService(userRepo *fakeUserRepo) (usecase.UserUsecase, *fakeTokenService) {
	tokenSvc := &fakeTokenService{}
	factory := &fakeRepoFactory{userRepo: userRepo}

	svc := NewUserService(UserServiceParams{
		TxManager:    &fakeTxManager{factory: factory},
		UserRepo:     userRepo,
		Hasher:       &fakeHasher{},
		TokenService: tokenSvc,
		PhotoStorage: &fakePhotoStorage{},
		Logger:       discardLogger(),
	})

	return svc, tokenSvc
}

func TestUserService_Register(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, _ := newTestUserService(userRepo)

	output, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Zuzya",
		Email:    "example@mail.com",
		Password: "passwordPASSWORD1",
	})
	require.NoError(t, err)
	assert.NotZero(t, output.User.ID)
	assert.Equal(t, "Zuzya", output.User.Name)
	assert.Equal(t, "hashed:passwordPASSWORD1", output.User.PasswordHash)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc, _ := newTestUserService(userRepo)

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Name: "Zuzya", Email: "example@mail.com", Password: "passwordPASSWORD1",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &usecase.RegisterInput{
		Name: "Other", Email: "example@mail.com", Password: "anotherPASSWORD2",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Login(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Email:        "example@mail.com",
		PasswordHash: "hashed:passwordPASSWORD1",
	}))
	svc, tokenSvc := newTestUserService(userRepo)

	output, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "example@mail.com",
		Password: "passwordPASSWORD1",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-user", output.AccessToken)
	assert.Equal(t, "bearer", output.TokenType)

	// The session token carries the email as subject and the user audience
	// with the default lifetime.
	assert.Equal(t, "example@mail.com", tokenSvc.issuedSubject)
	assert.Equal(t, entity.AudienceUser, tokenSvc.issuedAudience)
	assert.Equal(t, tokenSvc.DefaultTTL(), tokenSvc.issuedTTL)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Email:        "example@mail.com",
		PasswordHash: "hashed:passwordPASSWORD1",
	}))
	svc, _ := newTestUserService(userRepo)

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "example@mail.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestUserService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@mail.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_GetProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Name:  "Zuzya",
		Email: "example@mail.com",
		Photo: "user/zuzya.png",
	}))
	svc, _ := newTestUserService(userRepo)

	profile, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Zuzya", profile.Name)
	assert.Equal(t, "https://cdn.test/user/zuzya.png", profile.PhotoURL)
}

func TestUserService_UpdateProfile_Partial(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Name:  "Zuzya",
		Email: "example@mail.com",
		Photo: "user/zuzya.png",
	}))
	svc, _ := newTestUserService(userRepo)

	newName := "Zuzya the Second"
	profile, err := svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{
		UserID: 1,
		Name:   &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Zuzya the Second", profile.Name)
	// Untouched fields survive.
	assert.Equal(t, "https://cdn.test/user/zuzya.png", profile.PhotoURL)
}

func TestUserService_UpdateProfile_Credentials(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Name:         "Zuzya",
		Email:        "example@mail.com",
		PasswordHash: "hashed:passwordPASSWORD1",
	}))
	svc, _ := newTestUserService(userRepo)

	newEmail := "zuzya@mail.com"
	newPassword := "freshPASSWORD22"
	profile, err := svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{
		UserID:   1,
		Email:    &newEmail,
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "zuzya@mail.com", profile.Email)

	// The new password is stored re-hashed and works for login.
	stored, err := userRepo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "hashed:freshPASSWORD22", stored.PasswordHash)

	_, err = svc.Login(context.Background(), &usecase.LoginInput{
		Email:    "zuzya@mail.com",
		Password: "freshPASSWORD22",
	})
	require.NoError(t, err)
}

func TestUserService_UpdateProfile_EmailTaken(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Email: "example@mail.com",
	}))
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Email: "other@mail.com",
	}))
	svc, _ := newTestUserService(userRepo)

	takenEmail := "other@mail.com"
	_, err := svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{
		UserID: 1,
		Email:  &takenEmail,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_UpdateProfile_SameEmailNoConflict(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		Name:  "Zuzya",
		Email: "example@mail.com",
	}))
	svc, _ := newTestUserService(userRepo)

	// Resubmitting the current email is not a conflict with oneself.
	sameEmail := "example@mail.com"
	profile, err := svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{
		UserID: 1,
		Email:  &sameEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, "example@mail.com", profile.Email)
}

func TestUserService_UpdateProfile_NotFound(t *testing.T) {
	svc, _ := newTestUserService(newFakeUserRepo())

	name := "Nobody"
	_, err := svc.UpdateProfile(context.Background(), &usecase.UpdateProfileInput{
		UserID: 99,
		Name:   &name,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
