package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/expensio/backend/internal/auth/service"
	userdomain "github.com/expensio/backend/internal/user/domain"
	userrepo "github.com/expensio/backend/internal/user/repository"
)

func TestAuthService_Login_Success(t *testing.T) {
	svc, mockUserRepo, mockHasher, _, mockClock := setupAuthService(t)

	username := "testuser"
	password := "password123"
	hashedPassword := "hashed_password123"
	userID := "user-123"

	mockUserRepo.findByUsernameFunc = func(ctx context.Context, uname string) (userdomain.User, error) {
		if uname != username {
			t.Errorf("expected username %s, got %s", username, uname)
		}
		return userdomain.User{
			ID:           userdomain.ID(userID),
			Username:     username,
			PasswordHash: hashedPassword,
			CreatedAt:    mockClock.Now(),
		}, nil
	}

	mockHasher.compareFunc = func(hash string, pwd string) error {
		if hash != hashedPassword || pwd != password {
			return errors.New("password mismatch")
		}
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: username,
		Password: password,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.AccessToken == "" {
		t.Error("expected access token to be set")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, mockUserRepo, mockHasher, _, _ := setupAuthService(t)

	mockUserRepo.findByUsernameFunc = func(ctx context.Context, uname string) (userdomain.User, error) {
		return userdomain.User{
			ID:           "user-123",
			Username:     uname,
			PasswordHash: "hashed_correct",
		}, nil
	}

	mockHasher.compareFunc = func(hash string, pwd string) error {
		return errors.New("password mismatch")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "testuser",
		Password: "wrongpassword",
	})

	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, mockUserRepo, mockHasher, _, _ := setupAuthService(t)

	mockUserRepo.findByUsernameFunc = func(ctx context.Context, uname string) (userdomain.User, error) {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}

	baseline := mockHasher.compareCalls

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "nobody",
		Password: "password123",
	})

	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// The missing-user path still burns one hash compare so the two
	// failure modes stay timing-indistinguishable.
	if mockHasher.compareCalls != baseline+1 {
		t.Errorf("expected one compare call for unknown user, got %d", mockHasher.compareCalls-baseline)
	}
}

func TestAuthService_Login_SameErrorForBothFailures(t *testing.T) {
	svc, mockUserRepo, mockHasher, _, _ := setupAuthService(t)

	mockUserRepo.findByUsernameFunc = func(ctx context.Context, uname string) (userdomain.User, error) {
		if uname == "known" {
			return userdomain.User{ID: "user-123", Username: uname, PasswordHash: "hashed_correct"}, nil
		}
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	mockHasher.compareFunc = func(hash string, pwd string) error {
		return errors.New("password mismatch")
	}

	_, errKnown := svc.Login(context.Background(), service.LoginInput{Username: "known", Password: "bad"})
	_, errUnknown := svc.Login(context.Background(), service.LoginInput{Username: "unknown", Password: "bad"})

	if !errors.Is(errKnown, service.ErrInvalidCredentials) || !errors.Is(errUnknown, service.ErrInvalidCredentials) {
		t.Fatalf("expected identical credential errors, got %v and %v", errKnown, errUnknown)
	}
	if errKnown.Error() != errUnknown.Error() {
		t.Errorf("error messages differ: %q vs %q", errKnown.Error(), errUnknown.Error())
	}
}
