package service

import (
	"context"
	"errors"

	"github.com/expensio/backend/internal/common/clock"
	commoncrypto "github.com/expensio/backend/internal/common/crypto"
	commonerrors "github.com/expensio/backend/internal/common/errors"
	"github.com/expensio/backend/internal/common/logger"
	userdomain "github.com/expensio/backend/internal/user/domain"
	userrepo "github.com/expensio/backend/internal/user/repository"
)

// AuthService registers users and validates credentials. Shape checks
// (username/password length, charset) happen in the HTTP layer before
// input reaches this service.
type AuthService struct {
	repo        userrepo.Repository
	issuer      *TokenIssuer
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
	dummyHash   string
}

type AuthServiceDeps struct {
	Repo        userrepo.Repository
	Issuer      *TokenIssuer
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	// Precomputed once so a login against a missing username still burns
	// one compare and stays timing-indistinguishable from a wrong password.
	dummyHash, _ := deps.Hasher.Hash("expensio-dummy-credential")

	return &AuthService{
		repo:        deps.Repo,
		issuer:      deps.Issuer,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
		dummyHash:   dummyHash,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type RegisterResult struct {
	UserID userdomain.ID
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return RegisterResult{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return RegisterResult{}, err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return RegisterResult{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return RegisterResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementUsersRegistered()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return RegisterResult{UserID: user.ID}, nil
}

// ValidateCredentials resolves a (username, password) pair to an
// identity. Both a missing user and a wrong password come back as
// ErrInvalidCredentials; the response never says which.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (userdomain.Identity, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			return userdomain.Identity{}, ErrInvalidCredentials
		}
		return userdomain.Identity{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return userdomain.Identity{}, ErrInvalidCredentials
	}

	return user.Identity(), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	identity, err := s.ValidateCredentials(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			incrementLoginsFailed()
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_invalid_credentials",
			}).Warn("login failed: invalid credentials")
			return LoginResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, err
	}

	accessToken, err := s.issuer.IssueAccessToken(identity)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(identity.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, err
	}

	incrementLoginsSucceeded()
	s.log.WithFields(ctx, logger.Fields{
		"username": identity.Username,
		"user_id":  string(identity.ID),
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{AccessToken: accessToken}, nil
}
