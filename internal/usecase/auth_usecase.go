package usecase

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"catalog_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "Unable to log in with provided credentials."

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login checks the credentials and issues a new token.
	Login(ctx context.Context, username, password string) (*domain.Token, error)
	// Authenticate resolves a token key to its user.
	Authenticate(ctx context.Context, key string) (*domain.User, error)
	Logout(ctx context.Context, key string) error
}

type authUseCase struct {
	userRepo  domain.UserRepository
	tokenRepo domain.TokenRepository
	log       *logrus.Logger
}

func NewAuthUseCase(userRepo domain.UserRepository, tokenRepo domain.TokenRepository, logger *logrus.Logger) AuthService {
	return &authUseCase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		log:       logger,
	}
}

type credentials struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

func (uc *authUseCase) Register(ctx context.Context, username, password string) (*domain.User, error) {
	uc.log.Infof("Use Case: Attempting to register user '%s'", username)

	verr := validateStruct(&credentials{Username: username, Password: password})
	if password != "" {
		if err := validatePassword(password); err != nil {
			verr.Add("password", err.Error())
		}
	}
	if err := errOrNil(verr); err != nil {
		uc.log.Warnf("Use Case: Registration of '%s' rejected: %v", username, err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", username, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	user, err := uc.userRepo.CreateUser(ctx, &domain.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Warnf("Use Case: Registration failed - username '%s' already taken", username)
			return nil, domain.NewValidationError("username", "A user with that username already exists.")
		}
		uc.log.Errorf("Use Case: Repository failed to create user '%s': %v", username, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully with ID %d", user.ID)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	if err := errOrNil(validateStruct(&credentials{Username: username, Password: password})); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Login failed - user '%s' not found", username)
			return nil, domain.NewValidationError("non_field_errors", msgBadCredentials)
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Login failed - incorrect password for user '%s' (ID: %d)", username, user.ID)
			return nil, domain.NewValidationError("non_field_errors", msgBadCredentials)
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user '%s': %v", username, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	token, err := uc.tokenRepo.CreateToken(ctx, &domain.Token{Key: uuid.NewString(), UserID: user.ID})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to store token for user ID %d: %v", user.ID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: User '%s' (ID: %d) logged in", username, user.ID)
	return token, nil
}

func (uc *authUseCase) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUnauthenticated
	}
	token, err := uc.tokenRepo.GetTokenByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: Invalid token.", domain.ErrUnauthenticated)
		}
		return nil, err
	}
	user, err := uc.userRepo.GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: User inactive or deleted.", domain.ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

func (uc *authUseCase) Logout(ctx context.Context, key string) error {
	if err := uc.tokenRepo.DeleteToken(ctx, key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: Invalid token.", domain.ErrUnauthenticated)
		}
		return err
	}
	uc.log.Info("Use Case: Token revoked")
	return nil
}

// validatePassword enforces basic password complexity rules.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("This password is too short. It must contain at least 8 characters.")
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		return errors.New("Password must contain at least one lowercase letter.")
	}
	if !hasDigit {
		return errors.New("Password must contain at least one digit.")
	}
	return nil
}
