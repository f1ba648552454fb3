package usecase

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"freeland/internal/entity"
	"freeland/internal/repo/persistent"
	"freeland/pkg/jwt"
	"freeland/pkg/logger"
	"freeland/pkg/s3"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be 3-20 characters: letters, digits, underscores")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type AuthUseCase interface {
	Register(username, password string) (*entity.User, string, error)
	Login(username, password string) (*entity.User, string, error)
	GetUser(id string) (*entity.User, error)
	UploadAvatar(userID string, file io.Reader, contentType string) (string, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	s3Client   *s3.Client
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	s3Client *s3.Client,
	log *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		s3Client:   s3Client,
		logger:     log,
	}
}

func (uc *authUseCase) Register(username, password string) (*entity.User, string, error) {
	if !usernamePattern.MatchString(username) {
		return nil, "", ErrInvalidUsername
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	if _, err := uc.userRepo.GetByUsername(username); err == nil {
		return nil, "", ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username: username,
		Password: string(hashedPassword),
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Info("User registered: %s", username)
	return user, token, nil
}

func (uc *authUseCase) Login(username, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (uc *authUseCase) GetUser(id string) (*entity.User, error) {
	return uc.userRepo.GetByID(id)
}

func (uc *authUseCase) UploadAvatar(userID string, file io.Reader, contentType string) (string, error) {
	if uc.s3Client == nil {
		return "", errors.New("avatar storage is not configured")
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return "", fmt.Errorf("user not found: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s", userID, uuid.New().String())
	url, err := uc.s3Client.UploadFile(key, file, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	user.AvatarURL = url
	if err := uc.userRepo.Update(user); err != nil {
		return "", fmt.Errorf("failed to save avatar url: %w", err)
	}

	return url, nil
}
