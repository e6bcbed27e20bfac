// Package services содержит логику бизнес-уровня для работы с пациентами и аутентификацией.
package services

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/doctor-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/doctor-booking/internal/lib/password"
	"github.com/magabrotheeeer/doctor-booking/internal/models"
)

// UserRepository описывает контракт для работы с пациентами в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пациента и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пациента по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пациента по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateUserProfile обновляет профиль пациента.
	UpdateUserProfile(ctx context.Context, userUID string, profile models.DummyProfile) error
}

// AuthService отвечает за регистрацию, авторизацию, профиль и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пациента с хэшированием пароля и возвращает JWT.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateToken(uid)
}

// Login проверяет пароль пациента и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", fmt.Errorf("login: %w", models.ErrInvalidCredentials)
	}
	return s.jwtMaker.GenerateToken(user.UID)
}

// ValidateToken проверяет JWT и возвращает UID пациента.
func (s *AuthService) ValidateToken(_ context.Context, token string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserUID, nil
}

// GetProfile возвращает профиль пациента.
func (s *AuthService) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile обновляет профиль пациента. Снимки в уже созданных записях
// на приём при этом не меняются.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfile) error {
	return s.users.UpdateUserProfile(ctx, userUID, req)
}
