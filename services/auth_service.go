package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MikelGMatos/NutriSense/models"
	"github.com/MikelGMatos/NutriSense/utils"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a user with a bcrypt-hashed password and returns the new id.
func (s *AuthService) Register(email, password, name string) (uint, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return 0, err
	}

	user := models.User{Email: email, Password: hashed, Name: name}
	if err := s.db.Create(&user).Error; err != nil {
		// the unique index closes the check-then-insert window
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return user.ID, nil
}

// Authenticate verifies credentials and mints a bearer token.
func (s *AuthService) Authenticate(email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}
