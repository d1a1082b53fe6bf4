package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupBonus is credited to every new non-admin account.
const SignupBonus = 100

type AuthService struct {
	ledgerService *LedgerService
}

func NewAuthService() *AuthService {
	return &AuthService{
		ledgerService: NewLedgerService(),
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (s *AuthService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := middleware.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		return nil, "", errors.New("Identifiants invalides")
	}

	if !s.CheckPassword(password, user.Password) {
		return nil, "", errors.New("Identifiants invalides")
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// CreateUser creates an account and, for non-admin roles, seeds the
// ledger with the signup bonus. User row and bonus entry commit together.
func (s *AuthService) CreateUser(email, password, name string, role models.UserRole) (*models.User, error) {
	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Role:     role,
		IsActive: true,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if role != models.RoleAdmin {
			_, err := s.ledgerService.Append(tx, user.ID, SignupBonus,
				models.KindSignupBonus, fmt.Sprintf("Bonus de bienvenue de %d crédits", SignupBonus))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("Cet email est déjà utilisé")
		}
		return nil, err
	}

	return &user, nil
}
