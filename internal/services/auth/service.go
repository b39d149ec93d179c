package auth

import (
	"errors"
	"log"
	"time"

	"corepay/internal/models"
	"corepay/internal/repositories"
	"corepay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

const maxFailedLogins = 5

type Service interface {
	Login(email, password, ip string) (*models.AdminUser, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(adminID uint) error
	ChangePassword(adminID uint, oldPassword, newPassword string) error
	GetAdminByID(adminID uint) (*models.AdminUser, error)
	GetTokenVersion(adminID uint) (int, error)
}

type service struct {
	adminRepo repositories.AdminUserRepository
}

func NewService(adminRepo repositories.AdminUserRepository) Service {
	return &service{
		adminRepo: adminRepo,
	}
}

func (s *service) Login(email, password, ip string) (*models.AdminUser, string, string, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed: no admin for %s", email)
		return nil, "", "", errors.New("invalid credentials")
	}

	if admin.Status != "active" {
		return nil, "", "", errors.New("account disabled")
	}
	if admin.AccountLockoutUntil != nil && admin.AccountLockoutUntil.After(time.Now()) {
		return nil, "", "", errors.New("account temporarily locked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		admin.FailedLoginAttempts++
		if admin.FailedLoginAttempts >= maxFailedLogins {
			lockout := time.Now().Add(15 * time.Minute)
			admin.AccountLockoutUntil = &lockout
			admin.FailedLoginAttempts = 0
		}
		if err := s.adminRepo.Update(admin); err != nil {
			log.Printf("failed to record failed login for admin %d: %v", admin.ID, err)
		}
		return nil, "", "", errors.New("invalid credentials")
	}

	admin.FailedLoginAttempts = 0
	admin.AccountLockoutUntil = nil
	admin.LastLoginAt = time.Now()
	admin.LastLoginIP = ip
	if err := s.adminRepo.Update(admin); err != nil {
		log.Printf("failed to record login for admin %d: %v", admin.ID, err)
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.AdminClaims{
		AdminID:      admin.ID,
		Email:        admin.Email,
		Role:         admin.Role,
		TokenVersion: admin.TokenVersion,
		Permissions:  models.GetDefaultPermissions(admin.Role),
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return admin, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	admin, err := s.adminRepo.GetByID(claims.AdminID)
	if err != nil {
		return "", "", errors.New("admin not found")
	}

	if admin.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.AdminClaims{
		AdminID:      admin.ID,
		Email:        admin.Email,
		Role:         admin.Role,
		TokenVersion: admin.TokenVersion,
		Permissions:  models.GetDefaultPermissions(admin.Role),
	})
}

func (s *service) Logout(adminID uint) error {
	return s.adminRepo.IncrementTokenVersion(adminID)
}

func (s *service) ChangePassword(adminID uint, oldPassword, newPassword string) error {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return errors.New("failed to get admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	if len(newPassword) < 12 {
		return errors.New("password must be at least 12 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	admin.Password = string(hashedPassword)
	admin.TokenVersion++ // Invalidate existing tokens

	if err := s.adminRepo.Update(admin); err != nil {
		return errors.New("failed to update password")
	}

	return nil
}

func (s *service) GetAdminByID(adminID uint) (*models.AdminUser, error) {
	return s.adminRepo.GetByID(adminID)
}

func (s *service) GetTokenVersion(adminID uint) (int, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return 0, err
	}
	return admin.TokenVersion, nil
}
