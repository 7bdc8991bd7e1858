package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/models"
)

// ScoreInvalidator drops cached resume verdicts when the underlying resume
// changes.
type ScoreInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID uint)
}

// AuthService handles registration, login and account moderation.
type AuthService struct {
	DB          *gorm.DB
	JWTSecret   []byte
	MasterEmail string
	TokenTTL    time.Duration
	Scores      ScoreInvalidator // optional
}

func NewAuthService(db *gorm.DB, jwtSecret, masterEmail string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		DB:          db,
		JWTSecret:   []byte(jwtSecret),
		MasterEmail: masterEmail,
		TokenTTL:    tokenTTL,
	}
}

// Register creates an account. Approval defaults: recruiters and the master
// faculty identity are approved immediately; students and faculty wait for a
// moderator.
func (s *AuthService) Register(name, email, password, role string) (*models.User, string, error) {
	var existing int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, "", err
	}
	if existing > 0 {
		return nil, "", ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsApproved:   s.defaultApproval(role, email),
	}
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) defaultApproval(role, email string) bool {
	if role == models.RoleRecruiter {
		return true
	}
	if email == s.MasterEmail {
		return true
	}
	return false
}

// Login verifies credentials. Unapproved students are blocked until a
// faculty coordinator approves them.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrUnauthorized
	}
	if user.Role == models.RoleStudent && !user.IsApproved {
		return nil, "", fmt.Errorf("%w: account pending approval", ErrUnauthorized)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(user.ID),
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

// ParseToken validates a token and loads the account it names.
func (s *AuthService) ParseToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)

	var user models.User
	if err := s.DB.Where("id = ?", sub).First(&user).Error; err != nil {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

// ListPending returns unapproved student and faculty accounts for the
// moderation screen. Faculty only.
func (s *AuthService) ListPending(requester *models.User) ([]models.User, error) {
	if requester.Role != models.RoleFaculty {
		return nil, ErrUnauthorized
	}
	var users []models.User
	err := s.DB.Where("is_approved = ? AND role IN ?", false, []string{models.RoleStudent, models.RoleFaculty}).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

// Approve flips an account to approved. Faculty only; idempotent.
func (s *AuthService) Approve(accountID uint, requester *models.User) error {
	if requester.Role != models.RoleFaculty {
		return ErrUnauthorized
	}
	res := s.DB.Model(&models.User{}).Where("id = ?", accountID).Update("is_approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RejectPending deletes an account that was never approved. Faculty only.
func (s *AuthService) RejectPending(accountID uint, requester *models.User) error {
	if requester.Role != models.RoleFaculty {
		return ErrUnauthorized
	}
	var user models.User
	if err := s.DB.First(&user, accountID).Error; err != nil {
		return ErrNotFound
	}
	if user.IsApproved {
		return ErrInvalidState
	}
	// Hard delete: the email has a unique index, and a rejected applicant
	// must be able to register again.
	return s.DB.Unscoped().Delete(&user).Error
}

// UpdateProfile changes name and/or password of the requesting account.
func (s *AuthService) UpdateProfile(user *models.User, name, password string) error {
	if name != "" {
		user.Name = name
	}
	if password != "" {
		if len(password) < 6 {
			return fmt.Errorf("%w: password must be 6+ chars", ErrInvalidState)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = string(hash)
	}
	return s.DB.Save(user).Error
}

// SetResume stores a new profile-level resume reference and clears the stale
// score, in the database and in the shared cache, so the next scoring request
// recomputes.
func (s *AuthService) SetResume(ctx context.Context, user *models.User, resumeRef string) error {
	err := s.DB.Model(user).Updates(map[string]any{
		"resume_ref":   resumeRef,
		"resume_score": nil,
		"resume_note":  "",
	}).Error
	if err != nil {
		return err
	}
	if s.Scores != nil {
		s.Scores.InvalidateStudent(ctx, user.ID)
	}
	return nil
}
