// Package auth resolves opaque credentials to user ids. It issues HS256
// access and refresh tokens, signed with separate secrets, and keeps the
// latest refresh token per user so only the most recent login can refresh.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
	"github.com/emilythestrangee/qa-forum/backend/internal/config"
	"github.com/emilythestrangee/qa-forum/backend/internal/database"
	"github.com/emilythestrangee/qa-forum/backend/internal/models"
	"github.com/emilythestrangee/qa-forum/backend/internal/validation"
	"github.com/emilythestrangee/qa-forum/backend/internal/views"
)

type Service struct {
	db      *gorm.DB
	access  signer
	refresh signer
	now     func() time.Time
}

func NewService(db *gorm.DB, cfg *config.AuthConfig) *Service {
	return &Service{
		db:      db,
		access:  signer{secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: signer{secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     time.Now,
	}
}

// bcrypt only looks at the first 72 bytes and refuses longer input.
const maxPasswordBytes = 72

type RegisterInput struct {
	Name     string  `validate:"required,max=100"`
	Email    string  `validate:"required,email,max=255"`
	Password string  `validate:"required,min=6,max=72"`
	Bio      *string `validate:"omitempty,max=1000"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is what a successful login or refresh hands back.
type Session struct {
	User views.UserView `json:"user"`
	Tokens
}

func toView(u models.User) views.UserView {
	return views.UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*views.UserView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes), nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := models.User{Name: in.Name, Email: in.Email, Password: string(hash), Bio: in.Bio}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.NewConflictError("email already registered", err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	v := toView(user)
	return &v, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&user).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid credentials", nil)
		}
		return nil, apperror.NewDatabaseError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	return s.issue(ctx, s.db.WithContext(ctx), user)
}

// issue signs a new pair and stores the refresh token, replacing any earlier one.
func (s *Service) issue(ctx context.Context, db *gorm.DB, user models.User) (*Session, error) {
	now := s.now()
	access, err := s.access.sign(user.ID, now)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate token", err)
	}
	refresh, err := s.refresh.sign(user.ID, now)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate token", err)
	}

	err = db.Model(&models.User{ID: user.ID}).UpdateColumn("refresh_token", refresh).Error
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to store refresh token", err)
	}

	return &Session{User: toView(user), Tokens: Tokens{AccessToken: access, RefreshToken: refresh}}, nil
}

// Logout forgets the stored refresh token. Access tokens already issued stay
// valid until they expire.
func (s *Service) Logout(ctx context.Context, userID int) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{ID: userID}).
		UpdateColumn("refresh_token", nil).Error
	if err != nil {
		return apperror.NewDatabaseError("failed to clear refresh token", err)
	}
	return nil
}

// Refresh trades the current refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperror.NewAuthError("refresh token required", nil)
	}
	userID, err := s.refresh.parse(refreshToken, s.now())
	if err != nil {
		return nil, apperror.NewAuthError("invalid or expired refresh token", err)
	}

	var session *Session
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", userID).Take(&user).Error
		if err != nil {
			if database.IsNotFound(err) {
				return apperror.NewAuthError("invalid refresh token", err)
			}
			return apperror.NewDatabaseError("failed to load user", err)
		}
		if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
			return apperror.NewAuthError("refresh token has been replaced or revoked", nil)
		}

		session, err = s.issue(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ResolveAccessToken returns the user id an access token was issued to.
func (s *Service) ResolveAccessToken(token string) (int, error) {
	if token == "" {
		return 0, apperror.NewAuthError("unauthorized request", nil)
	}
	userID, err := s.access.parse(token, s.now())
	if err != nil {
		return 0, apperror.NewAuthError("invalid or expired access token", err)
	}
	return userID, nil
}

func (s *Service) GetUser(ctx context.Context, userID int) (*views.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NewNotFoundError("user not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to load user", err)
	}
	v := toView(user)
	return &v, nil
}

type ProfileInput struct {
	Name *string
	Bio  *string
}

// UpdateProfile changes the caller's own name and bio. A blank name is ignored.
func (s *Service) UpdateProfile(ctx context.Context, userID int, in ProfileInput) (*views.UserView, error) {
	updates := map[string]any{}
	if in.Name != nil && !validation.Blank(*in.Name) {
		name := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(name) > 100 {
			return nil, apperror.NewValidationError("name must be at most 100 characters", nil)
		}
		updates["name"] = name
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{ID: userID}).Updates(updates)
		if res.Error != nil {
			return nil, apperror.NewDatabaseError("failed to update profile", res.Error)
		}
	}
	return s.GetUser(ctx, userID)
}
