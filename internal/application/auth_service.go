package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-api/internal/domain/entity"
	repo "blog-api/internal/domain/repository"
	"blog-api/pkg/helpers"
	"blog-api/pkg/mailer"
)

// TokenStore is the refresh-token revocation list. Revoke must be
// visible to any IsRevoked call issued after it returns.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EmailPublisher enqueues outbound email jobs.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Users       repo.UserRepository
	JWT         *helpers.JWTManager
	Tokens      TokenStore
	Pub         EmailPublisher
	GCS         *storage.Client
	GCSBucket   string
	Logger      *logrus.Logger
	AppName     string
	MailEnabled bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user with an empty profile in one transaction.
// Only the bcrypt hash of the password is ever stored.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
		IsActive:  true,
	}
	p := &entity.Profile{}
	if err := s.Users.Create(ctx, u, p); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.enqueueWelcome(ctx, u)
	return u, nil
}

// enqueueWelcome is best effort; a mail outage never fails registration.
func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"AppName":  s.AppName,
			"Username": u.Username,
			"Email":    u.Email,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

// Authenticate validates email/password. Unknown email, wrong password,
// and deactivated account all fail identically so callers cannot
// enumerate users.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates a stateless access token and a revocable
// refresh token for the user.
func (s *AuthService) IssueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a live refresh token for a new access token. A
// revoked, expired, or malformed token fails with ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}
	if s.Tokens != nil {
		revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", time.Time{}, err
		}
		if revoked {
			return "", time.Time{}, ErrInvalidToken
		}
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil || !u.IsActive {
		return "", time.Time{}, ErrInvalidToken
	}
	access, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return "", time.Time{}, err
	}
	return access, exp, nil
}

// Logout revokes the refresh token. Only an invalid token surfaces as
// ErrInvalidToken; infrastructure failures propagate for a 500.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	if s.Tokens == nil {
		return nil
	}
	if revoked, err := s.Tokens.IsRevoked(ctx, claims.ID); err != nil {
		return err
	} else if revoked {
		return ErrInvalidToken
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.Tokens.Revoke(ctx, claims.ID, ttl)
}

// GetUser returns a user by id for the public user view.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, *entity.Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	p, err := s.Users.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	return u, p, nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Phone     *string
	Location  *string
	Website   *string
	AvatarURL *string
}

// UpdateProfile applies only the supplied fields so PATCH semantics
// hold for partial payloads.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, *entity.Profile, error) {
	u, p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, nil, err
	}
	if err := s.Users.UpdateProfile(ctx, p); err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// UploadAvatar stores the image in GCS and records its URL on the profile.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("object storage not configured")
	}
	_, p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.AvatarURL = url
	if err := s.Users.UpdateProfile(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}
