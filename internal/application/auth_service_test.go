package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/internal/domain/entity"
	repo "blog-api/internal/domain/repository"
	"blog-api/pkg/helpers"
	"blog-api/pkg/mailer"
)

func newAuthService(t *testing.T) (*AuthService, *memUserRepo, *memTokenStore, *memPublisher) {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemTokenStore()
	pub := &memPublisher{}
	svc := &AuthService{
		Users:       users,
		JWT:         helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour),
		Tokens:      tokens,
		Pub:         pub,
		AppName:     "blog-api",
		MailEnabled: true,
	}
	return svc, users, tokens, pub
}

func register(t *testing.T, svc *AuthService, email, username string) string {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return u.ID
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, users, _, pub := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.Password, "plaintext password must never be stored")
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "password123"))

	p, err := users.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Empty(t, p.Bio)

	require.Len(t, pub.jobs, 1)
	job, ok := pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", job.To)
	assert.Equal(t, mailer.TemplateWelcome, job.Template)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	register(t, svc, "ada@example.com", "ada")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ada@example.com",
		Username: "someone-else",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	register(t, svc, "ada@example.com", "ada")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "other@example.com",
		Username: "ada",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

// racingUserRepo fails the insert with a constraint sentinel, the way
// storage does when a concurrent registration wins between the
// existence checks and the INSERT.
type racingUserRepo struct {
	*memUserRepo
	createErr error
}

func (r *racingUserRepo) Create(ctx context.Context, u *entity.User, p *entity.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.memUserRepo.Create(ctx, u, p)
}

func TestRegisterDuplicateRaceSurfacesAsTaken(t *testing.T) {
	users := &racingUserRepo{memUserRepo: newMemUserRepo()}
	svc := &AuthService{
		Users: users,
		JWT:   helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour),
	}
	ctx := context.Background()
	in := RegisterInput{Email: "ada@example.com", Username: "ada", Password: "password123"}

	users.createErr = repo.ErrDuplicateEmail
	_, err := svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken, "losing the email race reads as a duplicate, not a server error")

	users.createErr = repo.ErrDuplicateUsername
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, users, _, _ := newAuthService(t)
	ctx := context.Background()
	id := register(t, svc, "ada@example.com", "ada")

	_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email")

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "wrong password")

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, users.Update(ctx, u))

	_, _, err = svc.Login(ctx, "ada@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "deactivated account")
}

func TestLoginIssuesUsableTokenPair(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()
	id := register(t, svc, "ada@example.com", "ada")

	u, pair, err := svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)

	access, exp, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.True(t, exp.After(time.Now()))
}

func TestRefreshRejectsGarbageAndAccessTokens(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "ada@example.com", "ada")
	_, pair, err := svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Access tokens are signed with a different secret.
	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "ada@example.com", "ada")
	_, pair, err := svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "revoked token must not refresh")

	err = svc.Logout(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "second logout sees a revoked token")
}

func TestRefreshFailsForDeactivatedUser(t *testing.T) {
	svc, users, _, _ := newAuthService(t)
	ctx := context.Background()
	id := register(t, svc, "ada@example.com", "ada")
	_, pair, err := svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, users.Update(ctx, u))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()
	id := register(t, svc, "ada@example.com", "ada")

	bio := "mathematician"
	u, p, err := svc.UpdateProfile(ctx, id, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "mathematician", p.Bio)
	assert.Empty(t, u.FirstName, "unsupplied fields stay untouched")

	first := "Ada"
	website := "https://example.com"
	u, p, err = svc.UpdateProfile(ctx, id, UpdateProfileInput{FirstName: &first, Website: &website})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "https://example.com", p.Website)
	assert.Equal(t, "mathematician", p.Bio, "earlier value survives a later partial update")
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	_, err := svc.GetUser(context.Background(), "b6c2a7c7-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
