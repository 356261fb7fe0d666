package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/auth"
	"agroskills-platform/pkg/email"
	"agroskills-platform/pkg/security"
	"agroskills-platform/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuth(repo *MockUserRepo, mailer *MockMailer) domain.AuthUsecase {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   3,
		AttemptWindow: time.Minute,
		BlockDuration: time.Minute,
	}, security.DefaultLogger())
	var sender email.Sender
	if mailer != nil {
		sender = mailer
	}
	uc := usecase.NewAuthUsecase(repo, tokens, tracker, sender, validation.New(), "https://agroskills.test/")
	usecase.SetAuthClock(uc, time.Now, func(time.Duration) {})
	return uc
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Should default role to candidate and hash the password", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "maria@example.com" && u.Role == domain.RoleCandidate &&
				u.PasswordHash != "segredo123" && u.ID != ""
		})).Return(nil)

		res, err := newAuth(repo, nil).Signup(ctx, domain.SignupRequest{
			Name: "Maria Silva", Email: " Maria@Example.com ", Password: "segredo123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
		repo.AssertExpectations(t)
	})

	t.Run("Should return conflict on duplicate e-mail", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicate)

		_, err := newAuth(repo, nil).Signup(ctx, domain.SignupRequest{
			Name: "Maria Silva", Email: "maria@example.com", Password: "segredo123",
		})
		assert.Equal(t, 409, apperror.StatusOf(err))
	})

	t.Run("Should reject short passwords", func(t *testing.T) {
		_, err := newAuth(new(MockUserRepo), nil).Signup(ctx, domain.SignupRequest{
			Name: "Maria Silva", Email: "maria@example.com", Password: "123",
		})
		assert.Equal(t, 400, apperror.StatusOf(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("segredo123")
	require.NoError(t, err)
	user := &domain.User{ID: "u1", Name: "Maria", Email: "maria@example.com", PasswordHash: hash, Role: domain.RoleCandidate}

	t.Run("Should issue tokens for valid credentials", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", ctx, "maria@example.com").Return(user, nil)

		res, err := newAuth(repo, nil).Login(ctx, domain.LoginRequest{Email: "MARIA@example.com", Password: "segredo123"}, domain.LoginMeta{IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.Equal(t, "u1", res.User.ID)
	})

	t.Run("Should use the same message for unknown e-mail and wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", ctx, "maria@example.com").Return(user, nil)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)
		uc := newAuth(repo, nil)

		_, errWrong := uc.Login(ctx, domain.LoginRequest{Email: "maria@example.com", Password: "errada"}, domain.LoginMeta{IP: "10.0.0.2"})
		_, errUnknown := uc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "errada"}, domain.LoginMeta{IP: "10.0.0.2"})
		assert.Equal(t, 401, apperror.StatusOf(errWrong))
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
		assert.Contains(t, errWrong.Error(), domain.MsgInvalidCredentials)
	})

	t.Run("Should block after repeated failures", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", ctx, "maria@example.com").Return(user, nil)
		uc := newAuth(repo, nil)

		var last error
		for i := 0; i < 4; i++ {
			_, last = uc.Login(ctx, domain.LoginRequest{Email: "maria@example.com", Password: "errada"}, domain.LoginMeta{IP: "10.0.0.3"})
		}
		assert.Equal(t, 429, apperror.StatusOf(last))
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	pair, err := tokens.Issue("u1", "maria@example.com", domain.RoleCandidate)
	require.NoError(t, err)

	repo := new(MockUserRepo)
	repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Email: "maria@example.com", Role: domain.RoleCandidate}, nil)
	uc := newAuth(repo, nil)

	t.Run("Should accept a refresh token", func(t *testing.T) {
		res, err := uc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
	})

	t.Run("Should reject an access token used as refresh", func(t *testing.T) {
		_, err := uc.Refresh(ctx, pair.AccessToken)
		assert.Equal(t, 401, apperror.StatusOf(err))
	})
}

func TestUpdateUserKeepsAdminRole(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepo)
	repo.On("GetByID", ctx, "adm").Return(&domain.User{ID: "adm", Name: "Admin", Role: domain.RoleAdmin}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	role := domain.RoleCandidate
	name := "Novo Nome"
	u, err := newAuth(repo, nil).UpdateUser(ctx, "adm", domain.UpdateUserRequest{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, "Novo Nome", u.Name)
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store a hashed token and mail the reset link", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)
		repo.On("GetByEmail", ctx, "maria@example.com").Return(&domain.User{ID: "u1", Name: "Maria", Email: "maria@example.com"}, nil)
		repo.On("SavePasswordReset", ctx, mock.MatchedBy(func(r *domain.PasswordReset) bool {
			return r.UserID == "u1" && len(r.TokenHash) == 64
		})).Return(nil)
		mailer.On("IsConfigured").Return(true)
		mailer.On("SendPasswordReset", "maria@example.com", "Maria", mock.MatchedBy(func(link string) bool {
			return strings.HasPrefix(link, "https://agroskills.test/redefinir-senha?token=")
		})).Return(nil)

		err := newAuth(repo, mailer).ForgotPassword(ctx, "maria@example.com")
		require.NoError(t, err)
		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("Should not reveal unknown e-mails", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

		err := newAuth(repo, new(MockMailer)).ForgotPassword(ctx, "ghost@example.com")
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "SavePasswordReset", mock.Anything, mock.Anything)
	})

	t.Run("Should wait for the minimum duration", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)
		uc := newAuth(repo, nil)

		var slept time.Duration
		usecase.SetAuthClock(uc, fixedClock(time.Unix(0, 0)), func(d time.Duration) { slept = d })
		require.NoError(t, uc.ForgotPassword(ctx, "ghost@example.com"))
		assert.Equal(t, 400*time.Millisecond, slept)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Should reject expired tokens", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetPasswordReset", ctx, mock.Anything).Return(&domain.PasswordReset{
			TokenHash: "h", UserID: "u1", ExpiresAt: now.Add(-time.Minute),
		}, nil)
		uc := newAuth(repo, nil)
		usecase.SetAuthClock(uc, fixedClock(now), func(time.Duration) {})

		err := uc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: "abc", Password: "novaSenha1"})
		assert.Equal(t, 400, apperror.StatusOf(err))
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should consume the token and update the password", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetPasswordReset", ctx, mock.Anything).Return(&domain.PasswordReset{
			TokenHash: "h", UserID: "u1", ExpiresAt: now.Add(time.Minute),
		}, nil)
		repo.On("MarkPasswordResetUsed", ctx, "h").Return(nil)
		repo.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string")).Return(nil)
		repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Email: "maria@example.com"}, nil)
		uc := newAuth(repo, nil)
		usecase.SetAuthClock(uc, fixedClock(now), func(time.Duration) {})

		require.NoError(t, uc.ResetPassword(ctx, domain.ResetPasswordRequest{Token: "abc", Password: "novaSenha1"}))
		repo.AssertExpectations(t)
	})
}
