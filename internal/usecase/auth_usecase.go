package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/auth"
	"agroskills-platform/pkg/email"
	"agroskills-platform/pkg/logger"
	"agroskills-platform/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	resetTokenTTL = time.Hour
	// forgotPasswordFloor is the minimum time ForgotPassword takes, so the
	// response does not reveal whether the e-mail exists.
	forgotPasswordFloor = 400 * time.Millisecond
)

type authUsecase struct {
	userRepo    domain.UserRepository
	tokens      *auth.TokenManager
	tracker     *security.LoginTracker
	mailer      email.Sender
	validate    *validator.Validate
	secLog      *security.SecurityLogger
	frontendURL string

	now   func() time.Time
	sleep func(time.Duration)
	floor time.Duration
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	tracker *security.LoginTracker,
	mailer email.Sender,
	validate *validator.Validate,
	frontendURL string,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		tokens:      tokens,
		tracker:     tracker,
		mailer:      mailer,
		validate:    validate,
		secLog:      security.DefaultLogger(),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
		sleep:       time.Sleep,
		floor:       forgotPasswordFloor,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (u *authUsecase) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleCandidate
	}
	now := u.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("E-mail já cadastrado")
		}
		return nil, apperror.Internal(err)
	}

	return u.issue(user)
}

func (u *authUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.LoginMeta) (*domain.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	if u.tracker != nil {
		blocked, err := u.tracker.IsBlocked(ctx, req.Email)
		if err != nil {
			logger.Log.Warn("login tracker unavailable", "error", err)
		}
		if blocked {
			u.secLog.LogLoginBlocked(ctx, req.Email, meta.IP, meta.UserAgent, meta.RequestID)
			return nil, apperror.TooManyRequests("Muitas tentativas de login. Tente novamente mais tarde.")
		}
	}

	user, err := u.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if user == nil || security.CheckPassword(user.PasswordHash, req.Password) != nil {
		reason := "wrong_password"
		if user == nil {
			reason = "unknown_email"
		}
		u.secLog.LogLoginFailed(ctx, req.Email, meta.IP, meta.UserAgent, meta.RequestID, reason)
		if u.tracker != nil {
			if blocked, _, _ := u.tracker.RecordFailedAttempt(ctx, req.Email, meta.IP, meta.UserAgent, meta.RequestID); blocked {
				return nil, apperror.TooManyRequests("Muitas tentativas de login. Tente novamente mais tarde.")
			}
		}
		return nil, apperror.Unauthorized(domain.MsgInvalidCredentials)
	}

	if u.tracker != nil {
		_ = u.tracker.ClearAttempts(ctx, req.Email)
	}
	u.secLog.LogLoginSuccess(ctx, req.Email, meta.IP, meta.RequestID)
	return u.issue(user)
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := u.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, apperror.Unauthorized("Sessão expirada")
	}
	user, err := u.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("Sessão expirada")
		}
		return nil, apperror.Internal(err)
	}
	return u.issue(user)
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	pair, err := u.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuário não encontrado")
	}
	return user, nil
}

func (u *authUsecase) UpdateUser(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuário não encontrado")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil && user.Role != domain.RoleAdmin {
		user.Role = *req.Role
	}
	if req.Linkedin != nil {
		user.Linkedin = *req.Linkedin
	}
	if req.CurriculoURL != nil {
		user.CurriculoURL = *req.CurriculoURL
	}
	user.UpdatedAt = u.now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "Usuário não encontrado")
	}
	return user, nil
}

func (u *authUsecase) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	_, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, apperror.Internal(err)
	}
	return true, nil
}

// ForgotPassword always succeeds from the caller's point of view. Unknown
// e-mails and delivery failures are only logged.
func (u *authUsecase) ForgotPassword(ctx context.Context, addr string) error {
	start := u.now()
	defer func() {
		if elapsed := u.now().Sub(start); elapsed < u.floor {
			u.sleep(u.floor - elapsed)
		}
	}()

	addr = normalizeEmail(addr)
	if addr == "" {
		return apperror.BadRequest("E-mail: obrigatório")
	}

	user, err := u.userRepo.GetByEmail(ctx, addr)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Log.Error("forgot password lookup failed", "error", err)
		}
		return nil
	}

	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	reset := &domain.PasswordReset{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		ExpiresAt: u.now().Add(resetTokenTTL),
	}
	if err := u.userRepo.SavePasswordReset(ctx, reset); err != nil {
		logger.Log.Error("failed to save password reset", "error", err)
		return nil
	}

	u.secLog.LogPasswordEvent(ctx, security.EventPasswordResetSent, user.Email)

	if u.mailer == nil || !u.mailer.IsConfigured() {
		logger.Log.Warn("SMTP not configured, password reset e-mail not sent", "user_id", user.ID)
		return nil
	}
	link := u.frontendURL + "/redefinir-senha?token=" + token
	if err := u.mailer.SendPasswordReset(user.Email, user.Name, link); err != nil {
		logger.Log.Error("failed to send password reset e-mail", "error", err, "user_id", user.ID)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := validate(u.validate, req); err != nil {
		return err
	}

	invalid := apperror.BadRequest("Link de redefinição inválido ou expirado")
	reset, err := u.userRepo.GetPasswordReset(ctx, hashToken(req.Token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalid
		}
		return apperror.Internal(err)
	}
	if reset.UsedAt != nil || u.now().After(reset.ExpiresAt) {
		return invalid
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.userRepo.MarkPasswordResetUsed(ctx, reset.TokenHash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalid
		}
		return apperror.Internal(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return notFoundOr(err, "Usuário não encontrado")
	}

	if user, err := u.userRepo.GetByID(ctx, reset.UserID); err == nil {
		u.secLog.LogPasswordEvent(ctx, security.EventPasswordReset, user.Email)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
