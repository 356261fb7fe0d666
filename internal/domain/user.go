package domain

import (
	"context"
	"time"
)

// MsgInvalidCredentials is the login failure message. Clients rely on it to
// tell a wrong password apart from an expired session.
const MsgInvalidCredentials = "invalid email or password"

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            string    `json:"role"`
	Linkedin        string    `json:"linkedin,omitempty"`
	CurriculoURL    string    `json:"curriculoUrl,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PasswordReset is a single-use reset token; only its SHA-256 is stored.
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120,valid_name,no_emoji"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=candidato empresa"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120,valid_name,no_emoji"`
	Role         *string `json:"role" validate:"omitempty,oneof=candidato empresa"`
	Linkedin     *string `json:"linkedin" validate:"omitempty,url"`
	CurriculoURL *string `json:"curriculoUrl" validate:"omitempty,url"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// AuthResult is the login/signup payload.
type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// LoginMeta carries request data used for security logging.
type LoginMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, hash string) error

	SavePasswordReset(ctx context.Context, reset *PasswordReset) error
	GetPasswordReset(ctx context.Context, tokenHash string) (*PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, tokenHash string) error
}

type AuthUsecase interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest, meta LoginMeta) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
