package v1

import (
	"net/http"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers credential routes on the rate limited group and
// account routes on the protected group.
func NewAuthHandler(credentials *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	auth := credentials.Group("/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/check-email", handler.CheckEmail)
		auth.POST("/forgot-password", handler.ForgotPassword)
		auth.POST("/reset-password", handler.ResetPassword)
	}

	users := protected.Group("/users")
	{
		users.GET("/me", handler.Me)
		users.PATCH("/profile", handler.UpdateUser)
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// Signup godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SignupRequest  true  "Signup payload"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Signup(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Account created", result)
}

// Login godoc
// @Summary      Log in with e-mail and password
// @Description  Wrong credentials always answer 401 "invalid email or password".
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req, domain.LoginMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString("RequestID"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUC.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Token refreshed", result)
}

// CheckEmail godoc
// @Summary      Check whether an e-mail is already registered
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      EmailRequest  true  "E-mail"
// @Success      200   {object}  response.Response
// @Router       /auth/check-email [post]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	exists, err := h.authUC.CheckEmailExists(c.Request.Context(), req.Email)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "E-mail checked", gin.H{"exists": exists})
}

// ForgotPassword godoc
// @Summary      Request a password reset link
// @Description  Answers identically whether or not the e-mail is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      EmailRequest  true  "E-mail"
// @Success      200   {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "If an account with that email exists, a password reset link has been sent.", nil)
}

// ResetPassword godoc
// @Summary      Set a new password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ResetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ResetPassword(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := currentUser(c)

	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}

// UpdateUser godoc
// @Summary      Update account fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /users/profile [patch]
// @Security     BearerAuth
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req domain.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)

	user, err := h.authUC.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", user)
}
