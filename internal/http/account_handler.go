package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-lifecycle/internal/domain"
	"account-lifecycle/internal/service"
)

const (
	msgInternalError      = "Internal Server Error"
	msgInvalidRequest     = "invalid request"
	msgInvalidToken       = "Invalid or expired token"
	msgInvalidCredentials = "Invalid credentials"
	msgResetLinkSent      = "If an account exists with this email, a reset link has been sent."
	msgUseGoogleLogin     = "This account uses Google Login. Please sign in with Google."
	msgUsePasswordLogin   = "This account uses a password. Please sign in with your email and password."
)

// AccountHandler mantiene dependencias para endpoints de cuentas.
type AccountHandler struct {
	logger      *zap.Logger
	accountServ *service.AccountService
	jwtServ     *service.JWTService
}

// NewAccountHandler crea una instancia de AccountHandler. jwtServ puede ser nil:
// en ese caso el login no emite sesion.
func NewAccountHandler(logger *zap.Logger, accountServ *service.AccountService, jwtServ *service.JWTService) *AccountHandler {
	return &AccountHandler{
		logger:      logger,
		accountServ: accountServ,
		jwtServ:     jwtServ,
	}
}

// Register maneja POST /auth/register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=60"`
		Email    string `json:"email" binding:"required,email,max=100"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}

	_, err := h.accountServ.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while registering the user."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully. Please check your email to verify your account."})
}

// VerifyEmail maneja POST /auth/verify.
func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidToken})
		return
	}

	if err := h.accountServ.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidToken})
			return
		}
		h.logger.Error("verify email failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// Login maneja POST /auth/login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidCredentials})
		return
	}

	identity, err := h.accountServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidCredentials})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while logging in."})
		return
	}

	resp := gin.H{"message": "Login successful", "user": identity}
	if h.jwtServ != nil {
		tokens, err := h.jwtServ.GeneratePair(domain.AuthenticatedIdentity{Email: identity.Email, Name: identity.Name})
		if err != nil {
			h.logger.Error("jwt issue failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		resp["tokens"] = tokens
	}
	c.JSON(http.StatusOK, resp)
}

// ForgotPassword maneja POST /auth/forgot-password.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid forgot password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}

	if err := h.accountServ.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrNoPasswordAccount):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgUseGoogleLogin})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		default:
			h.logger.Error("forgot password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgResetLinkSent})
}

// ResetPassword maneja POST /auth/reset-password.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}

	if err := h.accountServ.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidToken})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		default:
			h.logger.Error("reset password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// OAuthLogin maneja POST /auth/oauth. Lo invoca el callback del proveedor
// externo una vez autenticado el usuario.
func (h *AccountHandler) OAuthLogin(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email,max=100"`
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid oauth request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth data"})
		return
	}

	profile, err := h.accountServ.SignInExternal(c.Request.Context(), service.ExternalIdentity{
		Email: req.Email,
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth data"})
			return
		case errors.Is(err, service.ErrPasswordAccount):
			c.JSON(http.StatusConflict, gin.H{"error": msgUsePasswordLogin})
			return
		}
		h.logger.Error("oauth login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete oauth"})
		return
	}

	tokens, err := h.issueTokens(profile)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile, "tokens": tokens})
}

// RefreshToken maneja POST /auth/refresh.
func (h *AccountHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout.
func (h *AccountHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid logout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	if err := h.jwtServ.RevokeRefresh(req.RefreshToken); err != nil {
		if !errors.Is(err, service.ErrJWTInvalid) && !errors.Is(err, service.ErrJWTExpired) {
			h.logger.Warn("refresh revoke failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke session"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) issueTokens(profile domain.Profile) (service.TokenPair, error) {
	if h.jwtServ == nil {
		return service.TokenPair{}, errors.New("jwt not configured")
	}
	return h.jwtServ.GeneratePair(domain.AuthenticatedIdentity{Email: profile.Email, Name: profile.Name})
}
