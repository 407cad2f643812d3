package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-lifecycle/internal/service"
)

// GetProfile maneja GET /user/profile.
func (h *AccountHandler) GetProfile(c *gin.Context) {
	identity, ok := authenticatedIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.accountServ.GetProfile(c.Request.Context(), identity)
	if err != nil {
		h.writeProfileError(c, err, "get profile failed")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile maneja PUT /user/profile. image ausente y image vacio son
// distintos: el segundo limpia la imagen.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	identity, ok := authenticatedIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Name            *string `json:"name" binding:"omitempty,max=60"`
		Image           *string `json:"image"`
		CurrentPassword string  `json:"current_password"`
		NewPassword     string  `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return
	}

	profile, err := h.accountServ.UpdateProfile(c.Request.Context(), identity, service.UpdateProfileInput{
		Name:            req.Name,
		Image:           req.Image,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.writeProfileError(c, err, "update profile failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"name":  profile.Name,
			"email": profile.Email,
			"image": profile.Image,
		},
	})
}

func (h *AccountHandler) writeProfileError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrNoPasswordAccount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are logged in with Google. You cannot set a password here."})
	case errors.Is(err, service.ErrCurrentPasswordRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is required to set a new password"})
	case errors.Is(err, service.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect current password"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
	}
}
