package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-lifecycle/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas de cuentas.
// metrics puede ser nil en tests. oauthSecret vacio deshabilita /auth/oauth.
func NewRouter(
	logger *zap.Logger,
	accountH *AccountHandler,
	jwtSvc *service.JWTService,
	metrics *Metrics,
	oauthSecret string,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	if metrics != nil {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth", jsonContentTypeMiddleware())
	auth.POST("/register", accountH.Register)
	auth.POST("/verify", accountH.VerifyEmail)
	auth.POST("/login", accountH.Login)
	auth.POST("/forgot-password", accountH.ForgotPassword)
	auth.POST("/reset-password", accountH.ResetPassword)
	auth.POST("/oauth", OAuthCallbackMiddleware(oauthSecret), accountH.OAuthLogin)
	auth.POST("/refresh", accountH.RefreshToken)
	auth.POST("/logout", accountH.Logout)

	user := r.Group("/user", jsonContentTypeMiddleware(), JWTAuthMiddleware(jwtSvc))
	user.GET("/profile", accountH.GetProfile)
	user.PUT("/profile", accountH.UpdateProfile)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
