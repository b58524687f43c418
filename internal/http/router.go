package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, authH *AuthHandler, frontendURL string) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y CORS permisivo.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// El deep-link de confirmación puede aterrizar aquí si el redirect del
	// proveedor apunta al backend; el fragment solo existe client-side, así
	// que un script lo reenvía intacto al callback del frontend.
	r.GET("/", redirectToCallback(frontendURL))

	auth := r.Group("/auth")
	auth.POST("/token", authH.Token)
	auth.POST("/login", authH.Login)
	auth.POST("/register", authH.Register)
	auth.GET("/me", authH.Me)
	auth.PUT("/me", authH.UpdateMe)

	return r
}

func redirectToCallback(frontendURL string) gin.HandlerFunc {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <title>Redirecting...</title>
    <script>
      window.location.href = %[1]q + "/auth/callback" + window.location.hash;
    </script>
  </head>
  <body>
    <p>Redirecting to frontend...</p>
    <script>
      setTimeout(function () {
        window.location.href = %[1]q + "/auth/callback";
      }, 1000);
    </script>
  </body>
</html>`, frontendURL)
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware aplica una política CORS permisiva.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
