package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shail-ja/Project-syncify/internal/identity"
	"github.com/Shail-ja/Project-syncify/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger  *zap.Logger
	session *service.SessionService
}

// NewAuthHandler crea una instancia de AuthHandler.
func NewAuthHandler(logger *zap.Logger, session *service.SessionService) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		session: session,
	}
}

// Token maneja POST /auth/token: intercambio de token del proveedor por la
// sesión canónica. El token llega en Authorization o en el body.
func (h *AuthHandler) Token(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		var req struct {
			AccessToken string `json:"access_token"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			token = strings.TrimSpace(req.AccessToken)
		}
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing access token"})
		return
	}

	result, err := h.session.TokenExchange(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": result.SessionToken, "user": result.User})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.session.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
		case identity.KindOf(err) == identity.KindInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": credentialsMessage(err)})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     result.SessionToken,
		"email":     result.Email,
		"firstName": result.FirstName,
		"lastName":  result.LastName,
	})
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.session.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.registerError(c, err)
		return
	}

	if result.RequiresEmailVerification {
		c.JSON(http.StatusCreated, gin.H{
			"message":                   "Account created. Please check your email to verify your account.",
			"email":                     result.Email,
			"requiresEmailVerification": true,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   result.SessionToken,
		"email":   result.Email,
	})
}

func (h *AuthHandler) registerError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrWeakPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	var perr *identity.Error
	if errors.As(err, &perr) {
		if perr.Kind == identity.KindProviderConfig {
			// Defecto de despliegue, no error del usuario: incluye la guía
			// de remediación.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Database configuration error. Please check your identity provider setup.",
				"details": "This usually indicates a missing or broken database trigger on the provider side.",
				"code":    perr.Code,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
		return
	}

	h.logger.Error("register failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.session.GetProfile(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe maneja PUT /auth/me. Solo toca los campos presentes en el body;
// un string vacío explícito limpia el campo.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.session.UpdateProfile(c.Request.Context(), token, patch)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		h.logger.Error("profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "message": "Profile updated successfully"})
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

func credentialsMessage(err error) string {
	var perr *identity.Error
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return "Invalid email or password"
}
