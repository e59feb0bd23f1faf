package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bubt-idcard/idcard-server/internal/config"
	"github.com/bubt-idcard/idcard-server/internal/mail"
	"github.com/bubt-idcard/idcard-server/internal/models"
	"github.com/bubt-idcard/idcard-server/internal/security"
)

// AuthHandler handles administrator authentication endpoints.
type AuthHandler struct {
	db          *gorm.DB
	jwtCfg      config.JWTConfig
	mailer      mail.Sender
	frontendURL string
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig, mailer mail.Sender, frontendURL string) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg, mailer: mailer, frontendURL: frontendURL}
}

// loginRequest defines the request body for admin login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an administrator and issues a JWT. Unknown
// usernames and wrong passwords produce identical responses.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&admin).Error; errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).Error("login: query admin failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !security.CheckPassword(admin.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, errToken := security.GenerateAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, admin.Email, h.jwtCfg.Expiry)
	if errToken != nil {
		log.WithError(errToken).Error("login: sign token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"email":    admin.Email,
		},
	})
}

// Logout acknowledges a logout. Tokens are stateless and expire
// naturally; the client drops its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// forgotPasswordRequest defines the request body for reset issuance.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// forgotPasswordMessage is returned whether or not the email exists.
const forgotPasswordMessage = "If the email exists, a reset link will be sent."

// ForgotPassword issues a single-use reset token and emails a reset link.
// The response never reveals whether the address is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var body forgotPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&admin).Error; errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).Error("forgot password: query admin failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": forgotPasswordMessage})
		return
	}

	token, errToken := security.NewResetToken()
	if errToken != nil {
		log.WithError(errToken).Error("forgot password: generate token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	expires := time.Now().UTC().Add(security.ResetTokenTTL)
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&admin).Updates(map[string]any{
		"reset_token_hash":    security.HashResetToken(token),
		"reset_token_expires": expires,
	}).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("forgot password: store token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s", h.frontendURL, token, url.QueryEscape(email))

	if errVerify := h.mailer.Verify(c.Request.Context()); errVerify != nil {
		log.WithError(errVerify).Error("forgot password: smtp verification failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email service temporarily unavailable"})
		return
	}

	htmlBody, errRender := mail.RenderPasswordReset(resetLink)
	if errRender != nil {
		log.WithError(errRender).Error("forgot password: render mail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if errSend := h.mailer.Send(c.Request.Context(), email, "Password Reset Request - BUBT ID Card System", htmlBody); errSend != nil {
		log.WithError(errSend).Error("forgot password: send mail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password reset request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": forgotPasswordMessage})
}

// resetPasswordRequest defines the request body for reset redemption.
type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword redeems a reset token and replaces the password. Unknown
// email, wrong token, and expired token all yield the same response.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.TrimSpace(body.Email)
	token := strings.TrimSpace(body.Token)
	newPassword := strings.TrimSpace(body.NewPassword)
	if email == "" || token == "" || newPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}
	if len(newPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 6 characters long"})
		return
	}

	tokenHash := security.HashResetToken(token)
	var admin models.Admin
	errFind := h.db.WithContext(c.Request.Context()).
		Where("email = ? AND reset_token_hash = ? AND reset_token_expires > ?", email, tokenHash, time.Now().UTC()).
		First(&admin).Error
	if errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).Error("reset password: query admin failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
		return
	}

	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		log.WithError(errHash).Error("reset password: hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// Token state clears in the same write as the password update so a
	// redeemed token can never be replayed.
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&admin).Updates(map[string]any{
		"password":            hash,
		"reset_token_hash":    "",
		"reset_token_expires": nil,
	}).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("reset password: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully. You can now login with your new password.",
	})
}
