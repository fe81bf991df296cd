package handler

import (
	"errors"
	"fmt"
	"net/http"

	"qipad/internal/middleware"
	"qipad/internal/models"
	"qipad/internal/repository"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc   *service.AuthService
	auditRepo *repository.AuditRepository
}

func NewAuthHandler(authSvc *service.AuthService, auditRepo *repository.AuditRepository) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, auditRepo: auditRepo}
}

func (h *AuthHandler) audit(c *gin.Context, userID uint, action string) {
	entry := &models.AuditLog{
		Action:    action,
		Resource:  "user",
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if userID > 0 {
		entry.UserID = &userID
		entry.ResourceID = fmt.Sprint(userID)
	}
	_ = h.auditRepo.Create(entry)
}

type registerRequest struct {
	Username     string `json:"username" binding:"required,min=2,max=64"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,oneof=ENTREPRENEUR INVESTOR"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referral_code"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, tokens, err := h.authSvc.Register(c.Request.Context(), service.RegisterParams{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Phone:        req.Phone,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email or username already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.audit(c, user.ID, "register")
	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": tokens})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, tokens, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		h.audit(c, 0, "login_failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	h.audit(c, user.ID, "login")
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tokens, err := h.authSvc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authSvc.GetUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authSvc.ChangePassword(middleware.GetUserID(c), req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password incorrect"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// CompleteKYC marks the caller verified. Verification itself is handled by
// an external provider; this endpoint records its outcome.
func (h *AuthHandler) CompleteKYC(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.authSvc.CompleteKYC(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kyc update failed"})
		return
	}
	h.audit(c, userID, "kyc_complete")
	c.JSON(http.StatusOK, gin.H{"message": "kyc completed"})
}

type fcmTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) UpdateFCMToken(c *gin.Context) {
	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authSvc.UpdateFCMToken(middleware.GetUserID(c), req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token updated"})
}
