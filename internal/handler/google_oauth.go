package handler

import (
	"net/http"

	"qipad/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GoogleOAuthHandler struct {
	authSvc *service.AuthService
}

func NewGoogleOAuthHandler(authSvc *service.AuthService) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{authSvc: authSvc}
}

// Login redirects the browser to Google's consent screen.
func (h *GoogleOAuthHandler) Login(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authSvc.GoogleAuthURL(state))
}

// Callback completes the flow: state check, code exchange, token issue.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	stateCookie, err := c.Cookie("oauth_state")
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	user, tokens, err := h.authSvc.GoogleLogin(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "google login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}
