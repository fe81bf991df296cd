package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"qipad/internal/middleware"
	"qipad/internal/service"
	"qipad/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// UploadHandler stores project media (cover image, pitch deck) in
// Cloudinary and attaches the URLs to the owner's project.
type UploadHandler struct {
	cld        cloudinary.Client
	projectSvc *service.ProjectService
}

func NewUploadHandler(cld cloudinary.Client, projectSvc *service.ProjectService) *UploadHandler {
	return &UploadHandler{cld: cld, projectSvc: projectSvc}
}

// ProjectMedia accepts multipart fields "image" and/or "pitch_deck".
func (h *UploadHandler) ProjectMedia(c *gin.Context) {
	if h.cld == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var imageURL, deckURL string
	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image"})
			return
		}
		defer f.Close()
		imageURL, _, err = h.cld.UploadImage(c.Request.Context(), f, "projects",
			fmt.Sprintf("project_%d_%s", projectID, uuid.NewString()[:8]))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
	}
	if fh, err := c.FormFile("pitch_deck"); err == nil {
		if fh.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "pitch deck too large"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable pitch deck"})
			return
		}
		defer f.Close()
		deckURL, err = h.cld.UploadDocument(c.Request.Context(), f, "pitch_decks",
			fmt.Sprintf("deck_%d_%s", projectID, uuid.NewString()[:8]))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "pitch deck upload failed"})
			return
		}
	}
	if imageURL == "" && deckURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	project, err := h.projectSvc.AttachMedia(uint(projectID), middleware.GetUserID(c), imageURL, deckURL)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}
