package handler

import (
	"net/http"
	"strconv"

	"qipad/internal/domain"
	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectSvc *service.ProjectService
	creditSvc  *service.CreditService
}

func NewProjectHandler(projectSvc *service.ProjectService, creditSvc *service.CreditService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc, creditSvc: creditSvc}
}

type createProjectRequest struct {
	Title                  string `json:"title" binding:"required,min=3,max=255"`
	Description            string `json:"description"`
	Category               string `json:"category"`
	FundingGoalPaise       int64  `json:"funding_goal_paise" binding:"required,gt=0"`
	MinimumInvestmentPaise int64  `json:"minimum_investment_paise" binding:"gte=0"`
	CampaignDurationDays   int    `json:"campaign_duration_days"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	project, err := h.projectSvc.Create(c.Request.Context(), service.CreateProjectParams{
		OwnerID:                userID,
		Title:                  req.Title,
		Description:            req.Description,
		Category:               req.Category,
		FundingGoalPaise:       req.FundingGoalPaise,
		MinimumInvestmentPaise: req.MinimumInvestmentPaise,
		CampaignDurationDays:   req.CampaignDurationDays,
	})
	if err != nil {
		if respondInsufficientCredits(c, err, h.creditSvc, userID, domain.ActionInnovation) {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	projects, total, err := h.projectSvc.List(c.Query("category"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": total})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	project, err := h.projectSvc.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"project":          project,
		"progress_percent": project.ProgressPercent(),
	})
}

func (h *ProjectHandler) Mine(c *gin.Context) {
	projects, err := h.projectSvc.ListMine(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Close(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	if err := h.projectSvc.Close(uint(id), middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project closed"})
}
