package handler

import (
	"errors"
	"net/http"
	"strconv"

	"qipad/internal/domain"
	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobSvc    *service.JobService
	creditSvc *service.CreditService
}

func NewJobHandler(jobSvc *service.JobService, creditSvc *service.CreditService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc, creditSvc: creditSvc}
}

type createJobRequest struct {
	CompanyID      *uint  `json:"company_id"`
	Title          string `json:"title" binding:"required,min=3,max=255"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	SalaryMinPaise int64  `json:"salary_min_paise"`
	SalaryMaxPaise int64  `json:"salary_max_paise"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	job, err := h.jobSvc.Create(c.Request.Context(), service.CreateJobParams{
		PosterID:       userID,
		CompanyID:      req.CompanyID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		SalaryMinPaise: req.SalaryMinPaise,
		SalaryMaxPaise: req.SalaryMaxPaise,
	})
	if err != nil {
		if respondInsufficientCredits(c, err, h.creditSvc, userID, domain.ActionJob) {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	jobs, total, err := h.jobSvc.List(c.Query("location"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "job list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": total})
}

func (h *JobHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	job, err := h.jobSvc.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

type applyRequest struct {
	CoverNote string `json:"cover_note"`
	ResumeURL string `json:"resume_url"`
}

func (h *JobHandler) Apply(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.jobSvc.Apply(uint(id), middleware.GetUserID(c), req.CoverNote, req.ResumeURL)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyApplied) {
			c.JSON(http.StatusConflict, gin.H{"error": "already applied to this job"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *JobHandler) Applications(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	apps, err := h.jobSvc.ListApplications(uint(id), middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}
