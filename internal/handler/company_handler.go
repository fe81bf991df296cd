package handler

import (
	"net/http"
	"strconv"

	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companySvc *service.CompanyService
}

func NewCompanyHandler(companySvc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companySvc: companySvc}
}

type registerCompanyRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	CIN         string `json:"cin"`
	Sector      string `json:"sector"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// Register creates a company. When wallet credits cover the fee the company
// activates immediately; otherwise the response carries a gateway checkout
// and the company stays pending until it settles.
func (h *CompanyHandler) Register(c *gin.Context) {
	var req registerCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	company, session, err := h.companySvc.Register(c.Request.Context(), service.RegisterCompanyParams{
		OwnerID:     middleware.GetUserID(c),
		Name:        req.Name,
		CIN:         req.CIN,
		Sector:      req.Sector,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"company": company}
	if session != nil {
		resp["checkout"] = session
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}
	company, err := h.companySvc.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Mine(c *gin.Context) {
	companies, err := h.companySvc.ListMine(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "company list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}
