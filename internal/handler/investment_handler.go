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

type InvestmentHandler struct {
	investmentSvc *service.InvestmentService
}

func NewInvestmentHandler(investmentSvc *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investmentSvc: investmentSvc}
}

type commitmentRequest struct {
	AmountPaise    int64   `json:"amount_paise" binding:"required,gt=0"`
	ExpectedStakes float64 `json:"expected_stakes"`
	Type           string  `json:"type" binding:"required,oneof=INVEST SUPPORT"`
	Phone          string  `json:"phone"`
	Message        string  `json:"message"`
	IdempotencyKey string  `json:"idempotency_key"`
}

func (h *InvestmentHandler) params(c *gin.Context, req *commitmentRequest) (service.CommitmentParams, bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return service.CommitmentParams{}, false
	}
	return service.CommitmentParams{
		ProjectID:      uint(projectID),
		InvestorID:     middleware.GetUserID(c),
		AmountPaise:    req.AmountPaise,
		ExpectedStakes: req.ExpectedStakes,
		Type:           req.Type,
		Phone:          req.Phone,
		Message:        req.Message,
	}, true
}

func respondCommitmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBelowMinimum):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount below the project's minimum investment"})
	case errors.Is(err, domain.ErrInvalidStake):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "expected stake must be between 0 and 100"})
	case errors.Is(err, service.ErrProjectNotOpen):
		c.JSON(http.StatusConflict, gin.H{"error": "project is not open for funding"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// ExpressInterest records a commitment without moving money; the
// entrepreneur follows up directly.
func (h *InvestmentHandler) ExpressInterest(c *gin.Context) {
	var req commitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, ok := h.params(c, &req)
	if !ok {
		return
	}
	inv, err := h.investmentSvc.ExpressInterest(c.Request.Context(), p)
	if err != nil {
		respondCommitmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"investment": inv})
}

// Invest records a funded commitment and returns the gateway checkout.
func (h *InvestmentHandler) Invest(c *gin.Context) {
	var req commitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, ok := h.params(c, &req)
	if !ok {
		return
	}
	inv, session, err := h.investmentSvc.Invest(c.Request.Context(), p, req.IdempotencyKey)
	if err != nil {
		respondCommitmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"investment": inv, "checkout": session})
}

func (h *InvestmentHandler) ListByProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.investmentSvc.ListByProject(uint(projectID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "investment list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"investments": list})
}

func (h *InvestmentHandler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.investmentSvc.ListMine(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "investment list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"investments": list})
}
