package handler

import (
	"errors"
	"net/http"

	"qipad/internal/domain"
	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditSvc *service.CreditService
}

func NewCreditHandler(creditSvc *service.CreditService) *CreditHandler {
	return &CreditHandler{creditSvc: creditSvc}
}

// Check reports whether the caller can afford an action, with the exact
// shortfall when they cannot. Frontends gate their submit buttons on this.
func (h *CreditHandler) Check(c *gin.Context) {
	action := c.Query("action")
	aff, err := h.creditSvc.Check(middleware.GetUserID(c), action)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "credit check failed"})
		return
	}
	c.JSON(http.StatusOK, aff)
}

// Costs lists the QP price of every gated action.
func (h *CreditHandler) Costs(c *gin.Context) {
	actions := []string{domain.ActionInnovation, domain.ActionJob, domain.ActionEvent, domain.ActionCompany}
	costs := make(map[string]int64, len(actions))
	for _, a := range actions {
		paise, _ := domain.CostPaise(a)
		costs[a] = paise / domain.PaisePerQP
	}
	c.JSON(http.StatusOK, gin.H{"costs_qp": costs})
}
