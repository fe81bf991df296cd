package handler

import (
	"errors"
	"net/http"

	"qipad/internal/domain"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

// respondInsufficientCredits turns a deduction failure into the structured
// affordability payload so clients can show the exact shortfall. Returns
// false when err was something else.
func respondInsufficientCredits(c *gin.Context, err error, credits *service.CreditService, userID uint, action string) bool {
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		return false
	}
	aff, cerr := credits.Check(userID, action)
	if cerr != nil {
		cost, _ := domain.CostPaise(action)
		aff = domain.Affordability{Cost: cost, Shortfall: cost}
	}
	c.JSON(http.StatusPaymentRequired, gin.H{
		"error":                 "insufficient credits",
		"has_enough_credits":    false,
		"current_balance_paise": aff.CurrentBalance,
		"cost_paise":            aff.Cost,
		"shortfall_paise":       aff.Shortfall,
	})
	return true
}
