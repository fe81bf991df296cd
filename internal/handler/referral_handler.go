package handler

import (
	"net/http"
	"strconv"

	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc *service.ReferralService
}

func NewReferralHandler(referralSvc *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// MyCode returns the caller's invite code, minting one on first call.
func (h *ReferralHandler) MyCode(c *gin.Context) {
	rc, err := h.referralSvc.GetOrCreateCode(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral code error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": rc.Code})
}

// MyReferrals lists the caller's referrals with their reward status.
func (h *ReferralHandler) MyReferrals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.referralSvc.ListMine(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral list failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for i := range list {
		ref := &list[i]
		out = append(out, gin.H{
			"referral":        ref,
			"ready_to_credit": ref.ReadyToCredit(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"referrals": out})
}
