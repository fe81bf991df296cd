package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"qipad/internal/domain"
	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentSvc *service.PaymentService
}

func NewPaymentHandler(paymentSvc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type depositRequest struct {
	AmountPaise    int64  `json:"amount_paise" binding:"required,gt=0"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Deposit starts a wallet top-up through the hosted gateway. The response
// carries the form fields the frontend posts to the gateway.
func (h *PaymentHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pay, session, err := h.paymentSvc.Initiate(c.Request.Context(), service.InitiateParams{
		UserID:         middleware.GetUserID(c),
		Purpose:        domain.PaymentPurposeDeposit,
		AmountPaise:    req.AmountPaise,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment initiation failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": pay, "checkout": session})
}

func (h *PaymentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	payments, err := h.paymentSvc.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// Callback receives the gateway's server-to-server form POST. A tampered
// hash gets a 400 and no state change; a replayed success re-acks so the
// gateway stops retrying.
func (h *PaymentHandler) Callback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed callback"})
		return
	}
	pay, err := h.paymentSvc.HandleCallback(c.Request.Context(), c.Request.PostForm)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
			return
		}
		log.Printf("[payment] callback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"txn_id": pay.TxnID, "status": pay.Status})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}
	pay, err := h.paymentSvc.GetByID(uint(id))
	if err != nil || pay.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, pay)
}
