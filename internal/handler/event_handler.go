package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"qipad/internal/domain"
	"qipad/internal/middleware"
	"qipad/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventSvc  *service.EventService
	creditSvc *service.CreditService
}

func NewEventHandler(eventSvc *service.EventService, creditSvc *service.CreditService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, creditSvc: creditSvc}
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at"`
	PricePaise  int64     `json:"price_paise" binding:"gte=0"`
	Capacity    int       `json:"capacity" binding:"gte=0"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	event, err := h.eventSvc.Create(c.Request.Context(), service.CreateEventParams{
		OrganizerID: userID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		PricePaise:  req.PricePaise,
		Capacity:    req.Capacity,
	})
	if err != nil {
		if respondInsufficientCredits(c, err, h.creditSvc, userID, domain.ActionEvent) {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	events, total, err := h.eventSvc.ListUpcoming(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": total})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	event, err := h.eventSvc.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// Register books a seat. Free events confirm immediately; paid events
// return a checkout session alongside the pending registration.
func (h *EventHandler) Register(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	reg, session, err := h.eventSvc.Register(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventFull):
			c.JSON(http.StatusConflict, gin.H{"error": "event is at capacity"})
		case errors.Is(err, service.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "already registered"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	resp := gin.H{"registration": reg}
	if session != nil {
		resp["checkout"] = session
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EventHandler) Registrations(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	regs, err := h.eventSvc.ListRegistrations(uint(id), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}
