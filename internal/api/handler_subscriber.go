package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pressroom/internal/service"
)

type SubscriberHandler struct {
	subscribers *service.SubscriberService
}

func NewSubscriberHandler(subscribers *service.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{
		subscribers: subscribers,
	}
}

type subscriberRequest struct {
	Email  string `json:"email" binding:"required,email"`
	SiteID int    `json:"siteId" binding:"required"`
}

// Subscribe handles POST /subscribe
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req subscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.subscribers.Subscribe(c.Request.Context(), req.SiteID, req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// Unsubscribe handles POST /unsubscribe
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	var req subscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.subscribers.Unsubscribe(c.Request.Context(), req.SiteID, req.Email)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscriber not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unsubscribed"})
}

// Resubscribe handles POST /resubscribe
func (h *SubscriberHandler) Resubscribe(c *gin.Context) {
	var req subscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.subscribers.Resubscribe(c.Request.Context(), req.SiteID, req.Email)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscriber not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "active"})
}
