package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pressroom/internal/repository"
)

type SubscriberQueryHandler struct {
	subscriberRepo *repository.SubscriberRepository
}

func NewSubscriberQueryHandler(subscriberRepo *repository.SubscriberRepository) *SubscriberQueryHandler {
	return &SubscriberQueryHandler{
		subscriberRepo: subscriberRepo,
	}
}

// ListSubscribers handles GET /admin/sites/:site/subscribers
func (h *SubscriberQueryHandler) ListSubscribers(c *gin.Context) {
	siteID, ok := siteParam(c)
	if !ok {
		return
	}

	subscribers, err := h.subscriberRepo.ListBySite(c.Request.Context(), siteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscribers"})
		return
	}

	type entry struct {
		Email          string     `json:"email"`
		Status         string     `json:"status"`
		UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
		CreatedAt      time.Time  `json:"createdAt"`
	}

	entries := make([]entry, len(subscribers))
	for i, s := range subscribers {
		entries[i] = entry{
			Email:          s.Email,
			Status:         s.Status,
			UnsubscribedAt: s.UnsubscribedAt,
			CreatedAt:      s.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": entries})
}
