package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

type NotificationHandler struct {
	subscriptions ports.SubscriptionService
}

func NewNotificationHandler(subscriptions ports.SubscriptionService) *NotificationHandler {
	return &NotificationHandler{subscriptions: subscriptions}
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	sub, err := h.subscriptions.Subscribe(c.Request.Context(), middleware.GetActor(c), req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		respondError(c, err, "failed to save push subscription")
		return
	}

	c.JSON(http.StatusCreated, dto.SubscriptionItem{ID: sub.ID, Endpoint: sub.Endpoint})
}

// Unsubscribe removes one endpoint, or every subscription of the caller when
// the body is empty.
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := binding.JSON.BindBody(body, &req); err != nil {
			respondBadRequest(c, apierrors.MsgInvalidPayload)
			return
		}
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), middleware.GetActor(c), req.Endpoint); err != nil {
		respondError(c, err, "failed to remove push subscription")
		return
	}

	c.Status(http.StatusNoContent)
}
