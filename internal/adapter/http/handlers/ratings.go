package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/mapper"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

type RatingHandler struct {
	ratingService ports.RatingService
}

func NewRatingHandler(ratingService ports.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func (h *RatingHandler) RateVolunteer(c *gin.Context) {
	volunteerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.RateVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	rating, summary, err := h.ratingService.RateVolunteer(c.Request.Context(), middleware.GetActor(c), domain.RateVolunteerInput{
		VolunteerID: volunteerID,
		TaskID:      req.TaskID,
		Score:       req.Score,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(c, err, "failed to rate volunteer",
			zap.String("volunteer_id", volunteerID), zap.String("task_id", req.TaskID))
		return
	}

	c.JSON(http.StatusCreated, dto.RateVolunteerResponse{
		Rating:      mapper.ToRatingItem(rating),
		Average:     summary.Rating,
		RatingCount: summary.RatingCount,
	})
}

func (h *RatingHandler) ListRatings(c *gin.Context) {
	volunteerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ratings, err := h.ratingService.ListRatings(c.Request.Context(), volunteerID)
	if err != nil {
		respondError(c, err, "failed to list ratings", zap.String("volunteer_id", volunteerID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToRatingItems(ratings))
}
