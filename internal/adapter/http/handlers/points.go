package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/mapper"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type PointsHandler struct {
	pointsService ports.PointsService
}

func NewPointsHandler(pointsService ports.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

func (h *PointsHandler) GetBalance(c *gin.Context) {
	volunteerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	points, err := h.pointsService.Balance(c.Request.Context(), middleware.GetActor(c), volunteerID)
	if err != nil {
		respondError(c, err, "failed to read points balance", zap.String("volunteer_id", volunteerID))
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{VolunteerID: volunteerID, Points: points})
}

func (h *PointsHandler) ListTransactions(c *gin.Context) {
	volunteerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit, ok := queryInt(c, "limit", defaultHistoryLimit)
	if !ok {
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	txns, total, err := h.pointsService.History(c.Request.Context(), middleware.GetActor(c), volunteerID, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list points transactions", zap.String("volunteer_id", volunteerID))
		return
	}

	c.JSON(http.StatusOK, dto.PointsHistoryResponse{
		Items:  mapper.ToPointsTransactionItems(txns),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *PointsHandler) Adjust(c *gin.Context) {
	volunteerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	txn, err := h.pointsService.Adjust(c.Request.Context(), middleware.GetActor(c), domain.CreatePointsTransactionInput{
		VolunteerID: volunteerID,
		TaskID:      req.TaskID,
		Amount:      req.Amount,
		Type:        domain.PointsTransactionType(req.Type),
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "failed to adjust points", zap.String("volunteer_id", volunteerID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToPointsTransactionItem(txn))
}

func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondBadRequest(c, apierrors.MsgInvalidArgument)
		return 0, false
	}
	return value, true
}
