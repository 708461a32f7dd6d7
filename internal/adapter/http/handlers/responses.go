package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/mapper"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

type TaskResponseHandler struct {
	responseService ports.TaskResponseService
}

func NewTaskResponseHandler(responseService ports.TaskResponseService) *TaskResponseHandler {
	return &TaskResponseHandler{responseService: responseService}
}

func (h *TaskResponseHandler) Respond(c *gin.Context) {
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	response, err := h.responseService.Respond(c.Request.Context(), middleware.GetActor(c), taskID)
	if err != nil {
		respondError(c, err, "failed to respond to task", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskResponseItem(response))
}

func (h *TaskResponseHandler) CancelResponse(c *gin.Context) {
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	if err := h.responseService.CancelResponse(c.Request.Context(), middleware.GetActor(c), taskID); err != nil {
		respondError(c, err, "failed to cancel response", zap.String("task_id", taskID))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskResponseHandler) ListByTask(c *gin.Context) {
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	responses, err := h.responseService.ListByTask(c.Request.Context(), middleware.GetActor(c), taskID)
	if err != nil {
		respondError(c, err, "failed to list task responses", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskResponseItems(responses))
}

func (h *TaskResponseHandler) ListByVolunteer(c *gin.Context) {
	volunteerID, ok := pathID(c, "volunteerId")
	if !ok {
		return
	}

	responses, err := h.responseService.ListByVolunteer(c.Request.Context(), middleware.GetActor(c), volunteerID)
	if err != nil {
		respondError(c, err, "failed to list volunteer responses", zap.String("volunteer_id", volunteerID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskResponseItems(responses))
}

func (h *TaskResponseHandler) ApproveVolunteer(c *gin.Context) {
	taskID, volunteerID, ok := decisionParams(c)
	if !ok {
		return
	}

	response, task, err := h.responseService.ApproveVolunteer(c.Request.Context(), middleware.GetActor(c), taskID, volunteerID)
	if err != nil {
		respondError(c, err, "failed to approve volunteer",
			zap.String("task_id", taskID), zap.String("volunteer_id", volunteerID))
		return
	}

	c.JSON(http.StatusOK, dto.ApproveVolunteerResponse{
		Response: mapper.ToTaskResponseItem(response),
		Task:     mapper.ToTaskItem(task),
	})
}

func (h *TaskResponseHandler) RejectVolunteer(c *gin.Context) {
	taskID, volunteerID, ok := decisionParams(c)
	if !ok {
		return
	}

	if err := h.responseService.RejectVolunteer(c.Request.Context(), middleware.GetActor(c), taskID, volunteerID); err != nil {
		respondError(c, err, "failed to reject volunteer",
			zap.String("task_id", taskID), zap.String("volunteer_id", volunteerID))
		return
	}

	c.Status(http.StatusNoContent)
}

func decisionParams(c *gin.Context) (string, string, bool) {
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return "", "", false
	}

	var req dto.VolunteerDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VolunteerID) == "" {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return "", "", false
	}
	return taskID, strings.TrimSpace(req.VolunteerID), true
}
