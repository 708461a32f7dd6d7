package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/mapper"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/validation"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	raw, ok := bindJSON(c, &req)
	if !ok {
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		respondError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	raw, ok := bindJSON(c, &req)
	if !ok {
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.GetActor(c), taskID, input)
	if err != nil {
		respondError(c, err, "failed to update task", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "failed to get task", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) GetTaskForVolunteer(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskForVolunteer(c.Request.Context(), middleware.GetActor(c), taskID)
	if err != nil {
		respondError(c, err, "failed to get task for volunteer", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToVolunteerTaskItem(task))
}

// ListTasks filters by the optional program_id, status, category_id and
// needy_id query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var filter domain.TaskFilter
	filter.ProgramID = queryString(c, "program_id")
	filter.CategoryID = queryString(c, "category_id")
	filter.NeedyID = queryString(c, "needy_id")

	status, ok := queryStatus(c)
	if !ok {
		return
	}
	filter.Status = status

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	tasks, err := h.taskService.ListMyTasks(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err, "failed to list own tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) ListAssignedTasks(c *gin.Context) {
	tasks, err := h.taskService.ListAssignedTasks(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err, "failed to list assigned tasks")
		return
	}

	c.JSON(http.StatusOK, mapper.ToAssignedTaskItems(tasks))
}

func (h *TaskHandler) ListCandidateTasks(c *gin.Context) {
	status, ok := queryStatus(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListCandidateTasks(c.Request.Context(), middleware.GetActor(c), status)
	if err != nil {
		respondError(c, err, "failed to list tasks for volunteer")
		return
	}

	c.JSON(http.StatusOK, mapper.ToVolunteerTaskItems(tasks))
}

func (h *TaskHandler) RemoveTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.RemoveTask(c.Request.Context(), middleware.GetActor(c), taskID); err != nil {
		respondError(c, err, "failed to remove task", zap.String("task_id", taskID))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) AssignVolunteer(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.VolunteerID) == "" {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	task, err := h.taskService.AssignVolunteer(c.Request.Context(), middleware.GetActor(c), taskID, strings.TrimSpace(req.VolunteerID))
	if err != nil {
		respondError(c, err, "failed to assign volunteer", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CancelAssignment(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.CancelAssignment(c.Request.Context(), middleware.GetActor(c), taskID)
	if err != nil {
		respondError(c, err, "failed to cancel assignment", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ApproveCompletion(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ApproveCompletionRequest
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

	actor := middleware.GetActor(c)
	role, _ := domain.ApproveRoleFor(actor)
	if req.Role != nil {
		parsed, err := domain.ParseApproveRole(*req.Role)
		if err != nil {
			respondError(c, err, "invalid approve role")
			return
		}
		role = parsed
	}

	task, err := h.taskService.ApproveCompletion(c.Request.Context(), actor, taskID, role)
	if err != nil {
		respondError(c, err, "failed to approve task completion", zap.String("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func pathID(c *gin.Context, name string) (string, bool) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" || len(id) > 36 {
		respondBadRequest(c, apierrors.MsgInvalidID)
		return "", false
	}
	return id, true
}

func queryString(c *gin.Context, name string) *string {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	return &value
}

func queryStatus(c *gin.Context) (*domain.TaskStatus, bool) {
	value := queryString(c, "status")
	if value == nil {
		return nil, true
	}
	status := domain.TaskStatus(*value)
	if !status.Valid() {
		respondBadRequest(c, apierrors.MsgInvalidArgument)
		return nil, false
	}
	return &status, true
}
