package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

var taskUpdateFields = []string{
	"type", "title", "description", "details", "points", "category_id", "skill_ids", "first_response_mode",
}

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	for _, field := range []string{"points", "first_response_mode", "program_id", "needy_id"} {
		if hasJSONField(raw, field) && isJSONNull(raw[field]) {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
	}

	taskType := strings.TrimSpace(req.Type)
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if taskType == "" || title == "" || description == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	input := domain.CreateTaskInput{
		Type:        taskType,
		Title:       title,
		Description: description,
		Details:     req.Details,
		Points:      req.Points,
		CategoryID:  req.CategoryID,
		SkillIDs:    req.SkillIDs,
	}
	if req.ProgramID != nil {
		input.ProgramID = strings.TrimSpace(*req.ProgramID)
	}
	if req.NeedyID != nil {
		input.NeedyID = strings.TrimSpace(*req.NeedyID)
	}
	if req.FirstResponseMode != nil {
		input.FirstResponseMode = *req.FirstResponseMode
	}

	return input, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasAnyField(raw, taskUpdateFields) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	// Only details, category_id and skill_ids may be cleared with null.
	for _, field := range []string{"type", "title", "description", "points", "first_response_mode"} {
		if hasJSONField(raw, field) && isJSONNull(raw[field]) {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
	}

	input := domain.UpdateTaskInput{
		Points:            req.Points,
		FirstResponseMode: req.FirstResponseMode,
		Details:           req.Details,
		DetailsSet:        hasJSONField(raw, "details"),
		CategoryID:        req.CategoryID,
		CategoryIDSet:     hasJSONField(raw, "category_id"),
		SkillIDsSet:       hasJSONField(raw, "skill_ids"),
	}
	if input.SkillIDsSet {
		input.SkillIDs = append([]string{}, req.SkillIDs...)
	}

	var ok bool
	if input.Type, ok = trimmedNonEmpty(req.Type); !ok {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if input.Title, ok = trimmedNonEmpty(req.Title); !ok {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if input.Description, ok = trimmedNonEmpty(req.Description); !ok {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	return input, nil
}

// trimmedNonEmpty trims an optional string; a present but blank value is invalid.
func trimmedNonEmpty(value *string) (*string, bool) {
	if value == nil {
		return nil, true
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, false
	}
	return &trimmed, true
}

func hasAnyField(raw map[string]json.RawMessage, fields []string) bool {
	for _, field := range fields {
		if hasJSONField(raw, field) {
			return true
		}
	}
	return false
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
