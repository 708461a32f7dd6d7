package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/pkg/apierrors"
)

type errorMapping struct {
	err    error
	status int
	msgKey string
}

// Specific errors come first so they win over their kind.
var errorMappings = []errorMapping{
	{domain.ErrTaskNotFound, http.StatusNotFound, apierrors.MsgTaskNotFound},
	{domain.ErrResponseNotFound, http.StatusNotFound, apierrors.MsgResponseNotFound},
	{domain.ErrVolunteerNotFound, http.StatusNotFound, apierrors.MsgVolunteerNotFound},
	{domain.ErrVolunteerNotInProgram, http.StatusForbidden, apierrors.MsgNotInProgram},
	{domain.ErrTaskNotActive, http.StatusConflict, apierrors.MsgTaskNotActive},
	{domain.ErrTaskAlreadyCompleted, http.StatusConflict, apierrors.MsgTaskAlreadyCompleted},
	{domain.ErrAlreadyResponded, http.StatusConflict, apierrors.MsgAlreadyResponded},
	{domain.ErrTaskAlreadyAssigned, http.StatusConflict, apierrors.MsgTaskAlreadyAssigned},
	{domain.ErrTaskAssignedToOther, http.StatusConflict, apierrors.MsgTaskAlreadyAssigned},
	{domain.ErrDuplicateApproval, http.StatusConflict, apierrors.MsgTaskAlreadyAssigned},
	{domain.ErrAlreadyRated, http.StatusConflict, apierrors.MsgAlreadyRated},
	{domain.ErrNotFound, http.StatusNotFound, apierrors.MsgNotFound},
	{domain.ErrForbidden, http.StatusForbidden, apierrors.MsgForbidden},
	{domain.ErrInvalidState, http.StatusConflict, apierrors.MsgInvalidState},
	{domain.ErrConflict, http.StatusConflict, apierrors.MsgConflict},
	{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity, apierrors.MsgInsufficientBalance},
	{domain.ErrInvalidArgument, http.StatusBadRequest, apierrors.MsgInvalidArgument},
}

// respondError writes the translated error for err. Unclassified errors are
// logged with logMsg and answered with 500.
func respondError(c *gin.Context, err error, logMsg string, fields ...zap.Field) {
	lang := middleware.GetLang(c)
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierrors.CreateError(m.status, m.msgKey, lang))
			return
		}
	}

	zap.L().Error(logMsg, append(fields, zap.Error(err))...)
	c.JSON(
		http.StatusInternalServerError,
		apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgInternal, lang),
	)
}

func respondBadRequest(c *gin.Context, msgKey string) {
	c.JSON(
		http.StatusBadRequest,
		apierrors.CreateError(http.StatusBadRequest, msgKey, middleware.GetLang(c)),
	)
}

// bindJSON decodes the body into req and also returns the raw fields so
// callers can tell an explicit null from an absent field.
func bindJSON(c *gin.Context, req interface{}) (map[string]json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return nil, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return nil, false
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		respondBadRequest(c, apierrors.MsgInvalidPayload)
		return nil, false
	}
	return raw, true
}
