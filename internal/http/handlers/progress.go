package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/dsaquest-backend/internal/http/response"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/ctxutil"
	"github.com/yungbote/dsaquest-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

type completeStepRequest struct {
	Answer string `json:"answer"`
}

// POST /api/lessons/:externalId/complete
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	res, err := h.progress.CompleteLesson(c.Request.Context(), userID, strings.TrimSpace(c.Param("externalId")))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/lessons/:externalId/steps/:index/complete
func (h *ProgressHandler) CompleteStep(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondErr(c, fmt.Errorf("step index must be an integer: %w", apierr.ErrInvalidArgument))
		return
	}
	var req completeStepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondErr(c, fmt.Errorf("invalid request body: %w", apierr.ErrInvalidArgument))
		return
	}
	res, err := h.progress.CompleteStep(c.Request.Context(), userID, strings.TrimSpace(c.Param("externalId")), index, req.Answer)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/me/progress
func (h *ProgressHandler) GetMyProgress(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	summary, err := h.progress.Summary(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, summary)
}

// callerID writes a 401 and returns false when the request carries no user.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondErr(c, apierr.ErrUnauthorized)
		return uuid.Nil, false
	}
	return rd.UserID, true
}
