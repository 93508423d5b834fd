package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/http/response"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

type recordAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Correct    *bool  `json:"correct"`
}

// POST /progress
func (h *ProgressHandler) RecordAnswer(c *gin.Context) {
	var req recordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" || req.Correct == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("question_id and correct are required"))
		return
	}
	row, err := h.progress.RecordAnswer(c.Request.Context(), strings.TrimSpace(req.QuestionID), *req.Correct)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondCreated(c, row)
}

// GET /progress/stats
func (h *ProgressHandler) Stats(c *gin.Context) {
	stats, err := h.progress.Stats(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /progress/mastery
func (h *ProgressHandler) Mastery(c *gin.Context) {
	rows, err := h.progress.Mastery(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}
