package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/http/response"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/services"
)

type QuestionHandler struct {
	log       *logger.Logger
	questions services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:       log.With("handler", "QuestionHandler"),
		questions: questions,
	}
}

// POST /questions/regenerate?chapter_id=N
//
// The generated question is returned once and never stored.
func (h *QuestionHandler) Regenerate(c *gin.Context) {
	chapterID, ok := parseChapterID(c.Query("chapter_id"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errInvalidChapterID)
		return
	}
	q, err := h.questions.Regenerate(c.Request.Context(), chapterID)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, q)
}
