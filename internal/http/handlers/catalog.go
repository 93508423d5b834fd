package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/http/response"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/services"
)

var errInvalidChapterID = errors.New("chapter_id must be an integer")

type CatalogHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:     log.With("handler", "CatalogHandler"),
		catalog: catalog,
	}
}

// GET /books
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	books, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, books)
}

// GET /books/:book_id/chapters
func (h *CatalogHandler) ListChapters(c *gin.Context) {
	chapters, err := h.catalog.ListChapters(c.Request.Context(), c.Param("book_id"))
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, chapters)
}

// GET /chapters/:chapter_id/questions
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	chapterID, ok := parseChapterID(c.Param("chapter_id"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errInvalidChapterID)
		return
	}
	questions, err := h.catalog.ListQuestions(c.Request.Context(), chapterID)
	if err != nil {
		response.RespondFromError(c, h.log, err)
		return
	}
	response.RespondOK(c, questions)
}

func parseChapterID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
