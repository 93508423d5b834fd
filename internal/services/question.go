package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

type QuestionService interface {
	// Regenerate produces one fresh question for the chapter. It is never persisted.
	Regenerate(ctx context.Context, chapterID int64) (*types.Question, error)
}

type questionService struct {
	store     store.Store
	generator generation.Generator
	log       *logger.Logger
}

func NewQuestionService(st store.Store, gen generation.Generator, baseLog *logger.Logger) QuestionService {
	return &questionService{store: st, generator: gen, log: baseLog.With("service", "QuestionService")}
}

func (s *questionService) Regenerate(ctx context.Context, chapterID int64) (*types.Question, error) {
	chapter, err := s.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	qs, err := s.generator.Generate(ctx, chapter.Content, 1)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("regenerate chapter %d: generator returned nothing: %w", chapterID, apperr.ErrServiceUnavailable)
	}
	q := qs[0]
	q.ID = types.EphemeralIDPrefix + uuid.New().String()
	q.ChapterID = chapter.ID
	q.Normalize()
	s.log.Debug("Regenerated question", "chapter_id", chapterID, "question_id", q.ID)
	return q, nil
}
