package services

import (
	"context"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

// CatalogService serves the read side of books, chapters and questions.
type CatalogService interface {
	ListBooks(ctx context.Context) ([]*types.Book, error)
	ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error)
	ListQuestions(ctx context.Context, chapterID int64) ([]*types.Question, error)
}

type catalogService struct {
	store store.Store
	log   *logger.Logger
}

func NewCatalogService(st store.Store, baseLog *logger.Logger) CatalogService {
	return &catalogService{store: st, log: baseLog.With("service", "CatalogService")}
}

func (s *catalogService) ListBooks(ctx context.Context) ([]*types.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*types.Book{}
	}
	return books, nil
}

func (s *catalogService) ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error) {
	chapters, err := s.store.ListChapters(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []*types.Chapter{}
	}
	return chapters, nil
}

// ListQuestions returns every stored question of the chapter in display order.
func (s *catalogService) ListQuestions(ctx context.Context, chapterID int64) ([]*types.Question, error) {
	questions, err := s.store.ListQuestions(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []*types.Question{}
	}
	return questions, nil
}
