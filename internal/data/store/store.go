// Package store defines the persistence boundary shared by the seeder and the API.
// Two backends implement it: gormstore (SQLite or Postgres) and supabase (PostgREST).
package store

import (
	"context"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
)

type Store interface {
	UpsertBook(ctx context.Context, book *types.Book) error
	// UpsertChapter is keyed by (book id, chapter number) and returns the stored row with its id.
	UpsertChapter(ctx context.Context, chapter *types.Chapter) (*types.Chapter, error)
	// UpsertQuestions is keyed by question id.
	UpsertQuestions(ctx context.Context, questions []*types.Question) error

	ListBooks(ctx context.Context) ([]*types.Book, error)
	GetBook(ctx context.Context, id string) (*types.Book, error)
	ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error)
	GetChapter(ctx context.Context, id int64) (*types.Chapter, error)
	ListQuestions(ctx context.Context, chapterID int64) ([]*types.Question, error)
	GetQuestion(ctx context.Context, id string) (*types.Question, error)

	RecordAnswer(ctx context.Context, answer *types.UserProgress, concepts []string) error
	ListConceptMastery(ctx context.Context, userID string) ([]*types.ConceptMastery, error)
	ProgressStats(ctx context.Context, userID string) (*types.ProgressStats, error)

	Stats(ctx context.Context) (*Stats, error)
	// ClearAll removes every row, children first.
	ClearAll(ctx context.Context) error
	Close() error
}

type Stats struct {
	Books     int64 `json:"books"`
	Chapters  int64 `json:"chapters"`
	Questions int64 `json:"questions"`
}

// Concepts returns the distinct non-empty tags in first-seen order.
func Concepts(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
