package testutil

import (
	"context"
	"fmt"
	"testing"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedBook(tb testing.TB, ctx context.Context, tx *gorm.DB, id, title string) *types.Book {
	tb.Helper()
	b := &types.Book{ID: id, Title: title}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	return b
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, bookID string, number int) *types.Chapter {
	tb.Helper()
	c := &types.Chapter{
		BookID:        bookID,
		ChapterNumber: number,
		Title:         fmt.Sprintf("Chapter %d", number),
		Content:       "The cell is the basic unit of life.",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return c
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID int64, id string, position int) *types.Question {
	tb.Helper()
	q := NewQuestion(chapterID, id, position)
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func NewQuestion(chapterID int64, id string, position int) *types.Question {
	return &types.Question{
		ID:            id,
		ChapterID:     chapterID,
		Position:      position,
		QuestionText:  "Which organelle produces ATP?",
		CorrectAnswer: "Mitochondrion",
		Options:       datatypes.JSONSlice[string]{"Mitochondrion", "Ribosome", "Golgi", "Lysosome"},
		Explanation:   "Oxidative phosphorylation happens in mitochondria.",
		Difficulty:    types.DefaultDifficulty,
		ConceptTags:   datatypes.JSONSlice[string]{"cellular-respiration"},
	}
}
