package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/repos/testutil"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store/gormstore"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/ctxutil"
)

func seededStore(t *testing.T) (*gormstore.Store, *types.Chapter) {
	t.Helper()
	st := gormstore.New(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	if err := st.UpsertBook(ctx, &types.Book{ID: "kaplan_biology", Title: "Biology"}); err != nil {
		t.Fatalf("UpsertBook: %v", err)
	}
	ch, err := st.UpsertChapter(ctx, &types.Chapter{BookID: "kaplan_biology", ChapterNumber: 1, Title: "The Cell", Content: "cells"})
	if err != nil {
		t.Fatalf("UpsertChapter: %v", err)
	}
	if err := st.UpsertQuestions(ctx, []*types.Question{testutil.NewQuestion(ch.ID, "bio-1-1", 0)}); err != nil {
		t.Fatalf("UpsertQuestions: %v", err)
	}
	return st, ch
}

func TestQuestionService_RegenerateIsEphemeral(t *testing.T) {
	st, ch := seededStore(t)
	svc := NewQuestionService(st, generation.NewMockGenerator(), testutil.Logger(t))
	ctx := context.Background()

	a, err := svc.Regenerate(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	b, err := svc.Regenerate(ctx, ch.ID)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if !strings.HasPrefix(a.ID, "regen-") || a.ID == b.ID {
		t.Fatalf("expected distinct regen ids, got %q and %q", a.ID, b.ID)
	}
	if a.ChapterID != ch.ID {
		t.Fatalf("expected chapter id %d, got %d", ch.ID, a.ChapterID)
	}

	listed, err := NewCatalogService(st, testutil.Logger(t)).ListQuestions(ctx, ch.ID)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	for _, q := range listed {
		if types.IsEphemeralID(q.ID) {
			t.Fatalf("regenerated question was persisted: %s", q.ID)
		}
	}

	if _, err := svc.Regenerate(ctx, 404); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_EmptyListsAreNotNil(t *testing.T) {
	st := gormstore.New(testutil.DB(t), testutil.Logger(t))
	books, err := NewCatalogService(st, testutil.Logger(t)).ListBooks(context.Background())
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", books)
	}
}

func TestProgressService(t *testing.T) {
	st, _ := seededStore(t)
	svc := NewProgressService(st, testutil.Logger(t))

	if _, err := svc.Stats(context.Background()); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without user, got %v", err)
	}

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: "user-a"})
	row, err := svc.RecordAnswer(ctx, "bio-1-1", true)
	if err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if row.UserID != "user-a" || !row.Correct || row.AnsweredAt.IsZero() {
		t.Fatalf("unexpected row: %+v", row)
	}
	if _, err := svc.RecordAnswer(ctx, "missing", true); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.RecordAnswer(ctx, "regen-123", true); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil || stats.Total != 1 || stats.Accuracy != 100 {
		t.Fatalf("Stats: err=%v stats=%+v", err, stats)
	}
	mastery, err := svc.Mastery(ctx)
	if err != nil || len(mastery) != 1 || mastery[0].Concept != "cellular-respiration" {
		t.Fatalf("Mastery: err=%v rows=%+v", err, mastery)
	}
}
