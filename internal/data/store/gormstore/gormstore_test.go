package gormstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/db"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/repos/testutil"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testutil.DB(t), testutil.Logger(t))
}

func seedCatalog(t *testing.T, s *Store) *types.Chapter {
	t.Helper()
	ctx := context.Background()
	if err := s.UpsertBook(ctx, &types.Book{ID: "kaplan_biology", Title: "Biology"}); err != nil {
		t.Fatalf("UpsertBook: %v", err)
	}
	ch, err := s.UpsertChapter(ctx, &types.Chapter{BookID: "kaplan_biology", ChapterNumber: 1, Title: "The Cell", Content: "cells"})
	if err != nil {
		t.Fatalf("UpsertChapter: %v", err)
	}
	qs := []*types.Question{
		testutil.NewQuestion(ch.ID, "bio-1-1", 0),
		testutil.NewQuestion(ch.ID, "bio-1-2", 1),
	}
	if err := s.UpsertQuestions(ctx, qs); err != nil {
		t.Fatalf("UpsertQuestions: %v", err)
	}
	return ch
}

func TestStore_SeedAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ch := seedCatalog(t, s)

	books, err := s.ListBooks(ctx)
	if err != nil || len(books) != 1 || books[0].Title != "Biology" {
		t.Fatalf("ListBooks: err=%v books=%v", err, books)
	}
	chapters, err := s.ListChapters(ctx, "kaplan_biology")
	if err != nil || len(chapters) != 1 || chapters[0].ID != ch.ID {
		t.Fatalf("ListChapters: err=%v chapters=%v", err, chapters)
	}
	questions, err := s.ListQuestions(ctx, ch.ID)
	if err != nil || len(questions) != 2 {
		t.Fatalf("ListQuestions: err=%v len=%d", err, len(questions))
	}
	if questions[0].ID != "bio-1-1" {
		t.Fatalf("expected position order, got %s first", questions[0].ID)
	}
	if q, err := s.GetQuestion(ctx, "bio-1-2"); err != nil || q.ChapterID != ch.ID {
		t.Fatalf("GetQuestion: err=%v q=%+v", err, q)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Books != 1 || stats.Chapters != 1 || stats.Questions != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := seedCatalog(t, s)
	second := seedCatalog(t, s)
	if first.ID != second.ID {
		t.Fatalf("chapter id changed across upserts: %d vs %d", first.ID, second.ID)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Books != 1 || stats.Chapters != 1 || stats.Questions != 2 {
		t.Fatalf("counts changed after second upsert: %+v", stats)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"GetBook", func() error { _, err := s.GetBook(ctx, "nope"); return err }},
		{"ListChapters", func() error { _, err := s.ListChapters(ctx, "nope"); return err }},
		{"GetChapter", func() error { _, err := s.GetChapter(ctx, 999); return err }},
		{"ListQuestions", func() error { _, err := s.ListQuestions(ctx, 999); return err }},
		{"GetQuestion", func() error { _, err := s.GetQuestion(ctx, "nope"); return err }},
		{"UpsertChapter", func() error {
			_, err := s.UpsertChapter(ctx, &types.Chapter{BookID: "nope", ChapterNumber: 1})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, apperr.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ListChaptersEmptyBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.UpsertBook(ctx, &types.Book{ID: "empty", Title: "Empty"}); err != nil {
		t.Fatalf("UpsertBook: %v", err)
	}
	chapters, err := s.ListChapters(ctx, "empty")
	if err != nil || len(chapters) != 0 {
		t.Fatalf("expected empty list, err=%v len=%d", err, len(chapters))
	}
}

func TestStore_RecordAnswer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)

	answers := []bool{true, true, false}
	for _, correct := range answers {
		err := s.RecordAnswer(ctx, &types.UserProgress{UserID: "user-a", QuestionID: "bio-1-1", Correct: correct},
			[]string{"enzymes", "enzymes", "kinetics"})
		if err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}

	stats, err := s.ProgressStats(ctx, "user-a")
	if err != nil {
		t.Fatalf("ProgressStats: %v", err)
	}
	if stats.Total != 3 || stats.Correct != 2 || stats.Accuracy != 67 {
		t.Fatalf("unexpected progress stats: %+v", stats)
	}

	mastery, err := s.ListConceptMastery(ctx, "user-a")
	if err != nil || len(mastery) != 2 {
		t.Fatalf("ListConceptMastery: err=%v len=%d", err, len(mastery))
	}
	for _, m := range mastery {
		if m.TotalAttempts != 3 || m.CorrectAttempts != 2 {
			t.Fatalf("duplicate tags should count once per answer: %+v", m)
		}
	}

	if err := s.RecordAnswer(ctx, &types.UserProgress{QuestionID: "bio-1-1"}, nil); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestStore_ClearAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedCatalog(t, s)
	if err := s.RecordAnswer(ctx, &types.UserProgress{UserID: "u", QuestionID: "bio-1-1", Correct: true}, []string{"enzymes"}); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Books != 0 || stats.Chapters != 0 || stats.Questions != 0 {
		t.Fatalf("expected empty store, got %+v", stats)
	}
	if ps, _ := s.ProgressStats(ctx, "u"); ps.Total != 0 {
		t.Fatalf("expected progress cleared, got %+v", ps)
	}
}

func TestStore_ClearAllWithoutProgressTables(t *testing.T) {
	logg := testutil.Logger(t)
	svc, err := db.NewSQLiteMemory(logg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := svc.DB().AutoMigrate(db.ContentModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := New(svc.DB(), logg)
	t.Cleanup(func() { _ = s.Close() })

	seedCatalog(t, s)
	if err := s.ClearAll(context.Background()); err != nil {
		t.Fatalf("ClearAll without progress tables: %v", err)
	}
	stats, err := s.Stats(context.Background())
	if err != nil || stats.Books != 0 {
		t.Fatalf("expected empty store: err=%v stats=%+v", err, stats)
	}
}

func TestDeleteOptionalRollsBackToSavepoint(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := tx.Create(&types.Book{ID: "kept", Title: "Kept"}).Error; err != nil {
			return err
		}
		err := deleteOptional(dbc, "clear_archive", func(dbc dbctx.Context) error {
			if err := dbc.DB(nil).Create(&types.Book{ID: "discarded", Title: "Discarded"}).Error; err != nil {
				return err
			}
			return dbc.DB(nil).Exec("DELETE FROM concept_mastery_archive").Error
		})
		if err != nil {
			return fmt.Errorf("missing table should be ignored: %w", err)
		}
		if err := deleteOptional(dbc, "clear_other", func(dbctx.Context) error { return boom }); !errors.Is(err, boom) {
			return fmt.Errorf("expected other failures to surface, got %v", err)
		}
		return tx.Create(&types.Book{ID: "after", Title: "After"}).Error
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	var ids []string
	if err := gdb.Model(&types.Book{}).Order("id").Pluck("id", &ids).Error; err != nil {
		t.Fatalf("pluck: %v", err)
	}
	if fmt.Sprint(ids) != "[after kept]" {
		t.Fatalf("unexpected books after savepoint rollback: %v", ids)
	}
}

func TestClassify(t *testing.T) {
	if err := classify("op", nil); err != nil {
		t.Fatalf("nil should stay nil, got %v", err)
	}
	wrapped := fmt.Errorf("x: %w", apperr.ErrNotFound)
	if got := classify("op", wrapped); got != wrapped {
		t.Fatalf("sentinel errors should pass through, got %v", got)
	}
	conn := &pgconn.PgError{Code: "08006", Message: "connection failure"}
	if got := classify("op", conn); !errors.Is(got, apperr.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", got)
	}
	if !isUndefinedTable(&pgconn.PgError{Code: pgUndefinedTable}) {
		t.Fatalf("expected 42P01 to be undefined table")
	}
	if isUndefinedTable(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("unique violation is not undefined table")
	}
}
