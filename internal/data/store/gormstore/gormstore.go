// Package gormstore implements store.Store on a relational database through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/repos"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

type Store struct {
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{
		db:    db,
		log:   baseLog.With("store", "gorm"),
		repos: repos.NewSet(db, baseLog),
	}
}

func (s *Store) dbc(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx}
}

func (s *Store) UpsertBook(ctx context.Context, book *types.Book) error {
	if book == nil || book.ID == "" {
		return fmt.Errorf("upsert book: missing id: %w", apperr.ErrInvalidArgument)
	}
	if err := s.repos.Book.Upsert(s.dbc(ctx), []*types.Book{book}); err != nil {
		return classify("upsert book", err)
	}
	return nil
}

func (s *Store) UpsertChapter(ctx context.Context, chapter *types.Chapter) (*types.Chapter, error) {
	if chapter == nil || chapter.BookID == "" {
		return nil, fmt.Errorf("upsert chapter: missing book id: %w", apperr.ErrInvalidArgument)
	}
	var out *types.Chapter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		books, err := s.repos.Book.GetByIDs(dbc, []string{chapter.BookID})
		if err != nil {
			return classify("upsert chapter", err)
		}
		if len(books) == 0 {
			return fmt.Errorf("upsert chapter: book %q: %w", chapter.BookID, apperr.ErrNotFound)
		}
		row, err := s.repos.Chapter.Upsert(dbc, chapter)
		if err != nil {
			return classify("upsert chapter", err)
		}
		if row == nil {
			return fmt.Errorf("upsert chapter: no row returned: %w", apperr.ErrServiceUnavailable)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpsertQuestions(ctx context.Context, questions []*types.Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := s.repos.Question.Upsert(s.dbc(ctx), questions); err != nil {
		return classify("upsert questions", err)
	}
	return nil
}

func (s *Store) ListBooks(ctx context.Context) ([]*types.Book, error) {
	rows, err := s.repos.Book.List(s.dbc(ctx))
	if err != nil {
		return nil, classify("list books", err)
	}
	return rows, nil
}

func (s *Store) GetBook(ctx context.Context, id string) (*types.Book, error) {
	rows, err := s.repos.Book.GetByIDs(s.dbc(ctx), []string{id})
	if err != nil {
		return nil, classify("get book", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("book %q: %w", id, apperr.ErrNotFound)
	}
	return rows[0], nil
}

func (s *Store) ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Chapter.GetByBookID(s.dbc(ctx), bookID)
	if err != nil {
		return nil, classify("list chapters", err)
	}
	return rows, nil
}

func (s *Store) GetChapter(ctx context.Context, id int64) (*types.Chapter, error) {
	rows, err := s.repos.Chapter.GetByIDs(s.dbc(ctx), []int64{id})
	if err != nil {
		return nil, classify("get chapter", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("chapter %d: %w", id, apperr.ErrNotFound)
	}
	return rows[0], nil
}

func (s *Store) ListQuestions(ctx context.Context, chapterID int64) ([]*types.Question, error) {
	if _, err := s.GetChapter(ctx, chapterID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Question.GetByChapterID(s.dbc(ctx), chapterID)
	if err != nil {
		return nil, classify("list questions", err)
	}
	return rows, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (*types.Question, error) {
	rows, err := s.repos.Question.GetByIDs(s.dbc(ctx), []string{id})
	if err != nil {
		return nil, classify("get question", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("question %q: %w", id, apperr.ErrNotFound)
	}
	return rows[0], nil
}

// RecordAnswer stores the attempt and folds it into the mastery row of every concept, atomically.
func (s *Store) RecordAnswer(ctx context.Context, answer *types.UserProgress, concepts []string) error {
	if answer == nil || answer.UserID == "" || answer.QuestionID == "" {
		return fmt.Errorf("record answer: missing user or question: %w", apperr.ErrInvalidArgument)
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.repos.UserProgress.Create(dbc, answer); err != nil {
			return classify("record answer", err)
		}
		for _, concept := range store.Concepts(concepts) {
			row, err := s.repos.ConceptMastery.GetByUserAndConcept(dbc, answer.UserID, concept)
			if err != nil {
				return classify("record answer", err)
			}
			if row == nil {
				row = &types.ConceptMastery{UserID: answer.UserID, Concept: concept}
			}
			row.Apply(answer.Correct, answer.AnsweredAt)
			if err := s.repos.ConceptMastery.Save(dbc, row); err != nil {
				return classify("record answer", err)
			}
		}
		return nil
	})
}

func (s *Store) ListConceptMastery(ctx context.Context, userID string) ([]*types.ConceptMastery, error) {
	rows, err := s.repos.ConceptMastery.ListByUser(s.dbc(ctx), userID)
	if err != nil {
		return nil, classify("list concept mastery", err)
	}
	return rows, nil
}

func (s *Store) ProgressStats(ctx context.Context, userID string) (*types.ProgressStats, error) {
	total, correct, err := s.repos.UserProgress.CountByUser(s.dbc(ctx), userID)
	if err != nil {
		return nil, classify("progress stats", err)
	}
	return types.NewProgressStats(total, correct), nil
}

func (s *Store) Stats(ctx context.Context) (*store.Stats, error) {
	var out store.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repos.Book.Count(s.dbc(gctx))
		out.Books = n
		return err
	})
	g.Go(func() error {
		n, err := s.repos.Chapter.Count(s.dbc(gctx))
		out.Chapters = n
		return err
	})
	g.Go(func() error {
		n, err := s.repos.Question.Count(s.dbc(gctx))
		out.Questions = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, classify("stats", err)
	}
	return &out, nil
}

// ClearAll deletes every table in one transaction. Progress tables that were
// never migrated are skipped.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		steps := []struct {
			table    string
			optional bool
			model    interface{}
			del      func(dbctx.Context) error
		}{
			{"concept_mastery", true, &types.ConceptMastery{}, s.repos.ConceptMastery.DeleteAll},
			{"user_progress", true, &types.UserProgress{}, s.repos.UserProgress.DeleteAll},
			{"questions", false, &types.Question{}, s.repos.Question.DeleteAll},
			{"chapters", false, &types.Chapter{}, s.repos.Chapter.DeleteAll},
			{"books", false, &types.Book{}, s.repos.Book.DeleteAll},
		}
		for _, step := range steps {
			if step.optional && !tx.Migrator().HasTable(step.model) {
				s.log.Debug("Skipping missing table", "table", step.table)
				continue
			}
			var err error
			if step.optional {
				err = deleteOptional(dbc, "clear_"+step.table, step.del)
			} else {
				err = step.del(dbc)
			}
			if err != nil {
				return fmt.Errorf("clear %s: %w", step.table, err)
			}
		}
		return nil
	})
	if err != nil {
		return classify("clear all", err)
	}
	s.log.Info("Cleared all tables")
	return nil
}

// deleteOptional runs del inside a savepoint. An undefined-table failure is
// rolled back to the savepoint and ignored; the transaction stays usable.
func deleteOptional(dbc dbctx.Context, savepoint string, del func(dbctx.Context) error) error {
	if err := dbc.Tx.SavePoint(savepoint).Error; err != nil {
		return err
	}
	err := del(dbc)
	if err == nil {
		return nil
	}
	if !isUndefinedTable(err) {
		return err
	}
	if rbErr := dbc.Tx.RollbackTo(savepoint).Error; rbErr != nil {
		return rbErr
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// classify wraps backend failures with ErrServiceUnavailable unless they already carry a sentinel.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.Kind(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if isConnectionFailure(err) {
		return fmt.Errorf("%s: database unreachable: %v: %w", op, err, apperr.ErrServiceUnavailable)
	}
	return fmt.Errorf("%s: %v: %w", op, err, apperr.ErrServiceUnavailable)
}
