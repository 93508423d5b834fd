// Package seeder loads books, chapters and questions into a store, either from
// pre-generated JSON fixtures or by deriving them from EPUB files.
package seeder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gorm.io/datatypes"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

type Options struct {
	BookID    string
	ClearOnly bool
	NoClear   bool
	StatsOnly bool

	Dir         string
	MappingPath string
	EPUBDir     string
	// PerChapter is the number of generated questions per EPUB chapter; 0 seeds chapters only.
	PerChapter  int
}

// MappingFile returns the explicit mapping path or <Dir>/book-mapping.json.
func (o Options) MappingFile() string {
	if o.MappingPath != "" {
		return o.MappingPath
	}
	return filepath.Join(o.Dir, "book-mapping.json")
}

type Totals struct {
	Chapters  int
	Questions int
}

type Seeder struct {
	store     store.Store
	generator generation.Generator
	log       *logger.Logger
	out       io.Writer
}

func New(st store.Store, gen generation.Generator, baseLog *logger.Logger, out io.Writer) *Seeder {
	if gen == nil {
		gen = generation.NewMockGenerator()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Seeder{store: st, generator: gen, log: baseLog.With("component", "Seeder"), out: out}
}

// Run executes Clear, Seed-Books, Seed-Chapters-And-Questions and Report-Stats as
// selected by opts. Per-book and per-file failures are logged and skipped; the
// returned error is reserved for failures that leave nothing sensible to do.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.StatsOnly {
		_, err := s.ReportStats(ctx)
		return err
	}
	if opts.ClearOnly {
		return s.Clear(ctx)
	}
	if opts.EPUBDir != "" && opts.PerChapter < 0 {
		return fmt.Errorf("per-chapter count %d: %w", opts.PerChapter, apperr.ErrInvalidArgument)
	}
	if !opts.NoClear {
		if err := s.Clear(ctx); err != nil {
			return s.failWithStats(ctx, err)
		}
	}

	if opts.EPUBDir != "" {
		s.reportTotals(s.SeedFromEPUBs(ctx, opts.EPUBDir, opts.BookID, opts.PerChapter))
	} else {
		mapping, err := LoadMapping(opts.MappingFile())
		if err != nil {
			s.log.Error("Failed to load book mapping", "path", opts.MappingFile(), "error", err)
			return s.failWithStats(ctx, err)
		}
		s.SeedBooks(ctx, mapping)
		s.reportTotals(s.SeedChaptersAndQuestions(ctx, mapping, opts.Dir, opts.BookID))
	}

	_, err := s.ReportStats(ctx)
	return err
}

// failWithStats still prints the current counts before returning cause.
func (s *Seeder) failWithStats(ctx context.Context, cause error) error {
	if _, err := s.ReportStats(ctx); err != nil {
		s.log.Warn("Stats unavailable after failure", "error", err)
	}
	return cause
}

func (s *Seeder) Clear(ctx context.Context) error {
	fmt.Fprintln(s.out, "Clearing existing data...")
	if err := s.store.ClearAll(ctx); err != nil {
		s.log.Error("Clear failed", "error", err)
		return err
	}
	fmt.Fprintln(s.out, "All data cleared.")
	return nil
}

// SeedBooks upserts one book per mapping entry and returns how many succeeded.
func (s *Seeder) SeedBooks(ctx context.Context, mapping []BookEntry) int {
	fmt.Fprintln(s.out, "Seeding books...")
	seeded := 0
	for _, b := range mapping {
		if err := s.store.UpsertBook(ctx, &types.Book{ID: b.ID, Title: b.Name}); err != nil {
			s.log.Error("Failed to upsert book", "book_id", b.ID, "error", err)
			continue
		}
		fmt.Fprintf(s.out, "  - %s: %s\n", b.ID, b.Name)
		seeded++
	}
	fmt.Fprintf(s.out, "Seeded %d books.\n", seeded)
	return seeded
}

// SeedChaptersAndQuestions reads <dir>/<book id>/chapter-*.json for every mapped
// book (or only bookID when set) and upserts each chapter with its questions.
func (s *Seeder) SeedChaptersAndQuestions(ctx context.Context, mapping []BookEntry, dir, bookID string) Totals {
	var totals Totals
	books := mapping
	if bookID != "" {
		books = nil
		for _, b := range mapping {
			if b.ID == bookID {
				books = append(books, b)
			}
		}
		if len(books) == 0 {
			s.log.Error("Unknown book id", "book_id", bookID)
			return totals
		}
	}

	for _, b := range books {
		bookDir := filepath.Join(dir, b.ID)
		if fi, err := os.Stat(bookDir); err != nil || !fi.IsDir() {
			s.log.Warn("No questions directory for book", "book_id", b.ID, "dir", bookDir)
			continue
		}
		files, err := chapterFiles(bookDir)
		if err != nil {
			s.log.Error("Failed to list chapter files", "book_id", b.ID, "error", err)
			continue
		}
		if len(files) == 0 {
			s.log.Warn("No chapter files found", "book_id", b.ID, "dir", bookDir)
			continue
		}
		fmt.Fprintf(s.out, "Processing: %s\n", b.Name)
		for _, f := range files {
			n, err := s.seedChapterFile(ctx, b.ID, f)
			if err != nil {
				s.log.Error("Failed to seed chapter file", "file", f, "error", err)
				continue
			}
			totals.Chapters++
			totals.Questions += n
		}
	}
	return totals
}

func (s *Seeder) seedChapterFile(ctx context.Context, bookID, path string) (int, error) {
	fx, err := loadChapterFixture(path)
	if err != nil {
		return 0, err
	}
	chapter, err := s.store.UpsertChapter(ctx, &types.Chapter{
		BookID:        bookID,
		ChapterNumber: *fx.Chapter,
		Title:         *fx.ChapterTitle,
	})
	if err != nil {
		return 0, err
	}

	questions := make([]*types.Question, 0, len(*fx.Questions))
	for i, qf := range *fx.Questions {
		q := &types.Question{
			ID:            qf.ID,
			ChapterID:     chapter.ID,
			Position:      i,
			QuestionText:  qf.QuestionText,
			CorrectAnswer: qf.CorrectAnswer,
			Options:       datatypes.JSONSlice[string](qf.Options),
			Explanation:   qf.Explanation,
			Difficulty:    qf.Difficulty,
			ConceptTags:   datatypes.JSONSlice[string](qf.ConceptTags),
		}
		if q.Difficulty == "" {
			q.Difficulty = types.DefaultDifficulty
		}
		q.Normalize()
		if q.ID == "" {
			s.log.Warn("Skipping question without id", "file", path, "index", i)
			continue
		}
		if err := q.Validate(); err != nil {
			s.log.Warn("Skipping invalid question", "file", path, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	if err := s.store.UpsertQuestions(ctx, questions); err != nil {
		return 0, err
	}
	fmt.Fprintf(s.out, "  Chapter %d: %s (%d questions)\n", *fx.Chapter, *fx.ChapterTitle, len(questions))
	return len(questions), nil
}

func (s *Seeder) ReportStats(ctx context.Context) (*store.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.log.Error("Failed to read stats", "error", err)
		return nil, err
	}
	s.log.Info("Database statistics", "books", stats.Books, "chapters", stats.Chapters, "questions", stats.Questions)
	fmt.Fprintln(s.out, "Database Statistics:")
	fmt.Fprintf(s.out, "  Books: %d\n", stats.Books)
	fmt.Fprintf(s.out, "  Chapters: %d\n", stats.Chapters)
	fmt.Fprintf(s.out, "  Questions: %d\n", stats.Questions)
	return stats, nil
}

func (s *Seeder) reportTotals(t Totals) {
	fmt.Fprintln(s.out, "Seeding complete!")
	fmt.Fprintf(s.out, "  Total chapters: %d\n", t.Chapters)
	fmt.Fprintf(s.out, "  Total questions: %d\n", t.Questions)
}
