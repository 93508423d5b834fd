// Package supabase implements store.Store against a Supabase project through its PostgREST endpoint.
package supabase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

const (
	tableBooks          = "books"
	tableChapters       = "chapters"
	tableQuestions      = "questions"
	tableUserProgress   = "user_progress"
	tableConceptMastery = "concept_mastery"

	restPath = "/rest/v1"
)

type Config struct {
	URL        string
	ServiceKey string
	Schema     string
}

type Store struct {
	client *postgrest.Client
	log    *logger.Logger
}

var _ store.Store = (*Store)(nil)

// New builds the PostgREST client once. URL is the project URL; the REST path is appended
// unless already present.
func New(cfg Config, baseLog *logger.Logger) (*Store, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("supabase: missing url: %w", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(cfg.ServiceKey) == "" {
		return nil, fmt.Errorf("supabase: missing service key: %w", apperr.ErrInvalidArgument)
	}
	if !strings.HasSuffix(base, restPath) {
		base += restPath
	}
	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	client := postgrest.NewClient(base, schema, map[string]string{
		"apikey":        cfg.ServiceKey,
		"Authorization": "Bearer " + cfg.ServiceKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("supabase: %v: %w", client.ClientError, apperr.ErrInvalidArgument)
	}
	return &Store{client: client, log: baseLog.With("store", "supabase")}, nil
}

func (s *Store) UpsertBook(ctx context.Context, book *types.Book) error {
	if book == nil || book.ID == "" {
		return fmt.Errorf("upsert book: missing id: %w", apperr.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return unavailable("upsert book", err)
	}
	row := bookRow{ID: book.ID, Name: book.Title, Author: book.Author}
	if _, _, err := s.client.From(tableBooks).Upsert(row, "id", "minimal", "").Execute(); err != nil {
		return unavailable("upsert book", err)
	}
	return nil
}

func (s *Store) UpsertChapter(ctx context.Context, chapter *types.Chapter) (*types.Chapter, error) {
	if chapter == nil || chapter.BookID == "" {
		return nil, fmt.Errorf("upsert chapter: missing book id: %w", apperr.ErrInvalidArgument)
	}
	if _, err := s.GetBook(ctx, chapter.BookID); err != nil {
		return nil, fmt.Errorf("upsert chapter: %w", err)
	}
	row := chapterRow{
		BookID:        chapter.BookID,
		ChapterNumber: chapter.ChapterNumber,
		Title:         chapter.Title,
		Content:       chapter.Content,
	}
	var out []chapterRow
	if _, err := s.client.From(tableChapters).
		Upsert(row, "book_id,chapter_number", "representation", "").
		ExecuteTo(&out); err != nil {
		return nil, unavailable("upsert chapter", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("upsert chapter %s/%d: empty result: %w", chapter.BookID, chapter.ChapterNumber, apperr.ErrServiceUnavailable)
	}
	return out[0].toDomain(), nil
}

func (s *Store) UpsertQuestions(ctx context.Context, questions []*types.Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return unavailable("upsert questions", err)
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, newQuestionRow(q))
	}
	if _, _, err := s.client.From(tableQuestions).Upsert(rows, "id", "minimal", "").Execute(); err != nil {
		return unavailable("upsert questions", err)
	}
	return nil
}

func (s *Store) ListBooks(ctx context.Context) ([]*types.Book, error) {
	var rows []bookRow
	if _, err := s.client.From(tableBooks).
		Select("*", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("list books", err)
	}
	out := make([]*types.Book, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) GetBook(ctx context.Context, id string) (*types.Book, error) {
	var rows []bookRow
	if _, err := s.client.From(tableBooks).
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("get book", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("book %q: %w", id, apperr.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

func (s *Store) ListChapters(ctx context.Context, bookID string) ([]*types.Chapter, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	var rows []chapterRow
	if _, err := s.client.From(tableChapters).
		Select("*", "", false).
		Eq("book_id", bookID).
		Order("chapter_number", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("list chapters", err)
	}
	out := make([]*types.Chapter, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) GetChapter(ctx context.Context, id int64) (*types.Chapter, error) {
	var rows []chapterRow
	if _, err := s.client.From(tableChapters).
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("get chapter", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("chapter %d: %w", id, apperr.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

func (s *Store) ListQuestions(ctx context.Context, chapterID int64) ([]*types.Question, error) {
	if _, err := s.GetChapter(ctx, chapterID); err != nil {
		return nil, err
	}
	var rows []questionRow
	if _, err := s.client.From(tableQuestions).
		Select("*", "", false).
		Eq("chapter_id", strconv.FormatInt(chapterID, 10)).
		Order("position", &postgrest.OrderOpts{Ascending: true}).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("list questions", err)
	}
	out := make([]*types.Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (*types.Question, error) {
	var rows []questionRow
	if _, err := s.client.From(tableQuestions).
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("get question", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("question %q: %w", id, apperr.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// RecordAnswer inserts the attempt and then updates mastery per concept. PostgREST has no
// multi-statement transactions, so a failure part way leaves earlier concepts updated.
func (s *Store) RecordAnswer(ctx context.Context, answer *types.UserProgress, concepts []string) error {
	if answer == nil || answer.UserID == "" || answer.QuestionID == "" {
		return fmt.Errorf("record answer: missing user or question: %w", apperr.ErrInvalidArgument)
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now().UTC()
	}
	row := progressRow{
		UserID:     answer.UserID,
		QuestionID: answer.QuestionID,
		Correct:    answer.Correct,
		AnsweredAt: answer.AnsweredAt,
	}
	if _, _, err := s.client.From(tableUserProgress).Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return unavailable("record answer", err)
	}

	for _, concept := range store.Concepts(concepts) {
		var existing []masteryRow
		if _, err := s.client.From(tableConceptMastery).
			Select("*", "", false).
			Eq("user_id", answer.UserID).
			Eq("concept", concept).
			ExecuteTo(&existing); err != nil {
			return unavailable("record answer", err)
		}
		m := &types.ConceptMastery{UserID: answer.UserID, Concept: concept}
		if len(existing) > 0 {
			m = existing[0].toDomain()
		}
		m.Apply(answer.Correct, answer.AnsweredAt)

		var err error
		if m.ID == 0 {
			_, _, err = s.client.From(tableConceptMastery).
				Insert(newMasteryRow(m), false, "", "minimal", "").
				Execute()
		} else {
			_, _, err = s.client.From(tableConceptMastery).
				Update(newMasteryRow(m), "minimal", "").
				Eq("id", strconv.FormatInt(m.ID, 10)).
				Execute()
		}
		if err != nil {
			return unavailable("record answer", err)
		}
	}
	return nil
}

func (s *Store) ListConceptMastery(ctx context.Context, userID string) ([]*types.ConceptMastery, error) {
	var rows []masteryRow
	if _, err := s.client.From(tableConceptMastery).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("mastery_percentage", &postgrest.OrderOpts{Ascending: false}).
		Order("concept", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows); err != nil {
		return nil, unavailable("list concept mastery", err)
	}
	out := make([]*types.ConceptMastery, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) ProgressStats(ctx context.Context, userID string) (*types.ProgressStats, error) {
	_, total, err := s.client.From(tableUserProgress).
		Select("id", "exact", true).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, unavailable("progress stats", err)
	}
	_, correct, err := s.client.From(tableUserProgress).
		Select("id", "exact", true).
		Eq("user_id", userID).
		Eq("correct", "true").
		Execute()
	if err != nil {
		return nil, unavailable("progress stats", err)
	}
	return types.NewProgressStats(int(total), int(correct)), nil
}

func (s *Store) Stats(ctx context.Context) (*store.Stats, error) {
	var out store.Stats
	for _, c := range []struct {
		table string
		dst   *int64
	}{
		{tableBooks, &out.Books},
		{tableChapters, &out.Chapters},
		{tableQuestions, &out.Questions},
	} {
		n, err := s.count(c.table)
		if err != nil {
			return nil, unavailable("stats", err)
		}
		*c.dst = n
	}
	return &out, nil
}

func (s *Store) count(table string) (int64, error) {
	_, n, err := s.client.From(table).Select("id", "exact", true).Execute()
	return n, err
}

// ClearAll deletes child tables first. The progress tables may not exist yet and are
// skipped on error; any other failure stops the sequence so no orphans are left behind.
func (s *Store) ClearAll(ctx context.Context) error {
	steps := []struct {
		table    string
		column   string
		neq      string
		optional bool
	}{
		{tableConceptMastery, "id", "0", true},
		{tableUserProgress, "id", "0", true},
		{tableQuestions, "id", "", false},
		{tableChapters, "id", "0", false},
		{tableBooks, "id", "", false},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return unavailable("clear all", err)
		}
		_, _, err := s.client.From(step.table).
			Delete("minimal", "").
			Neq(step.column, step.neq).
			Execute()
		if err != nil {
			if step.optional {
				s.log.Warn("Skipping table during clear", "table", step.table, "error", err)
				continue
			}
			return fmt.Errorf("clear all: table %s: %v: %w", step.table, err, apperr.ErrServiceUnavailable)
		}
		s.log.Debug("Cleared table", "table", step.table)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, apperr.ErrServiceUnavailable)
}
