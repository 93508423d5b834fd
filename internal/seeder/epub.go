package seeder

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/ingestion/epub"
)

// SeedFromEPUBs derives one book per *.epub in dir, one chapter per TOC leaf and
// perChapter generated questions per chapter. Question ids are <book>-<chapter>-<n>
// so a re-run overwrites instead of duplicating.
func (s *Seeder) SeedFromEPUBs(ctx context.Context, dir, bookID string, perChapter int) Totals {
	var totals Totals
	paths, err := filepath.Glob(filepath.Join(dir, "*.epub"))
	if err != nil {
		s.log.Error("Failed to list epub files", "dir", dir, "error", err)
		return totals
	}
	sort.Strings(paths)

	for _, p := range paths {
		title := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		id := Slug(title)
		if bookID != "" && id != bookID {
			continue
		}
		sections, err := epub.ExtractChapters(p)
		if err != nil {
			s.log.Error("Failed to extract epub", "file", p, "error", err)
			continue
		}
		if err := s.store.UpsertBook(ctx, &types.Book{ID: id, Title: title}); err != nil {
			s.log.Error("Failed to upsert book", "book_id", id, "error", err)
			continue
		}
		fmt.Fprintf(s.out, "Processing: %s (%d sections)\n", title, len(sections))

		for i, sec := range sections {
			number := i + 1
			chapter, err := s.store.UpsertChapter(ctx, &types.Chapter{
				BookID:        id,
				ChapterNumber: number,
				Title:         sec.Title,
				Content:       sec.Content,
			})
			if err != nil {
				s.log.Error("Failed to upsert chapter", "book_id", id, "chapter", number, "error", err)
				continue
			}
			totals.Chapters++
			qs, err := s.generator.Generate(ctx, sec.Content, perChapter)
			if err != nil {
				s.log.Error("Failed to generate questions", "book_id", id, "chapter", number, "error", err)
				continue
			}
			for j, q := range qs {
				q.ID = fmt.Sprintf("%s-%d-%d", id, number, j+1)
				q.ChapterID = chapter.ID
				q.Position = j
				q.Normalize()
			}
			if err := s.store.UpsertQuestions(ctx, qs); err != nil {
				s.log.Error("Failed to upsert questions", "book_id", id, "chapter", number, "error", err)
				continue
			}
			totals.Questions += len(qs)
		}
	}
	return totals
}

// Slug lowercases s and joins its alphanumeric runs with "-".
func Slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}
