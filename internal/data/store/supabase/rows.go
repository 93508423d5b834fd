package supabase

import (
	"time"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"gorm.io/datatypes"
)

// Remote column layouts. Books carry "name" on the remote schema.

type bookRow struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Author *string `json:"author,omitempty"`
}

func (r bookRow) toDomain() *types.Book {
	return &types.Book{ID: r.ID, Title: r.Name, Author: r.Author}
}

type chapterRow struct {
	ID            int64  `json:"id,omitempty"`
	BookID        string `json:"book_id"`
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Content       string `json:"content,omitempty"`
}

func (r chapterRow) toDomain() *types.Chapter {
	return &types.Chapter{
		ID:            r.ID,
		BookID:        r.BookID,
		ChapterNumber: r.ChapterNumber,
		Title:         r.Title,
		Content:       r.Content,
	}
}

type questionRow struct {
	ID            string   `json:"id"`
	ChapterID     int64    `json:"chapter_id"`
	Position      int      `json:"position"`
	QuestionText  string   `json:"question_text"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	ConceptTags   []string `json:"concept_tags"`
}

func newQuestionRow(q *types.Question) questionRow {
	q.Normalize()
	return questionRow{
		ID:            q.ID,
		ChapterID:     q.ChapterID,
		Position:      q.Position,
		QuestionText:  q.QuestionText,
		CorrectAnswer: q.CorrectAnswer,
		Options:       []string(q.Options),
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		ConceptTags:   []string(q.ConceptTags),
	}
}

func (r questionRow) toDomain() *types.Question {
	q := &types.Question{
		ID:            r.ID,
		ChapterID:     r.ChapterID,
		Position:      r.Position,
		QuestionText:  r.QuestionText,
		CorrectAnswer: r.CorrectAnswer,
		Options:       datatypes.JSONSlice[string](r.Options),
		Explanation:   r.Explanation,
		Difficulty:    r.Difficulty,
		ConceptTags:   datatypes.JSONSlice[string](r.ConceptTags),
	}
	q.Normalize()
	return q
}

type progressRow struct {
	UserID     string    `json:"user_id"`
	QuestionID string    `json:"question_id"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

type masteryRow struct {
	ID                int64     `json:"id,omitempty"`
	UserID            string    `json:"user_id"`
	Concept           string    `json:"concept"`
	TotalAttempts     int       `json:"total_attempts"`
	CorrectAttempts   int       `json:"correct_attempts"`
	MasteryPercentage float64   `json:"mastery_percentage"`
	LastPracticed     time.Time `json:"last_practiced"`
}

func (r masteryRow) toDomain() *types.ConceptMastery {
	return &types.ConceptMastery{
		ID:                r.ID,
		UserID:            r.UserID,
		Concept:           r.Concept,
		TotalAttempts:     r.TotalAttempts,
		CorrectAttempts:   r.CorrectAttempts,
		MasteryPercentage: r.MasteryPercentage,
		LastPracticed:     r.LastPracticed,
	}
}

func newMasteryRow(m *types.ConceptMastery) masteryRow {
	return masteryRow{
		ID:                m.ID,
		UserID:            m.UserID,
		Concept:           m.Concept,
		TotalAttempts:     m.TotalAttempts,
		CorrectAttempts:   m.CorrectAttempts,
		MasteryPercentage: m.MasteryPercentage,
		LastPracticed:     m.LastPracticed,
	}
}
