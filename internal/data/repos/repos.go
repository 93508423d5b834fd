package repos

import (
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/repos/content"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/repos/progress"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"gorm.io/gorm"
)

type BookRepo = content.BookRepo
type ChapterRepo = content.ChapterRepo
type QuestionRepo = content.QuestionRepo

type UserProgressRepo = progress.UserProgressRepo
type ConceptMasteryRepo = progress.ConceptMasteryRepo

// Set groups every repo backed by one gorm handle.
type Set struct {
	Book           BookRepo
	Chapter        ChapterRepo
	Question       QuestionRepo
	UserProgress   UserProgressRepo
	ConceptMastery ConceptMasteryRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Book:           content.NewBookRepo(db, baseLog),
		Chapter:        content.NewChapterRepo(db, baseLog),
		Question:       content.NewQuestionRepo(db, baseLog),
		UserProgress:   progress.NewUserProgressRepo(db, baseLog),
		ConceptMastery: progress.NewConceptMasteryRepo(db, baseLog),
	}
}
