package content

import (
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const questionBatchSize = 200

type QuestionRepo interface {
	Upsert(dbc dbctx.Context, questions []*types.Question) error
	GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Question, error)
	GetByChapterID(dbc dbctx.Context, chapterID int64) ([]*types.Question, error)
	Count(dbc dbctx.Context) (int64, error)
	DeleteAll(dbc dbctx.Context) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) Upsert(dbc dbctx.Context, questions []*types.Question) error {
	if len(questions) == 0 {
		return nil
	}
	for _, q := range questions {
		q.Normalize()
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"chapter_id", "position", "question_text", "correct_answer", "options",
				"explanation", "difficulty", "concept_tags", "updated_at",
			}),
		}).
		CreateInBatches(questions, questionBatchSize).Error
}

func (r *questionRepo) GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Question, error) {
	var results []*types.Question
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) GetByChapterID(dbc dbctx.Context, chapterID int64) ([]*types.Question, error) {
	var results []*types.Question
	if err := dbc.DB(r.db).
		Where("chapter_id = ?", chapterID).
		Order("position ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *questionRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Question{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *questionRepo) DeleteAll(dbc dbctx.Context) error {
	return dbc.DB(r.db).Where("1 = 1").Delete(&types.Question{}).Error
}
