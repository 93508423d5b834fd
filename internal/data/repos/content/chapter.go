package content

import (
	"errors"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChapterRepo interface {
	// Upsert inserts or updates by (book_id, chapter_number) and returns the stored row.
	Upsert(dbc dbctx.Context, chapter *types.Chapter) (*types.Chapter, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Chapter, error)
	GetByBookID(dbc dbctx.Context, bookID string) ([]*types.Chapter, error)
	GetByBookAndNumber(dbc dbctx.Context, bookID string, number int) (*types.Chapter, error)
	Count(dbc dbctx.Context) (int64, error)
	DeleteAll(dbc dbctx.Context) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	repoLog := baseLog.With("repo", "ChapterRepo")
	return &chapterRepo{db: db, log: repoLog}
}

func (r *chapterRepo) Upsert(dbc dbctx.Context, chapter *types.Chapter) (*types.Chapter, error) {
	row := &types.Chapter{
		BookID:        chapter.BookID,
		ChapterNumber: chapter.ChapterNumber,
		Title:         chapter.Title,
		Content:       chapter.Content,
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}, {Name: "chapter_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	// The conflict path does not reliably report the existing id on every dialect.
	return r.GetByBookAndNumber(dbc, chapter.BookID, chapter.ChapterNumber)
}

func (r *chapterRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Chapter, error) {
	var results []*types.Chapter
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

func (r *chapterRepo) GetByBookID(dbc dbctx.Context, bookID string) ([]*types.Chapter, error) {
	var results []*types.Chapter
	if err := dbc.DB(r.db).
		Where("book_id = ?", bookID).
		Order("chapter_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) GetByBookAndNumber(dbc dbctx.Context, bookID string, number int) (*types.Chapter, error) {
	var row types.Chapter
	err := dbc.DB(r.db).
		Where("book_id = ? AND chapter_number = ?", bookID, number).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *chapterRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Chapter{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *chapterRepo) DeleteAll(dbc dbctx.Context) error {
	return dbc.DB(r.db).Where("1 = 1").Delete(&types.Chapter{}).Error
}
