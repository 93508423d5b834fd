package content

import (
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepo interface {
	Upsert(dbc dbctx.Context, books []*types.Book) error
	GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Book, error)
	List(dbc dbctx.Context) ([]*types.Book, error)
	Count(dbc dbctx.Context) (int64, error)
	DeleteAll(dbc dbctx.Context) error
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	repoLog := baseLog.With("repo", "BookRepo")
	return &bookRepo{db: db, log: repoLog}
}

func (r *bookRepo) Upsert(dbc dbctx.Context, books []*types.Book) error {
	if len(books) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "author", "updated_at"}),
		}).
		Create(&books).Error
}

func (r *bookRepo) GetByIDs(dbc dbctx.Context, ids []string) ([]*types.Book, error) {
	var results []*types.Book
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookRepo) List(dbc dbctx.Context) ([]*types.Book, error) {
	var results []*types.Book
	if err := dbc.DB(r.db).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Book{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *bookRepo) DeleteAll(dbc dbctx.Context) error {
	return dbc.DB(r.db).Where("1 = 1").Delete(&types.Book{}).Error
}
