package progress

import (
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"gorm.io/gorm"
)

type UserProgressRepo interface {
	Create(dbc dbctx.Context, row *types.UserProgress) error
	// CountByUser returns the number of answers and how many were correct.
	CountByUser(dbc dbctx.Context, userID string) (int, int, error)
	DeleteAll(dbc dbctx.Context) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) Create(dbc dbctx.Context, row *types.UserProgress) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *userProgressRepo) CountByUser(dbc dbctx.Context, userID string) (int, int, error) {
	var total, correct int64
	if err := dbc.DB(r.db).Model(&types.UserProgress{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := dbc.DB(r.db).Model(&types.UserProgress{}).
		Where("user_id = ? AND correct = ?", userID, true).
		Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return int(total), int(correct), nil
}

func (r *userProgressRepo) DeleteAll(dbc dbctx.Context) error {
	return dbc.DB(r.db).Where("1 = 1").Delete(&types.UserProgress{}).Error
}
