package progress

import (
	"errors"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/dbctx"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"gorm.io/gorm"
)

type ConceptMasteryRepo interface {
	// GetByUserAndConcept returns nil, nil when the user has never practiced the concept.
	GetByUserAndConcept(dbc dbctx.Context, userID, concept string) (*types.ConceptMastery, error)
	Save(dbc dbctx.Context, row *types.ConceptMastery) error
	ListByUser(dbc dbctx.Context, userID string) ([]*types.ConceptMastery, error)
	DeleteAll(dbc dbctx.Context) error
}

type conceptMasteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptMasteryRepo(db *gorm.DB, baseLog *logger.Logger) ConceptMasteryRepo {
	repoLog := baseLog.With("repo", "ConceptMasteryRepo")
	return &conceptMasteryRepo{db: db, log: repoLog}
}

func (r *conceptMasteryRepo) GetByUserAndConcept(dbc dbctx.Context, userID, concept string) (*types.ConceptMastery, error) {
	var row types.ConceptMastery
	err := dbc.DB(r.db).
		Where("user_id = ? AND concept = ?", userID, concept).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *conceptMasteryRepo) Save(dbc dbctx.Context, row *types.ConceptMastery) error {
	return dbc.DB(r.db).Save(row).Error
}

func (r *conceptMasteryRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.ConceptMastery, error) {
	var results []*types.ConceptMastery
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("mastery_percentage DESC, concept ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *conceptMasteryRepo) DeleteAll(dbc dbctx.Context) error {
	return dbc.DB(r.db).Where("1 = 1").Delete(&types.ConceptMastery{}).Error
}
