package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/ctxutil"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

// ProgressService records answers for the authenticated user and reports on them.
type ProgressService interface {
	RecordAnswer(ctx context.Context, questionID string, correct bool) (*types.UserProgress, error)
	Stats(ctx context.Context) (*types.ProgressStats, error)
	Mastery(ctx context.Context) ([]*types.ConceptMastery, error)
}

type progressService struct {
	store store.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewProgressService(st store.Store, baseLog *logger.Logger) ProgressService {
	return &progressService{
		store: st,
		log:   baseLog.With("service", "ProgressService"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func userID(ctx context.Context) (string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == "" {
		return "", fmt.Errorf("no user in request: %w", apperr.ErrUnauthorized)
	}
	return rd.UserID, nil
}

func (s *progressService) RecordAnswer(ctx context.Context, questionID string, correct bool) (*types.UserProgress, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, fmt.Errorf("missing question_id: %w", apperr.ErrInvalidArgument)
	}
	if types.IsEphemeralID(questionID) {
		return nil, fmt.Errorf("question %q was never stored: %w", questionID, apperr.ErrInvalidArgument)
	}
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	row := &types.UserProgress{
		UserID:     uid,
		QuestionID: q.ID,
		Correct:    correct,
		AnsweredAt: s.now(),
	}
	if err := s.store.RecordAnswer(ctx, row, q.ConceptTags); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *progressService) Stats(ctx context.Context) (*types.ProgressStats, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ProgressStats(ctx, uid)
}

func (s *progressService) Mastery(ctx context.Context) ([]*types.ConceptMastery, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListConceptMastery(ctx, uid)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*types.ConceptMastery{}
	}
	return rows, nil
}
