// Package generation produces multiple-choice questions from chapter text.
package generation

import (
	"context"
	"fmt"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

const DefaultCount = 5

// Generator returns exactly n questions for content. The questions carry no
// id and no chapter id; callers assign both.
type Generator interface {
	Generate(ctx context.Context, content string, n int) ([]*types.Question, error)
}

func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("question count %d: %w", n, apperr.ErrInvalidArgument)
	}
	return nil
}
