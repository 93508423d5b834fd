package generation

import (
	"context"
	"fmt"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	"gorm.io/datatypes"
)

var mockOptions = []string{"Option A", "Option B", "Option C", "Option D"}

// MockGenerator emits deterministic placeholder questions. It ignores the content.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (MockGenerator) Generate(ctx context.Context, content string, n int) ([]*types.Question, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	out := make([]*types.Question, 0, n)
	for i := 1; i <= n; i++ {
		options := make(datatypes.JSONSlice[string], len(mockOptions))
		copy(options, mockOptions)
		out = append(out, &types.Question{
			Position:      i - 1,
			QuestionText:  fmt.Sprintf("This is mock question %d for the chapter, formatted like an MCAT question.", i),
			CorrectAnswer: mockOptions[0],
			Options:       options,
			Explanation: fmt.Sprintf("Explanation for question %d: Option A is correct because [reason]. "+
				"Options B, C, and D are incorrect because [reasons].", i),
			Difficulty:  types.DefaultDifficulty,
			ConceptTags: datatypes.JSONSlice[string]{},
		})
	}
	return out, nil
}
