package content

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DefaultDifficulty = "medium"

// EphemeralIDPrefix marks question ids that were generated for a single response.
// Persisted question ids never carry it.
const EphemeralIDPrefix = "regen-"

type Question struct {
	ID            string                      `gorm:"column:id;primaryKey" json:"id"`
	ChapterID     int64                       `gorm:"column:chapter_id;not null;index:idx_questions_chapter_position,priority:1" json:"chapter_id"`
	Chapter       *Chapter                    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"-"`
	Position      int                         `gorm:"column:position;not null;index:idx_questions_chapter_position,priority:2" json:"position"`
	QuestionText  string                      `gorm:"column:question_text;type:text;not null" json:"question_text"`
	CorrectAnswer string                      `gorm:"column:correct_answer;not null" json:"correct_answer"`
	Options       datatypes.JSONSlice[string] `gorm:"column:options;not null" json:"options"`
	Explanation   string                      `gorm:"column:explanation;type:text" json:"explanation,omitempty"`
	Difficulty    string                      `gorm:"column:difficulty" json:"difficulty,omitempty"`
	ConceptTags   datatypes.JSONSlice[string] `gorm:"column:concept_tags" json:"concept_tags"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "questions" }

// Validate checks the invariants every stored or served question must hold.
func (q *Question) Validate() error {
	if q == nil {
		return fmt.Errorf("nil question")
	}
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("question %q: empty question text", q.ID)
	}
	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return fmt.Errorf("question %q: empty correct answer", q.ID)
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("question %q: correct answer %q not among options", q.ID, q.CorrectAnswer)
}

// Normalize fills defaults so the JSON columns never store null.
func (q *Question) Normalize() {
	if q.Options == nil {
		q.Options = datatypes.JSONSlice[string]{}
	}
	if q.ConceptTags == nil {
		q.ConceptTags = datatypes.JSONSlice[string]{}
	}
}

func IsEphemeralID(id string) bool { return strings.HasPrefix(id, EphemeralIDPrefix) }
