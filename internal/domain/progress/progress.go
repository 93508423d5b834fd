package progress

import (
	"math"
	"time"
)

type UserProgress struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;not null;index" json:"user_id"`
	QuestionID string    `gorm:"column:question_id;not null;index" json:"question_id"`
	Correct    bool      `gorm:"column:correct;not null" json:"correct"`
	AnsweredAt time.Time `gorm:"column:answered_at;not null" json:"answered_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

type ConceptMastery struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID            string    `gorm:"column:user_id;not null;uniqueIndex:idx_concept_mastery_user_concept,priority:1" json:"user_id"`
	Concept           string    `gorm:"column:concept;not null;uniqueIndex:idx_concept_mastery_user_concept,priority:2" json:"concept"`
	TotalAttempts     int       `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	CorrectAttempts   int       `gorm:"column:correct_attempts;not null;default:0" json:"correct_attempts"`
	MasteryPercentage float64   `gorm:"column:mastery_percentage;not null;default:0" json:"mastery_percentage"`
	LastPracticed     time.Time `gorm:"column:last_practiced" json:"last_practiced"`
}

func (ConceptMastery) TableName() string { return "concept_mastery" }

// Apply folds one answer into the mastery record.
func (m *ConceptMastery) Apply(correct bool, at time.Time) {
	m.TotalAttempts++
	if correct {
		m.CorrectAttempts++
	}
	m.MasteryPercentage = float64(m.CorrectAttempts) / float64(m.TotalAttempts) * 100
	m.LastPracticed = at
}

type Stats struct {
	Total    int `json:"total"`
	Correct  int `json:"correct"`
	Accuracy int `json:"accuracy"`
}

func NewStats(total, correct int) *Stats {
	s := &Stats{Total: total, Correct: correct}
	if total > 0 {
		s.Accuracy = int(math.Round(float64(correct) / float64(total) * 100))
	}
	return s
}
