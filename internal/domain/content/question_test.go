package content

import (
	"testing"

	"gorm.io/datatypes"
)

func TestQuestionValidate(t *testing.T) {
	ok := &Question{ID: "q1", QuestionText: "?", CorrectAnswer: "A", Options: datatypes.JSONSlice[string]{"A", "B"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	missing := &Question{ID: "q2", QuestionText: "?", CorrectAnswer: "C", Options: datatypes.JSONSlice[string]{"A", "B"}}
	if err := missing.Validate(); err == nil {
		t.Fatalf("expected error when correct answer is not an option")
	}
	empty := &Question{ID: "q3", CorrectAnswer: "A", Options: datatypes.JSONSlice[string]{"A"}}
	if err := empty.Validate(); err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestQuestionNormalize(t *testing.T) {
	q := &Question{ID: "q1"}
	q.Normalize()
	if q.Options == nil || q.ConceptTags == nil {
		t.Fatalf("expected non-nil slices")
	}
}

func TestIsEphemeralID(t *testing.T) {
	if !IsEphemeralID(EphemeralIDPrefix + "abc") {
		t.Fatalf("expected ephemeral")
	}
	if IsEphemeralID("bio-1-1") {
		t.Fatalf("expected persisted id")
	}
}
