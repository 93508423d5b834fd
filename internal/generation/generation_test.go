package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

func TestMockGenerator(t *testing.T) {
	g := NewMockGenerator()
	ctx := context.Background()

	for _, n := range []int{0, 1, DefaultCount, 12} {
		qs, err := g.Generate(ctx, "chapter text", n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		if len(qs) != n {
			t.Fatalf("Generate(%d) returned %d questions", n, len(qs))
		}
		for i, q := range qs {
			if err := q.Validate(); err != nil {
				t.Fatalf("question %d invalid: %v", i, err)
			}
			if q.ID != "" || q.ChapterID != 0 {
				t.Fatalf("generator must not assign identifiers: %+v", q)
			}
		}
	}

	qs, _ := g.Generate(ctx, "", 2)
	if !strings.Contains(qs[1].QuestionText, "mock question 2") {
		t.Fatalf("unexpected text %q", qs[1].QuestionText)
	}
	if qs[0].CorrectAnswer != "Option A" || len(qs[0].Options) != 4 || qs[0].Difficulty != "medium" {
		t.Fatalf("unexpected question shape: %+v", qs[0])
	}

	again, _ := g.Generate(ctx, "different content", 2)
	if again[1].QuestionText != qs[1].QuestionText || again[1].Explanation != qs[1].Explanation {
		t.Fatalf("mock output should be deterministic")
	}

	if _, err := g.Generate(ctx, "", -1); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func fakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   req["model"],
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenAI(t *testing.T, content string) *OpenAIGenerator {
	t.Helper()
	srv := fakeOpenAI(t, content)
	logg, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	g, err := NewOpenAIGenerator(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", MaxContentChars: 100}, logg)
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}
	return g
}

const twoQuestions = `{"questions":[
 {"question_text":"Which enzyme class transfers phosphate groups?","options":["Kinase","Ligase","Lyase","Isomerase"],"correct_answer":"Kinase","explanation":"Kinases phosphorylate.","concept_tags":["enzymes"]},
 {"question_text":"What is Km?","options":["A","B","C","D"],"correct_answer":"B","explanation":"","difficulty":"hard"}
]}`

func TestOpenAIGenerator(t *testing.T) {
	g := newTestOpenAI(t, twoQuestions)
	ctx := context.Background()

	qs, err := g.Generate(ctx, strings.Repeat("enzyme ", 100), 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Difficulty != "medium" || qs[1].Difficulty != "hard" {
		t.Fatalf("unexpected difficulties: %q %q", qs[0].Difficulty, qs[1].Difficulty)
	}
	if qs[1].ConceptTags == nil || len(qs[1].ConceptTags) != 0 {
		t.Fatalf("expected empty tags, got %v", qs[1].ConceptTags)
	}

	one, err := g.Generate(ctx, "x", 1)
	if err != nil || len(one) != 1 {
		t.Fatalf("expected truncation to 1: err=%v len=%d", err, len(one))
	}

	if _, err := g.Generate(ctx, "x", 3); !errors.Is(err, apperr.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable for short response, got %v", err)
	}
	if zero, err := g.Generate(ctx, "x", 0); err != nil || len(zero) != 0 {
		t.Fatalf("expected empty result for n=0: err=%v", err)
	}
}

func TestOpenAIGenerator_RejectsBadAnswer(t *testing.T) {
	g := newTestOpenAI(t, `{"questions":[{"question_text":"Q","options":["A","B"],"correct_answer":"C"}]}`)
	if _, err := g.Generate(context.Background(), "x", 1); !errors.Is(err, apperr.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestOpenAIGenerator_RejectsMalformedJSON(t *testing.T) {
	g := newTestOpenAI(t, `not json`)
	if _, err := g.Generate(context.Background(), "x", 1); !errors.Is(err, apperr.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestNewOpenAIGenerator_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIConfig{}, logger.Nop()); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestTruncateContentKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"enzyme", 10, "enzyme"},
		{"enzyme", 3, "enz"},
		{"αβγδ", 5, "αβ"},
		{"αβγδ", 4, "αβ"},
		{"Δ", 1, ""},
	}
	for _, tc := range cases {
		got := truncateContent(tc.in, tc.max)
		if got != tc.want || !utf8.ValidString(got) {
			t.Fatalf("truncateContent(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}

	g := &OpenAIGenerator{maxChars: 7}
	prompt := g.buildPrompt("Ångström units", 1)
	if !utf8.ValidString(prompt) || !strings.HasSuffix(prompt, "Chapter:\nÅngstr") {
		t.Fatalf("unexpected prompt tail: %q", prompt[len(prompt)-20:])
	}
}
