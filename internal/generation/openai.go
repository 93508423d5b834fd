package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/datatypes"

	types "github.com/CazadorHJT/MCAT-Prep-App/internal/domain"
	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

const defaultMaxContentChars = 24000

type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses api.openai.com.
	BaseURL         string
	MaxContentChars int
}

// OpenAIGenerator asks a chat model for MCAT style questions in one JSON response.
type OpenAIGenerator struct {
	client   *openai.Client
	model    string
	maxChars int
	log      *logger.Logger
}

func NewOpenAIGenerator(cfg OpenAIConfig, baseLog *logger.Logger) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai generator: missing api key: %w", apperr.ErrInvalidArgument)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = defaultMaxContentChars
	}
	return &OpenAIGenerator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		maxChars: maxChars,
		log:      baseLog.With("generator", "openai"),
	}, nil
}

type generatedQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	ConceptTags   []string `json:"concept_tags"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, content string, n int) ([]*types.Question, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []*types.Question{}, nil
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You write MCAT practice questions. Each question has exactly four options " +
					"and the correct answer must be copied verbatim from the options.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: g.buildPrompt(content, n),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, fmt.Errorf("openai generator: %v: %w", err, apperr.ErrServiceUnavailable)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai generator: empty response: %w", apperr.ErrServiceUnavailable)
	}

	var payload struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("openai generator: decode: %v: %w", err, apperr.ErrServiceUnavailable)
	}
	if len(payload.Questions) < n {
		return nil, fmt.Errorf("openai generator: asked for %d questions, got %d: %w", n, len(payload.Questions), apperr.ErrServiceUnavailable)
	}

	out := make([]*types.Question, 0, n)
	for i, gq := range payload.Questions[:n] {
		difficulty := gq.Difficulty
		if difficulty == "" {
			difficulty = types.DefaultDifficulty
		}
		q := &types.Question{
			Position:      i,
			QuestionText:  strings.TrimSpace(gq.QuestionText),
			CorrectAnswer: gq.CorrectAnswer,
			Options:       datatypes.JSONSlice[string](gq.Options),
			Explanation:   gq.Explanation,
			Difficulty:    difficulty,
			ConceptTags:   datatypes.JSONSlice[string](gq.ConceptTags),
		}
		q.Normalize()
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("openai generator: question %d: %v: %w", i+1, err, apperr.ErrServiceUnavailable)
		}
		out = append(out, q)
	}
	g.log.Debug("Generated questions", "count", len(out), "model", g.model)
	return out, nil
}

// truncateContent cuts content to at most limit bytes without splitting a rune.
func truncateContent(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

func (g *OpenAIGenerator) buildPrompt(content string, n int) string {
	content = truncateContent(content, g.maxChars)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Write %d multiple-choice questions based on the chapter below.\n", n))
	sb.WriteString(`Respond with a JSON object {"questions": [...]} where each question has the fields ` +
		`question_text, options (4 strings), correct_answer, explanation, difficulty (easy, medium or hard) ` +
		"and concept_tags (short lowercase topic names).\n\n")
	sb.WriteString("Chapter:\n")
	sb.WriteString(content)
	return sb.String()
}
