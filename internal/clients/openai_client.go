package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spacesedan/reviewlens/internal/models"
)

const openAIPrompt = `Classify the sentiment of the customer review you are given.
The review may be written in English, Shona, Ndebele or Tonga.

Return only valid JSON, formatted exactly as follows:
{"sentiment": "Positive" | "Neutral" | "Negative", "score": <number between -1 and 1>}

No Markdown formatting, no extra text before or after the JSON.`

var ErrEmptyCompletion = errors.New("openai returned an empty completion")

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIClassifier scores reviews with a chat completion. Like ModelClient it
// makes exactly one attempt per text.
type OpenAIClassifier struct {
	Client *openai.Client
	Model  openai.ChatModel
}

func NewOpenAIClassifier(cfg OpenAIConfig) (*OpenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("[OpenAIClient] missing OPENAI_API_KEY")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = openai.ChatModelGPT3_5Turbo
	}

	slog.Info("[OpenAIClient] OpenAI classifier initialized",
		slog.String("model", string(model)))

	return &OpenAIClassifier{
		Client: openai.NewClient(opts...),
		Model:  model,
	}, nil
}

func (o *OpenAIClassifier) Name() string {
	return "openai"
}

func (o *OpenAIClassifier) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	completion, err := o.Client.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(openAIPrompt),
				openai.UserMessage(Prefix(text, MAX_PROMPT_CHARS)),
			}),
			Model:       openai.F(o.Model),
			Temperature: openai.Float(0),
		}, option.WithMaxRetries(0))
	if err != nil {
		return models.NeutralResult, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return models.NeutralResult, ErrEmptyCompletion
	}

	var resp models.ModelResponse
	raw := cleanOpenAIResponse(completion.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return models.NeutralResult, fmt.Errorf("failed to parse completion: %w", err)
	}

	return ToSentimentResult(resp), nil
}

func cleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`)
	response = strings.ReplaceAll(response, "”", `"`)

	return strings.TrimSpace(response)
}
