package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"unicode/utf8"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/reviewlens/internal/models"
)

type ModelConfig struct {
	Endpoint string

	// Optional OAuth2 client-credentials protection for the endpoint.
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// ModelClient calls the hosted sentiment model. It never retries: callers
// fall back to a local scorer on any error.
type ModelClient struct {
	Client   *http.Client
	Endpoint string
}

func NewModelClient(ctx context.Context, cfg ModelConfig) *ModelClient {
	httpClient := &http.Client{}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		httpClient = cc.Client(ctx)
		slog.Info("[ModelClient] Using OAuth2 client credentials",
			slog.String("token_url", cfg.TokenURL))
	}

	return &ModelClient{
		Client:   httpClient,
		Endpoint: cfg.Endpoint,
	}
}

func (m *ModelClient) Name() string {
	return "model"
}

// Classify scores a single text. Only the first MAX_PROMPT_CHARS characters are sent.
func (m *ModelClient) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	var resp models.ModelResponse
	if err := m.postJSON(ctx, m.Endpoint, models.ModelRequest{Text: Prefix(text, MAX_PROMPT_CHARS)}, &resp); err != nil {
		return models.NeutralResult, err
	}
	return ToSentimentResult(resp), nil
}

// HealthCheck reports whether the endpoint answers at all. Any status below
// 500 counts as alive since the endpoint only accepts POST.
func (m *ModelClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := m.Client.Do(req)
	if err != nil {
		slog.Warn("[ModelClient] Health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode < http.StatusInternalServerError
}

func (m *ModelClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MAX_RESPONSE_BYTES+1))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(respBody) > MAX_RESPONSE_BYTES {
		return fmt.Errorf("response exceeds %d bytes", MAX_RESPONSE_BYTES)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Debug("[ModelClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// ToSentimentResult normalizes a model answer. Unknown labels become Neutral
// and scores are clamped into [-1, 1].
func ToSentimentResult(resp models.ModelResponse) models.SentimentResult {
	label, err := models.ParseLabel(resp.Sentiment)
	if err != nil {
		label = models.LabelNeutral
	}

	score := resp.Score
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(-1, math.Min(1, score))

	return models.SentimentResult{Label: label, Polarity: score}
}

// Prefix returns at most n runes of s.
func Prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func getPreview(respBody []byte) slog.Attr {
	return slog.String("raw_response", Prefix(string(respBody), 50))
}
