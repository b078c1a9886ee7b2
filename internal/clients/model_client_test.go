package clients

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/internal/models"
)

func TestModelClientClassify(t *testing.T) {
	var got models.ModelRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"sentiment":"positive","score":0.92}`))
	}))
	defer srv.Close()

	client := NewModelClient(context.Background(), ModelConfig{Endpoint: srv.URL})

	long := strings.Repeat("é", 300)
	res, err := client.Classify(context.Background(), long)
	require.NoError(t, err)

	assert.Equal(t, models.SentimentResult{Label: models.LabelPositive, Polarity: 0.92}, res)
	assert.Equal(t, MAX_PROMPT_CHARS, utf8.RuneCountInString(got.Text))
}

func TestModelClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/garbage":
			_, _ = w.Write([]byte("<html>"))
		case "/huge":
			_, _ = w.Write([]byte(`{"sentiment":"positive","score":0.5,"pad":"`))
			_, _ = w.Write([]byte(strings.Repeat("x", MAX_RESPONSE_BYTES)))
			_, _ = w.Write([]byte(`"}`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"sentiment":"negative","score":-1}`))
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/down", "/garbage", "/huge"} {
		client := NewModelClient(context.Background(), ModelConfig{Endpoint: srv.URL + path})
		res, err := client.Classify(context.Background(), "text")
		assert.Error(t, err, path)
		assert.Equal(t, models.NeutralResult, res)
	}

	client := NewModelClient(context.Background(), ModelConfig{Endpoint: srv.URL + "/slow"})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Classify(ctx, "text")
	assert.Error(t, err)
}

func TestModelClientHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	assert.True(t, NewModelClient(context.Background(), ModelConfig{Endpoint: srv.URL}).HealthCheck(context.Background()))
	assert.False(t, NewModelClient(context.Background(), ModelConfig{Endpoint: srv.URL + "/broken"}).HealthCheck(context.Background()))
}

func TestToSentimentResult(t *testing.T) {
	tests := []struct {
		in   models.ModelResponse
		want models.SentimentResult
	}{
		{in: models.ModelResponse{Sentiment: "NEGATIVE", Score: -0.4}, want: models.SentimentResult{Label: models.LabelNegative, Polarity: -0.4}},
		{in: models.ModelResponse{Sentiment: "mixed", Score: 0.1}, want: models.SentimentResult{Label: models.LabelNeutral, Polarity: 0.1}},
		{in: models.ModelResponse{Sentiment: "Positive", Score: 7}, want: models.SentimentResult{Label: models.LabelPositive, Polarity: 1}},
		{in: models.ModelResponse{Sentiment: "", Score: math.NaN()}, want: models.NeutralResult},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSentimentResult(tt.in))
	}
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "abc", Prefix("abc", 5))
	assert.Equal(t, "ab", Prefix("abc", 2))
	assert.Equal(t, "éé", Prefix("ééé", 2))
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, HashKey("same text"), HashKey("same text"))
	assert.NotEqual(t, HashKey("a"), HashKey("b"))
	assert.Len(t, HashKey("anything"), 64)
}

func TestGetPreviewKeepsRunesWhole(t *testing.T) {
	preview := getPreview([]byte(strings.Repeat("ü", 60)))
	assert.True(t, utf8.ValidString(preview.Value.String()))
	assert.Equal(t, 50, utf8.RuneCountInString(preview.Value.String()))
}
