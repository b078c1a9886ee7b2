package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/monitoring"
	"github.com/spacesedan/reviewlens/internal/pipeline"
	"github.com/spacesedan/reviewlens/internal/sentiment"
)

const sharedCacheTTL = 24 * time.Hour

// buildOptions wires the optional remote classifier and shared cache from the
// environment. The returned cleanup closes whatever was opened.
func buildOptions(ctx context.Context, engine string, cacheSize int) (pipeline.Options, func()) {
	var opts pipeline.Options
	cleanup := func() {}

	if engine == sentiment.EngineRemote {
		opts.Classifier, opts.HealthCheck = remoteClassifier(ctx)
	}

	addr := os.Getenv("VALKEY_INIT_ADDRESS")
	if addr == "" || cacheSize == 0 {
		return opts, cleanup
	}

	vc, err := clients.NewValkeyClient(clients.ValkeyConfig{
		Address:  addr,
		Password: os.Getenv("VALKEY_PASSWORD"),
		TLS:      strings.EqualFold(os.Getenv("VALKEY_TLS"), "true"),
	})
	if err != nil {
		slog.Warn("[CLI] Shared cache unavailable, using in-memory cache only",
			slog.String("error", err.Error()))
		return opts, cleanup
	}

	opts.SentimentCache = cache.Tiered[models.SentimentResult]{
		Local:  cache.NewLRU[models.SentimentResult](cacheSize),
		Shared: cache.NewValkeyCache[models.SentimentResult](vc, "reviewlens:sentiment", sharedCacheTTL),
	}
	opts.LanguageCache = cache.Tiered[models.Language]{
		Local:  cache.NewLRU[models.Language](cacheSize),
		Shared: cache.NewValkeyCache[models.Language](vc, "reviewlens:language", sharedCacheTTL),
	}
	return opts, vc.Close
}

// remoteClassifier prefers a dedicated model endpoint and falls back to OpenAI.
func remoteClassifier(ctx context.Context) (sentiment.Classifier, func(context.Context) bool) {
	if endpoint := os.Getenv("MODEL_ENDPOINT"); endpoint != "" {
		mc := clients.NewModelClient(ctx, clients.ModelConfig{
			Endpoint:     endpoint,
			TokenURL:     os.Getenv("MODEL_TOKEN_URL"),
			ClientID:     os.Getenv("MODEL_CLIENT_ID"),
			ClientSecret: os.Getenv("MODEL_CLIENT_SECRET"),
			Scopes:       strings.Fields(os.Getenv("MODEL_SCOPES")),
		})
		return mc, func(ctx context.Context) bool {
			return monitoring.CheckAnalyzerHealth(ctx, mc)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		oc, err := clients.NewOpenAIClassifier(clients.OpenAIConfig{
			APIKey:  key,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		})
		if err == nil {
			return oc, nil
		}
		slog.Warn("[CLI] OpenAI classifier unavailable",
			slog.String("error", err.Error()))
	}

	return nil, nil
}
