// internal/pipeline/pipeline.go

// Package pipeline runs a query through categorization, cache lookup,
// knowledge retrieval and answer synthesis. Storage trouble anywhere on
// that path degrades the answer, never the request: a failed lookup is a
// miss, a failed snippet fetch synthesizes from templates alone, and a
// failed cache write is logged and forgotten.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"krishisahay/internal/common/config"
	"krishisahay/internal/common/errors"
	"krishisahay/internal/common/logger"
	"krishisahay/internal/common/metrics"
	"krishisahay/internal/common/observability"
	"krishisahay/internal/models"
	"krishisahay/internal/pipeline/categorize"
	"krishisahay/internal/pipeline/synthesize"
	"krishisahay/internal/store"
)

type Pipeline struct {
	stores *store.Stores
	cfg    config.PipelineConfig
	logger logger.Logger
	obs    *observability.Observability
}

func New(stores *store.Stores, cfg config.PipelineConfig, log logger.Logger) *Pipeline {
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = 3000
	}
	if cfg.KnowledgeTimeout <= 0 {
		cfg.KnowledgeTimeout = 3000
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	return &Pipeline{
		stores: stores,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// WithObservability attaches tracing and otel metrics. Optional; a
// pipeline without it still serves queries.
func (p *Pipeline) WithObservability(obs *observability.Observability) *Pipeline {
	p.obs = obs
	return p
}

// Ask answers a query. The response source is "cache" when a previously
// stored answer matched, "local" when the answer was synthesized this
// request. Validation problems come back as a StandardError; storage
// problems never surface here.
func (p *Pipeline) Ask(ctx context.Context, query, language string) (*models.AskResponse, error) {
	start := time.Now()

	if p.obs != nil {
		var span trace.Span
		ctx, span = p.obs.StartSpan(ctx, "pipeline.ask")
		defer span.End()
	}

	queryLower := models.NormalizeQuery(query)
	if queryLower == "" {
		return nil, errors.NewEmptyQueryError()
	}
	if language == "" {
		language = p.cfg.DefaultLanguage
	}

	category := categorize.Detect(queryLower)

	if cached := p.lookupCache(ctx, queryLower, language); cached != nil {
		p.recordHit(ctx, cached)

		responseCategory := cached.Category
		if responseCategory == "" {
			responseCategory = string(category)
		}
		p.observe(ctx, models.SourceCache, responseCategory, start)
		return &models.AskResponse{
			Answer:   cached.Answer,
			Source:   models.SourceCache,
			Category: responseCategory,
		}, nil
	}

	snippets := p.fetchKnowledge(ctx, category, language)
	answer := synthesize.Compose(category, snippets)

	p.cacheAnswer(ctx, query, queryLower, language, answer, string(category))

	p.observe(ctx, models.SourceLocal, string(category), start)
	return &models.AskResponse{
		Answer:   answer,
		Source:   models.SourceLocal,
		Category: string(category),
	}, nil
}

func (p *Pipeline) lookupCache(ctx context.Context, queryLower, language string) *models.CachedAnswer {
	lookupCtx, cancel := context.WithTimeout(ctx, config.GetDuration(p.cfg.CacheTimeout))
	defer cancel()

	cached, err := p.stores.Cache.Lookup(lookupCtx, queryLower, language)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		metrics.StoreDegradations.WithLabelValues("lookup").Inc()
		p.logger.WithError(err).Warn("cache lookup failed, treating as miss", map[string]interface{}{
			"query": queryLower,
		})
		return nil
	}
	if cached == nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return cached
}

func (p *Pipeline) recordHit(ctx context.Context, cached *models.CachedAnswer) {
	hitCtx, cancel := context.WithTimeout(ctx, config.GetDuration(p.cfg.CacheTimeout))
	defer cancel()

	if err := p.stores.Cache.RecordHit(hitCtx, cached.ID); err != nil {
		metrics.StoreDegradations.WithLabelValues("record_hit").Inc()
		p.logger.WithError(err).Warn("hit count update failed", map[string]interface{}{
			"id": cached.ID,
		})
	}
}

func (p *Pipeline) fetchKnowledge(ctx context.Context, category categorize.Category, language string) []models.KnowledgeSnippet {
	limit := p.cfg.KnowledgeLimit
	if limit <= 0 {
		limit = 5
	}

	fetchCtx, cancel := context.WithTimeout(ctx, config.GetDuration(p.cfg.KnowledgeTimeout))
	defer cancel()

	snippets, err := p.stores.Knowledge.Search(fetchCtx, string(category), language, limit)
	if err != nil {
		metrics.StoreDegradations.WithLabelValues("knowledge_fetch").Inc()
		p.logger.WithError(err).Warn("knowledge fetch failed, answering from templates", map[string]interface{}{
			"category": string(category),
		})
		return nil
	}
	return snippets
}

func (p *Pipeline) cacheAnswer(ctx context.Context, query, queryLower, language, answer, category string) {
	insertCtx, cancel := context.WithTimeout(ctx, config.GetDuration(p.cfg.CacheTimeout))
	defer cancel()

	if _, err := p.stores.Cache.Insert(insertCtx, query, queryLower, language, answer, category); err != nil {
		metrics.StoreDegradations.WithLabelValues("insert").Inc()
		p.logger.WithError(err).Warn("cache write failed, answer served uncached", map[string]interface{}{
			"query": queryLower,
		})
	}
}

func (p *Pipeline) observe(ctx context.Context, source, category string, start time.Time) {
	elapsed := time.Since(start)
	metrics.QueriesTotal.WithLabelValues(source, category).Inc()
	metrics.QueryDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if p.obs != nil {
		p.obs.RecordQuery(ctx, source, float64(elapsed.Milliseconds()))
	}
}

// SubmitFeedback records a user judgment on an answer.
func (p *Pipeline) SubmitFeedback(ctx context.Context, query, answer, feedback string) error {
	if feedback != models.FeedbackPositive && feedback != models.FeedbackNegative {
		return errors.NewInvalidFeedbackError(feedback)
	}

	if err := p.stores.Feedback.SaveFeedback(ctx, query, answer, feedback); err != nil {
		metrics.StoreDegradations.WithLabelValues("feedback").Inc()
		return errors.NewStoreError(errors.ErrCodeFeedbackWriteFailed, err.Error())
	}
	metrics.FeedbackTotal.WithLabelValues(feedback).Inc()
	return nil
}

// SubmitAppFeedback records general feedback about the application.
func (p *Pipeline) SubmitAppFeedback(ctx context.Context, message string, rating *int, page string) error {
	if len([]rune(message)) < 5 {
		return errors.NewMessageTooShortError()
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return errors.NewRatingOutOfRangeError(*rating)
	}

	if err := p.stores.Feedback.SaveAppFeedback(ctx, message, rating, page); err != nil {
		metrics.StoreDegradations.WithLabelValues("app_feedback").Inc()
		return errors.NewStoreError(errors.ErrCodeFeedbackWriteFailed, err.Error())
	}
	return nil
}

// RecentAppFeedback lists the latest app feedback entries, newest first.
func (p *Pipeline) RecentAppFeedback(ctx context.Context, limit int) ([]models.AppFeedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, err := p.stores.Feedback.RecentAppFeedback(ctx, limit)
	if err != nil {
		return nil, errors.NewStoreError(errors.ErrCodeStoreUnavailable, err.Error())
	}
	return items, nil
}
