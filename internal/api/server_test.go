// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishisahay/internal/common/config"
	"krishisahay/internal/common/logger"
	"krishisahay/internal/models"
	"krishisahay/internal/pipeline"
	"krishisahay/internal/store"
	"krishisahay/internal/store/redisstore"
)

func newTestServer(t *testing.T) *Server {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	backend := redisstore.New(client)
	stores := &store.Stores{
		Cache:     backend,
		Knowledge: backend,
		Feedback:  backend,
		Backend:   backend.Name(),
	}

	cfg := &config.Config{}
	cfg.App.Name = "krishisahay"
	cfg.App.Version = "1.0.0"
	cfg.Pipeline = config.PipelineConfig{
		DefaultLanguage:  "en",
		KnowledgeLimit:   5,
		CacheTimeout:     3000,
		KnowledgeTimeout: 3000,
	}

	p := pipeline.New(stores, cfg.Pipeline, logger.NewNoOpLogger())
	return NewServer(cfg, p, logger.NewNoOpLogger())
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "krishisahay", resp["service"])
}

func TestAsk_EmptyQueryRejected(t *testing.T) {
	s := newTestServer(t)

	for _, query := range []string{"", "   "} {
		w := doJSON(t, s, http.MethodPost, "/ask", models.AskRequest{Query: query})
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Query cannot be empty", resp.Error)
		assert.Empty(t, resp.Source)
	}
}

func TestAsk_MalformedBodyRejected(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAsk_FirstLocalThenCache(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/ask", models.AskRequest{Query: "How to grow rice?"})
	require.Equal(t, http.StatusOK, w.Code)

	var first models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, models.SourceLocal, first.Source)
	assert.Equal(t, "crops", first.Category)
	assert.NotEmpty(t, first.Answer)

	// Same question, different casing and padding: served from cache.
	w = doJSON(t, s, http.MethodPost, "/ask", models.AskRequest{Query: "  HOW TO GROW RICE?  "})
	require.Equal(t, http.StatusOK, w.Code)

	var second models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, models.SourceCache, second.Source)
	assert.Equal(t, first.Answer, second.Answer)
}

func TestAsk_RequestIDEchoed(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/ask", models.AskRequest{Query: "weather tomorrow"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/feedback", models.FeedbackRequest{
		Query: "q", Answer: "a", Feedback: "enthusiastic",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/feedback", models.FeedbackRequest{
		Query: "q", Answer: "a", Feedback: models.FeedbackPositive,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var ack models.AckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, "ok", ack.Status)
}

func TestAppFeedback_Validation(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/app-feedback", models.AppFeedbackRequest{Message: "meh"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := 0
	w = doJSON(t, s, http.MethodPost, "/app-feedback", models.AppFeedbackRequest{
		Message: "rating too low here", Rating: &bad,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	good := 4
	w = doJSON(t, s, http.MethodPost, "/app-feedback", models.AppFeedbackRequest{
		Message: "very helpful app", Rating: &good, Page: "ask",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppFeedback_ListRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rating := 5
	w := doJSON(t, s, http.MethodPost, "/app-feedback", models.AppFeedbackRequest{
		Message: "great answers", Rating: &rating,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/app-feedback?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total    int                  `json:"total"`
		Feedback []models.AppFeedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "great answers", resp.Feedback[0].Message)
}

func TestAppFeedback_ListBadLimit(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/app-feedback?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingFeedback struct{}

func (failingFeedback) SaveFeedback(ctx context.Context, query, answer, feedback string) error {
	return stderrors.New("backend down")
}

func (failingFeedback) SaveAppFeedback(ctx context.Context, message string, rating *int, page string) error {
	return stderrors.New("backend down")
}

func (failingFeedback) RecentAppFeedback(ctx context.Context, limit int) ([]models.AppFeedback, error) {
	return nil, stderrors.New("backend down")
}

func TestInternalErrorShape(t *testing.T) {
	s := newTestServer(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	backend := redisstore.New(client)

	stores := &store.Stores{
		Cache:     backend,
		Knowledge: backend,
		Feedback:  failingFeedback{},
		Backend:   "redis",
	}
	s.pipeline = pipeline.New(stores, s.config.Pipeline, logger.NewNoOpLogger())

	w := doJSON(t, s, http.MethodPost, "/feedback", models.FeedbackRequest{
		Query: "q", Answer: "a", Feedback: models.FeedbackPositive,
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, models.SourceError, resp.Source)
	assert.NotEmpty(t, resp.Answer)
}
