// internal/store/postgres/postgres_test.go
package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return New(db), mock, db
}

func cachedAnswerRows(hitCount int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "query", "query_lower", "language", "answer", "category",
		"hit_count", "created_at", "updated_at",
	}).AddRow(
		int64(42), "How to grow rice?", "how to grow rice?", "en",
		"Sow with the monsoon.", "crops", hitCount, now, now,
	)
}

func TestLookup_Hit(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM query_cache WHERE query_lower = \$1 AND language = \$2`).
		WithArgs("how to grow rice?", "en").
		WillReturnRows(cachedAnswerRows(3))

	answer, err := store.Lookup(context.Background(), "how to grow rice?", "en")
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, int64(42), answer.ID)
	assert.Equal(t, "crops", answer.Category)
	assert.Equal(t, 3, answer.HitCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLookup_MissReturnsNilNotError(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM query_cache`).
		WithArgs("unknown query", "en").
		WillReturnError(sql.ErrNoRows)

	answer, err := store.Lookup(context.Background(), "unknown query", "en")
	assert.NoError(t, err)
	assert.Nil(t, answer)
}

func TestRecordHit(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE query_cache SET hit_count = hit_count \+ 1, updated_at = now\(\) WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.RecordHit(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_NewRecordStartsAtOne(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO query_cache .+ ON CONFLICT \(query_lower, language\)`).
		WithArgs("How to grow rice?", "how to grow rice?", "en", "Sow with the monsoon.", "crops").
		WillReturnRows(cachedAnswerRows(1))

	answer, err := store.Insert(context.Background(),
		"How to grow rice?", "how to grow rice?", "en", "Sow with the monsoon.", "crops")
	require.NoError(t, err)
	assert.Equal(t, 1, answer.HitCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Losing the insert race comes back as the existing row with its counter
// bumped, not as an error.
func TestInsert_ConflictBecomesHit(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO query_cache .+ ON CONFLICT`).
		WithArgs("How to grow rice?", "how to grow rice?", "en", "A different answer.", "crops").
		WillReturnRows(cachedAnswerRows(2))

	answer, err := store.Insert(context.Background(),
		"How to grow rice?", "how to grow rice?", "en", "A different answer.", "crops")
	require.NoError(t, err)
	assert.Equal(t, 2, answer.HitCount)
	assert.Equal(t, "Sow with the monsoon.", answer.Answer, "existing answer must stand")
}

func TestSearch_ReturnsSnippetsInStorageOrder(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "category", "title", "content", "keywords", "language", "created_at",
	}).
		AddRow(int64(1), "crops", "Rice sowing", "Sow in June.", "{rice,sowing}", "en", now).
		AddRow(int64(2), "crops", "Rice water", "Keep 5 cm water.", "{rice,water}", "en", now)

	mock.ExpectQuery(`SELECT .+ FROM knowledge WHERE category = \$1 AND language = \$2 ORDER BY id LIMIT \$3`).
		WithArgs("crops", "en", 5).
		WillReturnRows(rows)

	snippets, err := store.Search(context.Background(), "crops", "en", 5)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "Rice sowing", snippets[0].Title)
	assert.Equal(t, []string{"rice", "sowing"}, snippets[0].Keywords)
}

func TestSearch_EmptyCategory(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM knowledge`).
		WithArgs("weather", "en", 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "category", "title", "content", "keywords", "language", "created_at",
		}))

	snippets, err := store.Search(context.Background(), "weather", "en", 5)
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestSaveFeedback(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_feedback \(query, answer, feedback\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs("How to grow rice?", "Sow with the monsoon.", "positive").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.SaveFeedback(context.Background(), "How to grow rice?", "Sow with the monsoon.", "positive")
	assert.NoError(t, err)
}

func TestSaveAppFeedback_NilRatingAndEmptyPage(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO app_feedback \(rating, message, page\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(nil, "Very helpful app", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.SaveAppFeedback(context.Background(), "Very helpful app", nil, "")
	assert.NoError(t, err)
}

func TestRecentAppFeedback(t *testing.T) {
	store, mock, db := setupMockDB(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "rating", "message", "page", "created_at"}).
		AddRow(int64(2), 5, "Great answers", "ask", now).
		AddRow(int64(1), nil, "Needs Hindi voice input", nil, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .+ FROM app_feedback ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(rows)

	items, err := store.RecentAppFeedback(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Rating)
	assert.Equal(t, 5, *items[0].Rating)
	assert.Nil(t, items[1].Rating)
	assert.Empty(t, items[1].Page)
}
