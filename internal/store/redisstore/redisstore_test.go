// internal/store/redisstore/redisstore_test.go
package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishisahay/internal/models"
)

func setupStore(t *testing.T) *Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client)
}

func TestLookup_MissReturnsNilNotError(t *testing.T) {
	store := setupStore(t)

	answer, err := store.Lookup(context.Background(), "unknown query", "en")
	require.NoError(t, err)
	assert.Nil(t, answer)
}

func TestInsert_ThenLookup(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx,
		"How to grow rice?", "how to grow rice?", "en", "Sow with the monsoon.", "crops")
	require.NoError(t, err)
	assert.Equal(t, 1, inserted.HitCount)
	assert.NotZero(t, inserted.ID)

	found, err := store.Lookup(ctx, "how to grow rice?", "en")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, inserted.ID, found.ID)
	assert.Equal(t, "Sow with the monsoon.", found.Answer)
	assert.Equal(t, "crops", found.Category)
}

func TestInsert_SameKeyDifferentLanguageIsSeparate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	en, err := store.Insert(ctx, "fertilizer dose", "fertilizer dose", "en", "Use NPK.", "fertilizers")
	require.NoError(t, err)
	hi, err := store.Insert(ctx, "fertilizer dose", "fertilizer dose", "hi", "NPK ka prayog karein.", "fertilizers")
	require.NoError(t, err)

	assert.NotEqual(t, en.ID, hi.ID)
	assert.Equal(t, 1, en.HitCount)
	assert.Equal(t, 1, hi.HitCount)
}

// Losing the insert race comes back as the existing row with its counter
// bumped, not as an error.
func TestInsert_ConflictBecomesHit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first, err := store.Insert(ctx,
		"How to grow rice?", "how to grow rice?", "en", "Sow with the monsoon.", "crops")
	require.NoError(t, err)

	second, err := store.Insert(ctx,
		"HOW TO GROW RICE?", "how to grow rice?", "en", "A different answer.", "crops")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.HitCount)
	assert.Equal(t, "Sow with the monsoon.", second.Answer, "existing answer must stand")
}

func TestRecordHit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx,
		"How to grow rice?", "how to grow rice?", "en", "Sow with the monsoon.", "crops")
	require.NoError(t, err)

	require.NoError(t, store.RecordHit(ctx, inserted.ID))
	require.NoError(t, store.RecordHit(ctx, inserted.ID))

	found, err := store.Lookup(ctx, "how to grow rice?", "en")
	require.NoError(t, err)
	assert.Equal(t, 3, found.HitCount)
}

func TestRecordHit_UnknownIDIsNoError(t *testing.T) {
	store := setupStore(t)
	assert.NoError(t, store.RecordHit(context.Background(), 9999))
}

func TestSearch_SeededKnowledgeInOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.SeedKnowledge(ctx, []models.KnowledgeSnippet{
		{Category: "crops", Title: "Rice sowing", Content: "Sow in June.", Keywords: []string{"rice", "sowing"}, Language: "en"},
		{Category: "crops", Title: "Rice water", Content: "Keep 5 cm water.", Keywords: []string{"rice", "water"}, Language: "en"},
		{Category: "pests", Title: "Stem borer", Content: "Use pheromone traps.", Language: "en"},
	})
	require.NoError(t, err)

	snippets, err := store.Search(ctx, "crops", "en", 5)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "Rice sowing", snippets[0].Title)
	assert.Equal(t, "Rice water", snippets[1].Title)
	assert.Equal(t, []string{"rice", "sowing"}, snippets[0].Keywords)
}

func TestSearch_LimitTruncates(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.SeedKnowledge(ctx, []models.KnowledgeSnippet{
		{Category: "weather", Title: "Monsoon onset", Content: "June arrival.", Language: "en"},
		{Category: "weather", Title: "Drought advisory", Content: "Mulch fields.", Language: "en"},
		{Category: "weather", Title: "Frost", Content: "Light irrigation at night.", Language: "en"},
	})
	require.NoError(t, err)

	snippets, err := store.Search(ctx, "weather", "en", 2)
	require.NoError(t, err)
	assert.Len(t, snippets, 2)
}

func TestSearch_EmptyCategory(t *testing.T) {
	store := setupStore(t)

	snippets, err := store.Search(context.Background(), "schemes", "en", 5)
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestSaveFeedback(t *testing.T) {
	store := setupStore(t)
	err := store.SaveFeedback(context.Background(),
		"How to grow rice?", "Sow with the monsoon.", models.FeedbackPositive)
	assert.NoError(t, err)
}

func TestAppFeedback_RoundTripNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rating := 5
	require.NoError(t, store.SaveAppFeedback(ctx, "Needs Hindi voice input", nil, ""))
	require.NoError(t, store.SaveAppFeedback(ctx, "Great answers", &rating, "ask"))

	items, err := store.RecentAppFeedback(ctx, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Great answers", items[0].Message)
	require.NotNil(t, items[0].Rating)
	assert.Equal(t, 5, *items[0].Rating)
	assert.Nil(t, items[1].Rating)
	assert.Empty(t, items[1].Page)
}

func TestRecentAppFeedback_LimitKeepsNewest(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAppFeedback(ctx, "first note", nil, ""))
	require.NoError(t, store.SaveAppFeedback(ctx, "second note", nil, ""))
	require.NoError(t, store.SaveAppFeedback(ctx, "third note", nil, ""))

	items, err := store.RecentAppFeedback(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "third note", items[0].Message)
	assert.Equal(t, "second note", items[1].Message)
}
