// internal/store/elastic/elastic.go

// Package elastic serves knowledge snippets from an Elasticsearch index.
// It only covers the knowledge side of storage; the cache and feedback
// sides stay on the primary backend.
package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"krishisahay/internal/models"
)

const DefaultIndex = "knowledge"

var ErrSearchFailed = errors.New("SEARCH_QUERY_FAILED")

type Store struct {
	client *elasticsearch.Client
	index  string
}

func New(client *elasticsearch.Client, index string) *Store {
	if index == "" {
		index = DefaultIndex
	}
	return &Store{client: client, index: index}
}

func (s *Store) Name() string { return "elasticsearch" }

func (s *Store) Search(ctx context.Context, category, language string, limit int) ([]models.KnowledgeSnippet, error) {
	if limit <= 0 {
		return nil, nil
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"category": category}},
					map[string]interface{}{"term": map[string]interface{}{"language": language}},
				},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		},
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &limit,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.KnowledgeSnippet `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	var snippets []models.KnowledgeSnippet
	for _, hit := range r.Hits.Hits {
		snippets = append(snippets, hit.Source)
	}
	return snippets, nil
}

func (s *Store) SeedKnowledge(ctx context.Context, snippets []models.KnowledgeSnippet) error {
	for _, snip := range snippets {
		payload, err := json.Marshal(snip)
		if err != nil {
			return fmt.Errorf("seed knowledge %q: %w", snip.Title, err)
		}

		req := esapi.IndexRequest{
			Index: s.index,
			Body:  strings.NewReader(string(payload)),
		}
		res, err := req.Do(ctx, s.client)
		if err != nil {
			return fmt.Errorf("seed knowledge %q: %w", snip.Title, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("seed knowledge %q: %s", snip.Title, res.Status())
		}
	}
	return nil
}
