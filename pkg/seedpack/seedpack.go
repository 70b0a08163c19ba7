// pkg/seedpack/seedpack.go

// Package seedpack loads knowledge snippet packs from JSON files and
// validates them against a schema before they reach a store.
package seedpack

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"krishisahay/internal/models"
	"krishisahay/internal/pipeline/categorize"
)

// Pack is one seed file: a named batch of knowledge snippets.
type Pack struct {
	Name     string                    `json:"name"`
	Language string                    `json:"language"`
	Snippets []models.KnowledgeSnippet `json:"snippets"`
}

var snippetSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "language", "snippets"},
	"properties": map[string]interface{}{
		"name":     map[string]interface{}{"type": "string", "minLength": 1},
		"language": map[string]interface{}{"type": "string", "minLength": 2},
		"snippets": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"category", "title", "content"},
				"properties": map[string]interface{}{
					"category": map[string]interface{}{"type": "string", "minLength": 1},
					"title":    map[string]interface{}{"type": "string", "minLength": 1},
					"content":  map[string]interface{}{"type": "string", "minLength": 1},
					"keywords": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	},
}

// Load reads and validates a seed pack. Snippets inherit the pack
// language when they carry none, and every category must be one the
// detector can produce.
func Load(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed pack: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes raw seed pack JSON.
func Parse(raw []byte) (*Pack, error) {
	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("parse seed pack: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(snippetSchema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validate seed pack: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("seed pack validation failed: %v", errs)
	}

	var pack Pack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode seed pack: %w", err)
	}

	known := make(map[string]bool)
	for _, c := range categorize.All() {
		known[string(c)] = true
	}

	for i := range pack.Snippets {
		if pack.Snippets[i].Language == "" {
			pack.Snippets[i].Language = pack.Language
		}
		if !known[pack.Snippets[i].Category] {
			return nil, fmt.Errorf("seed pack snippet %q: unknown category %q",
				pack.Snippets[i].Title, pack.Snippets[i].Category)
		}
	}

	return &pack, nil
}
